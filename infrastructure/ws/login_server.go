package ws

import (
	"log/slog"
	"net/http"

	"chat-relay/services"
)

// LoginServer terminates the login channel. One connection carries one
// strictly alternating request/response conversation: the handler
// blocks reading the next request, answers it, and reads again.
// Clients typically log in once and hang up.
type LoginServer struct {
	log     *slog.Logger
	service services.IAuthService
}

func NewLoginServer(log *slog.Logger, service services.IAuthService) *LoginServer {
	return &LoginServer{log: log, service: service}
}

func (s *LoginServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(LoginPath, s.handle)
	return mux
}

func (s *LoginServer) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Login upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			// Normal hangup after a one-shot login, or a broken peer.
			// Either way this conversation is over.
			s.log.Debug("Login connection closed", "remote", r.RemoteAddr, "error", err)
			return
		}

		response := s.service.HandleLogin(raw)
		if err = conn.WriteJSON(response); err != nil {
			s.log.Warn("Could not answer login request", "remote", r.RemoteAddr, "error", err)
			return
		}
	}
}
