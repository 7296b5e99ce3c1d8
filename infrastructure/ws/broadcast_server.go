package ws

import (
	"log/slog"
	"net/http"
	"time"

	"chat-relay/contract"

	"github.com/gorilla/websocket"
)

const writeDeadline = 10 * time.Second

// BroadcastServer terminates the fan-out channel. Each connection
// becomes one subscriber of the Broadcaster; frames flow one way,
// server to client, with no filtering. Inbound reads exist only to
// notice the peer hanging up.
type BroadcastServer struct {
	log       *slog.Logger
	publisher contract.IPublisher
}

func NewBroadcastServer(log *slog.Logger, publisher contract.IPublisher) *BroadcastServer {
	return &BroadcastServer{log: log, publisher: publisher}
}

func (s *BroadcastServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(MessagesPath, s.handle)
	return mux
}

func (s *BroadcastServer) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Broadcast upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	id, frames := s.publisher.Subscribe()
	defer s.publisher.Unsubscribe(id)

	// Drain inbound frames until the read fails: the only way to learn
	// the subscriber went away. Unsubscribing closes the frame channel
	// and ends the write loop below.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.publisher.Unsubscribe(id)
				return
			}
		}
	}()

	for frame := range frames {
		if err := conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
			s.log.Warn("Could not set write deadline", "remote", r.RemoteAddr, "error", err)
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			s.log.Debug("Subscriber write failed", "remote", r.RemoteAddr, "error", err)
			return
		}
	}
}
