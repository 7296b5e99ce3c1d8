package ws

import (
	"log/slog"
	"net/http"
)

// IngestServer terminates the fan-in channel. Every connection feeds
// the same inbound queue and nothing is ever written back: the channel
// is fire-and-forget from the client's perspective. Senders that
// outrun the ingest worker block here, not inside the relay. Frames
// are passed through untouched; parsing and validation belong to the
// ingest service so a malformed frame costs only itself.
type IngestServer struct {
	log *slog.Logger
	in  chan<- []byte
}

func NewIngestServer(log *slog.Logger, in chan<- []byte) *IngestServer {
	return &IngestServer{log: log, in: in}
}

func (s *IngestServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(SendPath, s.handle)
	return mux
}

func (s *IngestServer) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Ingest upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	s.log.Info("Sender connected", "remote", r.RemoteAddr)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			s.log.Debug("Sender disconnected", "remote", r.RemoteAddr, "error", err)
			return
		}
		s.log.Info("Received message", "remote", r.RemoteAddr)
		s.in <- raw
	}
}
