// Package ws exposes the relay's three channels as websocket endpoints
// carrying JSON text frames: request/response logins, fan-in ingestion
// and fan-out broadcast. Each channel binds its own port.
package ws

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// LoginPath serves the strict request/response login exchange.
	LoginPath = "/login"
	// SendPath receives inbound chat frames, no replies.
	SendPath = "/send"
	// MessagesPath streams broadcast frames to subscribers.
	MessagesPath = "/messages"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewServer builds the HTTP server carrying one channel endpoint.
// Read/write deadlines on the upgraded connections are the handlers'
// business; these timeouts only bound the handshake.
func NewServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:        fmt.Sprintf(":%d", port),
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
}

// Serve runs the server and reports unexpected exits on errChan, so
// the composition root can treat a dead endpoint as fatal.
func Serve(server *http.Server, log *slog.Logger, name string, errChan chan<- error) {
	go func() {
		log.Info("Bound channel endpoint", "channel", name, "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("%s endpoint failed: %w", name, err)
		}
	}()
}

// Shutdown drains one endpoint, waiting at most timeout.
func Shutdown(server *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return server.Shutdown(ctx)
}
