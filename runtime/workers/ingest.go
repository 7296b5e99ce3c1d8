package workers

import (
	"context"
	"log/slog"

	"chat-relay/domain"
	"chat-relay/services"
)

// Ingest drains the fan-in channel fed by the ingest endpoint. It is
// the single consumer, which makes it the relay's serialization point:
// whatever order frames leave this worker is the order the log and the
// broadcast stream see.
type Ingest struct {
	log     *slog.Logger
	service services.IIngestService
	in      <-chan []byte
	out     chan<- domain.ChatMessage
}

func NewIngest(
	log *slog.Logger,
	service services.IIngestService,
	in <-chan []byte,
	out chan<- domain.ChatMessage,
) *Ingest {
	return &Ingest{log: log, service: service, in: in, out: out}
}

// Run processes frames until the context is canceled. A malformed
// frame is logged and discarded; the loop always continues, so one bad
// client cannot take the pipeline down.
func (w *Ingest) Run(ctx context.Context) error {
	for {
		select {
		case raw := <-w.in:
			message, err := w.service.Ingest(raw)
			if err != nil {
				w.log.Warn("Discarding inbound frame", "error", err)
				continue
			}
			select {
			case w.out <- message:
			case <-ctx.Done():
				return nil
			}
		case <-ctx.Done():
			w.log.Debug("Context done, stopping ingestion")
			return nil
		}
	}
}
