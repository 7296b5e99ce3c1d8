package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/observability"
	"chat-relay/repositories"
)

type IIngestService interface {
	Ingest(raw []byte) (domain.ChatMessage, error)
}

// IngestService turns raw ingest frames into stamped, persisted
// messages. It is driven by a single worker, which makes it the global
// serialization point: persisted order and broadcast order are both
// the order in which Ingest is called.
type IngestService struct {
	messages repositories.IMessageLog
	log      *slog.Logger
	stats    *observability.StatsManager
}

func NewIngestService(
	messages repositories.IMessageLog,
	log *slog.Logger,
	stats *observability.StatsManager,
) IIngestService {
	return &IngestService{messages: messages, log: log, stats: stats}
}

// Ingest decodes and validates one inbound frame, overwrites its time
// with the relay-local clock, and appends it to the log. A malformed
// frame returns ErrProtocol and nothing else happens. A failed append
// is logged and counted but the stamped message is still returned:
// durability failures never block delivery.
func (s *IngestService) Ingest(raw []byte) (domain.ChatMessage, error) {
	var inbound domain.InboundMessage
	if err := json.Unmarshal(raw, &inbound); err != nil {
		s.stats.IncrProtocolError()
		return domain.ChatMessage{}, fmt.Errorf("%w: %v", errors.ErrProtocol, err)
	}
	if err := validate.Struct(inbound); err != nil {
		s.stats.IncrProtocolError()
		return domain.ChatMessage{}, fmt.Errorf("%w: %v", errors.ErrProtocol, err)
	}

	message := inbound.Stamp(time.Now())

	if err := s.messages.Append(message); err != nil {
		s.log.Error("Could not persist message, broadcasting anyway",
			"sender", message.Sender, "error", err)
		s.stats.IncrPersistFailure()
	}

	s.stats.IncrIngested()
	return message, nil
}
