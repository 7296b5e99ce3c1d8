package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"chat-relay/domain"
	"chat-relay/observability"

	"github.com/google/uuid"
)

// Broadcaster fans stamped messages out to every connected subscriber.
//
// Delivery is best effort: at most once, no acknowledgment, nothing is
// queued for absent subscribers. A subscriber that joins after a
// message was published never sees it through this channel; catch-up
// happens only via the login snapshot. A full subscriber buffer costs
// that subscriber the frame, it never blocks the relay.
//
// Broadcaster is safe for concurrent use by multiple goroutines.
type Broadcaster struct {
	log   *slog.Logger
	in    <-chan domain.ChatMessage
	stats *observability.StatsManager

	bufferSize int

	mu          sync.RWMutex
	subscribers map[uuid.UUID]chan []byte
}

func NewBroadcaster(
	log *slog.Logger,
	in <-chan domain.ChatMessage,
	bufferSize int,
	stats *observability.StatsManager,
) *Broadcaster {
	return &Broadcaster{
		log:         log,
		in:          in,
		stats:       stats,
		bufferSize:  bufferSize,
		subscribers: make(map[uuid.UUID]chan []byte),
	}
}

// Subscribe registers a new consumer and returns its identity together
// with the channel its frames arrive on. The channel is closed on
// Unsubscribe.
func (b *Broadcaster) Subscribe() (uuid.UUID, <-chan []byte) {
	id := uuid.New()
	frames := make(chan []byte, b.bufferSize)

	b.mu.Lock()
	b.subscribers[id] = frames
	count := len(b.subscribers)
	b.mu.Unlock()

	b.stats.SubscriberJoined()
	b.log.Info("Subscriber joined", "id", id, "total", count)
	return id, frames
}

// Unsubscribe removes a consumer and closes its channel. Unknown ids
// are ignored so disconnect paths can call it unconditionally.
func (b *Broadcaster) Unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	frames, ok := b.subscribers[id]
	if ok {
		delete(b.subscribers, id)
	}
	count := len(b.subscribers)
	b.mu.Unlock()

	if !ok {
		return
	}
	close(frames)
	b.stats.SubscriberLeft()
	b.log.Info("Subscriber left", "id", id, "total", count)
}

// Run consumes the inbound pipeline and publishes each message, in
// arrival order, until the context is canceled.
func (b *Broadcaster) Run(ctx context.Context) error {
	for {
		select {
		case message := <-b.in:
			b.Publish(message)
		case <-ctx.Done():
			b.log.Debug("Context done, stopping broadcast")
			return nil
		}
	}
}

// Publish serializes the message once and offers the frame to every
// live subscriber with a non-blocking send.
func (b *Broadcaster) Publish(message domain.ChatMessage) {
	frame, err := json.Marshal(message)
	if err != nil {
		b.log.Error("Could not serialize message for broadcast", "error", err)
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, frames := range b.subscribers {
		select {
		case frames <- frame:
		default:
			b.stats.IncrDropped()
			b.log.Warn("Subscriber buffer full, frame dropped", "id", id)
		}
	}
	b.stats.IncrBroadcast()
	b.log.Info("Broadcasted message to all clients", "subscribers", len(b.subscribers))
}
