package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"chat-relay/domain"
	"chat-relay/observability"

	"github.com/stretchr/testify/require"
)

func stamped(text string) domain.ChatMessage {
	return domain.ChatMessage{
		Sender:        "alice",
		SenderAddress: "10.0.0.2",
		Time:          "2024-06-01 10:00:00",
		Text:          text,
	}
}

func TestBroadcaster_DeliversToEverySubscriber(t *testing.T) {
	req := require.New(t)
	b := NewBroadcaster(slog.Default(), nil, 8, observability.NewStatsManager())

	id1, frames1 := b.Subscribe()
	id2, frames2 := b.Subscribe()
	defer b.Unsubscribe(id1)
	defer b.Unsubscribe(id2)

	message := stamped("hi")
	b.Publish(message)

	for _, frames := range []<-chan []byte{frames1, frames2} {
		var got domain.ChatMessage
		req.NoError(json.Unmarshal(<-frames, &got))
		req.Equal(message, got)
	}
}

func TestBroadcaster_NoRetroactiveDelivery(t *testing.T) {
	req := require.New(t)
	b := NewBroadcaster(slog.Default(), nil, 8, observability.NewStatsManager())

	// Published with zero subscribers: lost on purpose.
	b.Publish(stamped("missed"))

	id, frames := b.Subscribe()
	defer b.Unsubscribe(id)

	select {
	case frame := <-frames:
		req.Failf("unexpected delivery", "got frame %s", frame)
	case <-time.After(50 * time.Millisecond):
	}

	// The late joiner still receives everything published afterwards.
	b.Publish(stamped("fresh"))
	var got domain.ChatMessage
	req.NoError(json.Unmarshal(<-frames, &got))
	req.Equal("fresh", got.Text)
}

func TestBroadcaster_FullSubscriberNeverBlocksTheRelay(t *testing.T) {
	req := require.New(t)
	stats := observability.NewStatsManager()
	b := NewBroadcaster(slog.Default(), nil, 1, stats)

	slowID, slow := b.Subscribe()
	fastID, fast := b.Subscribe()
	defer b.Unsubscribe(slowID)
	defer b.Unsubscribe(fastID)

	done := make(chan struct{})
	go func() {
		// Nobody reads the slow subscriber; its one-slot buffer fills
		// after the first publish and later frames must be dropped
		// without blocking this loop.
		for i := 0; i < 5; i++ {
			b.Publish(stamped("flood"))
			<-fast
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		req.Fail("Publish blocked on a slow subscriber")
	}

	req.Len(slow, 1)
	req.GreaterOrEqual(stats.GetLatest().DroppedDeliveries, uint64(4))
}

func TestBroadcaster_RunPreservesArrivalOrder(t *testing.T) {
	req := require.New(t)
	in := make(chan domain.ChatMessage, 3)
	b := NewBroadcaster(slog.Default(), in, 8, observability.NewStatsManager())

	id, frames := b.Subscribe()
	defer b.Unsubscribe(id)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = b.Run(ctx) }()

	for _, text := range []string{"A", "B", "C"} {
		in <- stamped(text)
	}

	for _, expected := range []string{"A", "B", "C"} {
		var got domain.ChatMessage
		req.NoError(json.Unmarshal(<-frames, &got))
		req.Equal(expected, got.Text)
	}
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	req := require.New(t)
	b := NewBroadcaster(slog.Default(), nil, 8, observability.NewStatsManager())

	id, frames := b.Subscribe()
	b.Unsubscribe(id)

	_, open := <-frames
	req.False(open)

	// Unknown ids are a no-op.
	b.Unsubscribe(id)
}
