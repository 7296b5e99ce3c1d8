package observability

import (
	"sync/atomic"
	"time"
)

// RelayStats aggregates the relay counters exposed by the stats worker.
type RelayStats struct {
	LoginSuccesses    uint64 `json:"login_successes"`
	LoginFailures     uint64 `json:"login_failures"`
	MessagesIngested  uint64 `json:"messages_ingested"`
	MessagesBroadcast uint64 `json:"messages_broadcast"`
	DroppedDeliveries uint64 `json:"dropped_deliveries"`
	ProtocolErrors    uint64 `json:"protocol_errors"`
	PersistFailures   uint64 `json:"persist_failures"`
	Subscribers       int64  `json:"subscribers"`
}

// StatsManager collects relay telemetry through atomic counters. Every
// worker shares one instance; all methods are safe for concurrent use.
type StatsManager struct {
	loginSuccesses    atomic.Uint64
	loginFailures     atomic.Uint64
	messagesIngested  atomic.Uint64
	messagesBroadcast atomic.Uint64
	droppedDeliveries atomic.Uint64
	protocolErrors    atomic.Uint64
	persistFailures   atomic.Uint64
	subscribers       atomic.Int64

	lastCheck time.Time
}

func NewStatsManager() *StatsManager {
	return &StatsManager{lastCheck: time.Now()}
}

func (s *StatsManager) IncrLoginSuccess() { s.loginSuccesses.Add(1) }

func (s *StatsManager) IncrLoginFailure() { s.loginFailures.Add(1) }

func (s *StatsManager) IncrIngested() { s.messagesIngested.Add(1) }

func (s *StatsManager) IncrBroadcast() { s.messagesBroadcast.Add(1) }

// IncrDropped counts a delivery lost to a full subscriber buffer.
func (s *StatsManager) IncrDropped() { s.droppedDeliveries.Add(1) }

func (s *StatsManager) IncrProtocolError() { s.protocolErrors.Add(1) }

func (s *StatsManager) IncrPersistFailure() { s.persistFailures.Add(1) }

func (s *StatsManager) SubscriberJoined() { s.subscribers.Add(1) }

func (s *StatsManager) SubscriberLeft() { s.subscribers.Add(-1) }

// GetLatest returns a point-in-time copy of all counters.
func (s *StatsManager) GetLatest() RelayStats {
	return RelayStats{
		LoginSuccesses:    s.loginSuccesses.Load(),
		LoginFailures:     s.loginFailures.Load(),
		MessagesIngested:  s.messagesIngested.Load(),
		MessagesBroadcast: s.messagesBroadcast.Load(),
		DroppedDeliveries: s.droppedDeliveries.Load(),
		ProtocolErrors:    s.protocolErrors.Load(),
		PersistFailures:   s.persistFailures.Load(),
		Subscribers:       s.subscribers.Load(),
	}
}
