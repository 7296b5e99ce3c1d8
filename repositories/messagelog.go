//go:generate go run go.uber.org/mock/mockgen -source=messagelog.go -destination=../mocks/mock_message_log.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"chat-relay/domain"
	"chat-relay/errors"
)

type IMessageLog interface {
	Append(message domain.ChatMessage) error
	Snapshot(n int) []domain.ChatMessage
	Size() int
}

// logFile is the persisted shape: an object wrapping the full ordered
// sequence. The layout is a compatibility contract with existing
// message files and must not change.
type logFile struct {
	Messages []domain.ChatMessage `json:"messages"`
}

// MessageLog is the durable, append-only message sequence. The
// in-memory slice is the source of truth for reads; every successful
// append rewrites the whole file.
//
// The ingest worker is the only appender, but logins read snapshots
// concurrently, so a mutex still guards the slice.
type MessageLog struct {
	path string
	log  *slog.Logger

	mu       sync.Mutex
	messages []domain.ChatMessage
}

// LoadMessageLog reads the persisted sequence. A missing file is a
// fresh start, never fatal; an unreadable existing file aborts startup
// because silently shadowing durable history would lose it on the
// first append.
func LoadMessageLog(path string, log *slog.Logger) (*MessageLog, error) {
	m := &MessageLog{path: path, log: log}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Warn("Could not find messages file, starting empty", "path", path)
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMessageLogFile, err)
	}

	var file logFile
	if err = json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMessageLogFile, err)
	}

	m.messages = file.Messages
	log.Info("Messages loaded", "path", path, "count", len(m.messages))
	return m, nil
}

// Append adds the message to the in-memory sequence, then rewrites the
// whole file. Memory is mutated first: on a write failure the message
// is already visible to readers and the caller decides whether to keep
// going. Both orderings lose something on a crash; this one matches
// the "broadcast even if durability failed" contract of the ingestor.
func (m *MessageLog) Append(message domain.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = append(m.messages, message)

	data, err := json.MarshalIndent(logFile{Messages: m.messages}, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersist, err)
	}
	if err = os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersist, err)
	}

	m.log.Info("Saved messages", "path", m.path, "count", len(m.messages))
	return nil
}

// Snapshot returns the most recent n messages in arrival order. It is
// used to prime a freshly logged-in client.
func (m *MessageLog) Snapshot(n int) []domain.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n > len(m.messages) {
		n = len(m.messages)
	}
	if n <= 0 {
		return nil
	}

	snapshot := make([]domain.ChatMessage, n)
	copy(snapshot, m.messages[len(m.messages)-n:])
	return snapshot
}

// Size returns the current number of messages.
func (m *MessageLog) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}
