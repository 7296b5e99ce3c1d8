package repositories

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"chat-relay/domain"
	"chat-relay/errors"

	"github.com/stretchr/testify/require"
)

func testMessages() []domain.ChatMessage {
	content := "this message will self destruct in 5 seconds"
	return []domain.ChatMessage{
		{Sender: "alice", SenderAddress: "10.0.0.2", Time: "2024-06-01 10:00:00", Text: content},
		{Sender: "bob", SenderAddress: "10.0.0.3", Time: "2024-06-01 10:01:00", Text: content},
		{Sender: "clara", SenderAddress: "10.0.0.4", Time: "2024-06-01 10:02:00", Text: content},
	}
}

func Test_Append_Then_Reload_Roundtrip(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "messages.json")

	log, err := LoadMessageLog(path, slog.Default())
	req.NoError(err)
	req.Zero(log.Size())

	for _, m := range testMessages() {
		req.NoError(log.Append(m))
	}

	reloaded, err := LoadMessageLog(path, slog.Default())
	req.NoError(err)
	req.Equal(testMessages(), reloaded.Snapshot(reloaded.Size()))
}

func Test_Missing_File_Starts_Empty(t *testing.T) {
	req := require.New(t)

	log, err := LoadMessageLog(filepath.Join(t.TempDir(), "absent.json"), slog.Default())
	req.NoError(err)
	req.Zero(log.Size())
	req.Nil(log.Snapshot(10))
}

func Test_Malformed_File_Is_Fatal(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "messages.json")
	req.NoError(os.WriteFile(path, []byte(`{"messages": [`), 0o644))

	_, err := LoadMessageLog(path, slog.Default())
	req.ErrorIs(err, errors.ErrMessageLogFile)
}

func Test_Snapshot_Returns_Most_Recent_In_Arrival_Order(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "messages.json")

	log, err := LoadMessageLog(path, slog.Default())
	req.NoError(err)
	messages := testMessages()
	for _, m := range messages {
		req.NoError(log.Append(m))
	}

	req.Equal(messages[1:], log.Snapshot(2))
	req.Equal(messages, log.Snapshot(10))
	req.Nil(log.Snapshot(0))
}

func Test_Append_Failure_Keeps_Memory(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()

	log, err := LoadMessageLog(filepath.Join(dir, "messages.json"), slog.Default())
	req.NoError(err)

	// Turn the target path into a directory so the rewrite fails.
	req.NoError(os.Mkdir(filepath.Join(dir, "messages.json"), 0o755))

	message := testMessages()[0]
	err = log.Append(message)
	req.ErrorIs(err, errors.ErrPersist)

	// The in-memory sequence already carries the message: delivery is
	// not blocked by a durability failure.
	req.Equal(1, log.Size())
	req.Equal([]domain.ChatMessage{message}, log.Snapshot(1))
}
