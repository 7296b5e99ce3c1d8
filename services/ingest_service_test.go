package services

import (
	"log/slog"
	"testing"
	"time"

	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/observability"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newIngestService(t *testing.T) (*mocks.MockIMessageLog, IIngestService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	messages := mocks.NewMockIMessageLog(ctrl)
	svc := NewIngestService(messages, slog.Default(), observability.NewStatsManager())
	return messages, svc
}

func TestIngestService_Ingest(t *testing.T) {
	t.Run("should stamp relay time, overwriting the client value", func(t *testing.T) {
		req := require.New(t)
		messages, svc := newIngestService(t)

		var persisted domain.ChatMessage
		messages.EXPECT().
			Append(gomock.Any()).
			DoAndReturn(func(m domain.ChatMessage) error {
				persisted = m
				return nil
			}).
			Times(1)

		message, err := svc.Ingest([]byte(
			`{"type":"MESSAGE","message":"hi","sender":"alice","senderAddress":"10.0.0.2","time":"ignored"}`,
		))

		req.NoError(err)
		req.Equal("alice", message.Sender)
		req.Equal("10.0.0.2", message.SenderAddress)
		req.Equal("hi", message.Text)
		req.NotEqual("ignored", message.Time)
		_, parseErr := time.ParseInLocation(domain.TimestampLayout, message.Time, time.Local)
		req.NoError(parseErr)
		req.Equal(message, persisted)
	})

	t.Run("should return the stamped message even when persistence fails", func(t *testing.T) {
		req := require.New(t)
		messages, svc := newIngestService(t)

		messages.EXPECT().Append(gomock.Any()).Return(errors.ErrPersist).Times(1)

		message, err := svc.Ingest([]byte(
			`{"type":"MESSAGE","message":"hi","sender":"alice"}`,
		))

		req.NoError(err)
		req.Equal("hi", message.Text)
	})

	t.Run("should reject malformed JSON without touching the log", func(t *testing.T) {
		req := require.New(t)
		messages, svc := newIngestService(t)

		messages.EXPECT().Append(gomock.Any()).Times(0)

		_, err := svc.Ingest([]byte(`{"type":"MES`))
		req.ErrorIs(err, errors.ErrProtocol)
	})

	t.Run("should reject frames of an unexpected type", func(t *testing.T) {
		req := require.New(t)
		messages, svc := newIngestService(t)

		messages.EXPECT().Append(gomock.Any()).Times(0)

		_, err := svc.Ingest([]byte(
			`{"type":"LOGIN","message":"hi","sender":"alice"}`,
		))
		req.ErrorIs(err, errors.ErrProtocol)
	})

	t.Run("should reject frames without a sender", func(t *testing.T) {
		req := require.New(t)
		messages, svc := newIngestService(t)

		messages.EXPECT().Append(gomock.Any()).Times(0)

		_, err := svc.Ingest([]byte(`{"type":"MESSAGE","message":"hi"}`))
		req.ErrorIs(err, errors.ErrProtocol)
	})
}
