package services

import (
	"log/slog"
	"testing"

	"chat-relay/domain"
	"chat-relay/mocks"
	"chat-relay/observability"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const aliceDigest = "d41d8cd98f00b204e9800998ecf8427e"

func newAuthService(t *testing.T) (*mocks.MockICredentialStore, *mocks.MockIMessageLog, IAuthService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	credentials := mocks.NewMockICredentialStore(ctrl)
	messages := mocks.NewMockIMessageLog(ctrl)
	svc := NewAuthService(credentials, messages, 10, slog.Default(), observability.NewStatsManager())
	return credentials, messages, svc
}

func TestAuthService_HandleLogin(t *testing.T) {
	t.Run("should succeed and return a snapshot when credentials match", func(t *testing.T) {
		req := require.New(t)
		credentials, messages, svc := newAuthService(t)

		recent := []domain.ChatMessage{
			{Sender: "bob", SenderAddress: "10.0.0.3", Time: "2024-06-01 10:00:00", Text: "hello"},
		}
		credentials.EXPECT().Verify("alice", aliceDigest).Return(true).Times(1)
		messages.EXPECT().Snapshot(10).Return(recent).Times(1)

		response := svc.HandleLogin([]byte(
			`{"type":"LOGIN","username":"alice","passwordDigest":"` + aliceDigest + `"}`,
		))

		req.Equal(domain.StatusSuccess, response.Status)
		req.Equal(recent, response.Messages)
	})

	t.Run("should fail identically for wrong digest and unknown user", func(t *testing.T) {
		req := require.New(t)
		credentials, _, svc := newAuthService(t)

		credentials.EXPECT().Verify("alice", "wrong").Return(false).Times(1)
		credentials.EXPECT().Verify("bob", "anything").Return(false).Times(1)

		wrongDigest := svc.HandleLogin([]byte(
			`{"type":"LOGIN","username":"alice","passwordDigest":"wrong"}`,
		))
		unknownUser := svc.HandleLogin([]byte(
			`{"type":"LOGIN","username":"bob","passwordDigest":"anything"}`,
		))

		req.Equal(domain.LoginResponse{Status: domain.StatusFail}, wrongDigest)
		req.Equal(wrongDigest, unknownUser)
	})

	t.Run("should fail without consulting the store on unexpected type", func(t *testing.T) {
		req := require.New(t)
		credentials, _, svc := newAuthService(t)

		credentials.EXPECT().Verify(gomock.Any(), gomock.Any()).Times(0)

		response := svc.HandleLogin([]byte(
			`{"type":"MESSAGE","username":"alice","passwordDigest":"x"}`,
		))

		req.Equal(domain.StatusFail, response.Status)
		req.Empty(response.Messages)
	})

	t.Run("should fail on malformed JSON and keep serving", func(t *testing.T) {
		req := require.New(t)
		credentials, messages, svc := newAuthService(t)

		response := svc.HandleLogin([]byte(`{"type":"LOG`))
		req.Equal(domain.StatusFail, response.Status)

		// The next well-formed request still works.
		credentials.EXPECT().Verify("alice", aliceDigest).Return(true).Times(1)
		messages.EXPECT().Snapshot(10).Return(nil).Times(1)

		response = svc.HandleLogin([]byte(
			`{"type":"LOGIN","username":"alice","passwordDigest":"` + aliceDigest + `"}`,
		))
		req.Equal(domain.StatusSuccess, response.Status)
	})
}
