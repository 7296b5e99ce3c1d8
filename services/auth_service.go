package services

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/observability"
	"chat-relay/repositories"

	"github.com/go-playground/validator/v10"
)

type IAuthService interface {
	HandleLogin(raw []byte) domain.LoginResponse
}

var validate = validator.New()

// AuthService serves the login channel. Each request walks the same
// path: decode, validate, consult the credential store, respond. It
// holds read capabilities only; the stores are owned by the relay.
type AuthService struct {
	credentials  repositories.ICredentialStore
	messages     repositories.IMessageLog
	snapshotSize int
	log          *slog.Logger
	stats        *observability.StatsManager
}

func NewAuthService(
	credentials repositories.ICredentialStore,
	messages repositories.IMessageLog,
	snapshotSize int,
	log *slog.Logger,
	stats *observability.StatsManager,
) IAuthService {
	return &AuthService{
		credentials:  credentials,
		messages:     messages,
		snapshotSize: snapshotSize,
		log:          log,
		stats:        stats,
	}
}

// HandleLogin answers a single login request. Every attempt gets a
// response: malformed payloads and unexpected types fail the same way
// bad credentials do, so the request/response alternation on the
// channel never stalls and the worker never crashes on client input.
// Unknown users and wrong digests are deliberately indistinguishable.
func (s *AuthService) HandleLogin(raw []byte) domain.LoginResponse {
	request, err := decodeLogin(raw)
	if err != nil {
		s.log.Warn("Rejected login payload", "error", err)
		s.stats.IncrProtocolError()
		return domain.LoginResponse{Status: domain.StatusFail}
	}

	s.log.Info("User attempted to login", "username", request.Username)

	if !s.credentials.Verify(request.Username, request.PasswordDigest) {
		s.log.Info("User failed to login", "username", request.Username)
		s.stats.IncrLoginFailure()
		return domain.LoginResponse{Status: domain.StatusFail}
	}

	s.log.Info("User logged in successfully", "username", request.Username)
	s.stats.IncrLoginSuccess()
	return domain.LoginResponse{
		Status:   domain.StatusSuccess,
		Messages: s.messages.Snapshot(s.snapshotSize),
	}
}

func decodeLogin(raw []byte) (domain.LoginRequest, error) {
	var request domain.LoginRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		return domain.LoginRequest{}, fmt.Errorf("%w: %v", errors.ErrProtocol, err)
	}
	if err := validate.Struct(request); err != nil {
		return domain.LoginRequest{}, fmt.Errorf("%w: %v", errors.ErrProtocol, err)
	}
	return request, nil
}
