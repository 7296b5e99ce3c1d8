//go:generate go run go.uber.org/mock/mockgen -source=credentials.go -destination=../mocks/mock_credential_store.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"chat-relay/domain"
	"chat-relay/errors"
)

type ICredentialStore interface {
	Verify(username, digest string) bool
}

// CredentialStore maps usernames to password digests. It is loaded once
// at startup and never mutated afterwards, so concurrent readers need
// no locking.
type CredentialStore struct {
	users map[string]string
}

// LoadCredentialStore reads the credential table from disk. Loading is
// all or nothing: a missing or malformed table aborts startup.
func LoadCredentialStore(path string, log *slog.Logger) (*CredentialStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrCredentialTable, err)
	}

	var users map[string]string
	if err = json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrCredentialTable, err)
	}

	log.Info("Users loaded", "path", path, "count", len(users))
	return &CredentialStore{users: users}, nil
}

// Verify reports whether the username exists and the stored digest
// equals the supplied one. The comparison is plain string equality, not
// constant time, matching the behavior of the tables this store
// replaces. Unknown users and mismatches are indistinguishable.
func (s *CredentialStore) Verify(username, digest string) bool {
	stored, ok := s.users[username]
	return ok && stored == digest
}

// Users returns the loaded entries sorted by username, for tooling.
func (s *CredentialStore) Users() []domain.User {
	users := make([]domain.User, 0, len(s.users))
	for name, digest := range s.users {
		users = append(users, domain.User{Username: name, PasswordDigest: digest})
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users
}
