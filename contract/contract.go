//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"chat-relay/domain"

	"github.com/google/uuid"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself. The supervisor recovers panics and
// decides about restarts.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// for logging and supervision, avoiding manual naming in the interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// IPublisher is the fan-out side of the relay. Subscribe hands out a
// receive-only frame channel; delivery on it is best effort and a full
// buffer costs that subscriber the frame, never blocks the relay.
type IPublisher interface {
	Publish(message domain.ChatMessage)
	Subscribe() (uuid.UUID, <-chan []byte)
	Unsubscribe(id uuid.UUID)
}
