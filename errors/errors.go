package errors

import "fmt"

var (
	// Startup failures. The relay must not start on any of these.
	ErrCredentialTable = fmt.Errorf("credential table unreadable")
	ErrMessageLogFile  = fmt.Errorf("message log unreadable")

	// Per-request failures, contained to the offending message.
	ErrProtocol = fmt.Errorf("malformed or unexpected payload")

	// Durable-write failure. In-memory state and broadcast proceed.
	ErrPersist = fmt.Errorf("message log write failed")

	ErrWorkerPanic = fmt.Errorf("worker panic")
)
