package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a request that failed domain validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a lookup whose target does not exist.
	ErrNotFound = errors.New("not found")
	// ErrSessionFull marks a booking attempt on a session with no remaining
	// capacity.
	ErrSessionFull = errors.New("session is fully booked")
	// ErrAlreadyRegistered marks a booking attempt for an occurrence the user
	// already holds a registration for.
	ErrAlreadyRegistered = errors.New("already registered")
)

// InconsistencyError reports that a booking write failed and the compensating
// delete failed too, leaving a registration row the participant counter does
// not account for. WriteErr is the failure that triggered the rollback,
// CompensateErr the failure of the rollback itself. RegistrationID identifies
// the orphaned row for manual reconciliation.
type InconsistencyError struct {
	SessionID      string
	RegistrationID string
	WriteErr       error
	CompensateErr  error
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("booking state inconsistent for session %s (registration %s): write failed: %v; compensation failed: %v",
		e.SessionID, e.RegistrationID, e.WriteErr, e.CompensateErr)
}

func (e *InconsistencyError) Unwrap() error { return e.WriteErr }
