package domain

import (
	"context"
	"time"
)

// Registration binds one user to one class session occurrence. The triple
// (UserID, SessionID, SessionDate) is unique: a user cannot hold two active
// registrations for the same occurrence.
// swagger:model Registration
type Registration struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	SessionID   string    `json:"session_id"`
	SessionDate time.Time `json:"session_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRegistration creates a new Registration. ID is assigned by the
// repository on insert.
func NewRegistration(userID, sessionID string, sessionDate, createdAt time.Time) *Registration {
	return &Registration{
		UserID:      userID,
		SessionID:   sessionID,
		SessionDate: sessionDate,
		CreatedAt:   createdAt,
	}
}

// RegistrationWithSession bundles a registration with its session. Session
// is nil when the session was deleted after the registration was made; the
// presentation layer shows such entries as "unknown session".
type RegistrationWithSession struct {
	Registration *Registration `json:"registration"`
	Session      *ClassSession `json:"session"`
}

// RegistrationRepository defines storage operations for the registration
// ledger.
type RegistrationRepository interface {
	// Insert stores a new registration and assigns its ID. A unique
	// constraint violation on (user, session, date) surfaces as
	// ErrAlreadyRegistered.
	Insert(ctx context.Context, reg *Registration) error
	// FindOne returns the registration for the exact (user, session, date)
	// triple, or ErrNotFound.
	FindOne(ctx context.Context, userID, sessionID string, sessionDate time.Time) (*Registration, error)
	// Delete removes the registration matching the triple and reports how
	// many rows were removed (0 or 1).
	Delete(ctx context.Context, userID, sessionID string, sessionDate time.Time) (int64, error)
	// DeleteByID removes a registration by primary key. Used by the booking
	// service to roll back a just-inserted row.
	DeleteByID(ctx context.Context, id string) error
	// ListByUser returns the user's registrations with session_date in the
	// inclusive [from, to] window.
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]*Registration, error)
	// CountBySessionDate counts active registrations for one occurrence;
	// used by reconciliation.
	CountBySessionDate(ctx context.Context, sessionID string, sessionDate time.Time) (int, error)
}

// BookingService orchestrates register/unregister against the session
// catalog and the registration ledger, enforcing capacity and
// duplicate-prevention invariants.
type BookingService interface {
	// Register books the user onto the (session, date) occurrence. It fails
	// with ErrInvalidInput, ErrNotFound, ErrSessionFull, or
	// ErrAlreadyRegistered; any other error is a store failure. A
	// *InconsistencyError is returned when a rollback after a partial write
	// failed and the counter may have drifted from the ledger.
	Register(ctx context.Context, userID, sessionID string, sessionDate time.Time) (*Registration, error)
	// Unregister removes the booking. Unregistering an absent booking is a
	// successful no-op.
	Unregister(ctx context.Context, userID, sessionID string, sessionDate time.Time) error
	// Reconcile recomputes the participant counter for one session from the
	// ledger and returns the restored count. Intended as the manual
	// procedure after an InconsistencyError.
	Reconcile(ctx context.Context, sessionID string) (int, error)
}
