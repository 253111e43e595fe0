package domain

import (
	"context"
	"time"
)

// User is the read-side view of a gym member. Identity and credentials live
// in the external auth collaborator; this backend only trusts the user ID a
// verified token carries and looks up contact details for notifications.
// swagger:model User
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// UserRepository defines read access to member records.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
}

// TokenVerifier verifies a bearer token and returns the authenticated user
// ID and role codes.
type TokenVerifier interface {
	Verify(token string) (userID string, roles []string, err error)
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user. Kept for
// tooling and tests; the backend itself never signs user credentials.
type TokenIssuer interface {
	Issue(userID string, roles []string, expiry time.Duration) (string, error)
}
