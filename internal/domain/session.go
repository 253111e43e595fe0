package domain

import (
	"context"
	"time"
)

// ClassSession represents one bookable group-training occurrence: a dated
// class with a participant cap. CurrentParticipants is a denormalized count
// of active registrations for this occurrence, maintained by the booking
// service. Invariant between operations:
// 0 <= CurrentParticipants <= MaxParticipants.
// swagger:model ClassSession
type ClassSession struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Instructor          string    `json:"instructor"`
	Description         string    `json:"description"`
	Date                time.Time `json:"date"`
	StartTime           string    `json:"start_time"`
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	LocationName        string    `json:"location_name,omitempty"`
	Latitude            *float64  `json:"latitude,omitempty"`
	Longitude           *float64  `json:"longitude,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NewClassSession returns a new ClassSession with the given fields. ID is
// typically set by the repository on create.
func NewClassSession(title, instructor, description string, date time.Time, startTime string, maxParticipants int, createdAt, updatedAt time.Time) *ClassSession {
	return &ClassSession{
		Title:           title,
		Instructor:      instructor,
		Description:     description,
		Date:            date,
		StartTime:       startTime,
		MaxParticipants: maxParticipants,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
}

// Full reports whether the session has no remaining capacity. Used both as
// the precondition gate in Register and as the "Full" display flag in
// listings.
func (s *ClassSession) Full() bool {
	return s.CurrentParticipants >= s.MaxParticipants
}

// SessionRepository defines the interface for class session storage.
type SessionRepository interface {
	Create(ctx context.Context, session *ClassSession) error
	GetByID(ctx context.Context, id string) (*ClassSession, error)
	// ListFromDate returns sessions with date >= from, ordered by date
	// ascending, then start time.
	ListFromDate(ctx context.Context, from time.Time) ([]*ClassSession, error)
	// List returns a page of all sessions (admin view) plus the total count.
	List(ctx context.Context, params PaginationParams) ([]*ClassSession, int, error)
	// ListByIDs returns the sessions matching ids; missing ids are simply
	// absent from the result.
	ListByIDs(ctx context.Context, ids []string) ([]*ClassSession, error)
	Update(ctx context.Context, session *ClassSession) error
	Delete(ctx context.Context, id string) error
	// IncrementParticipants bumps the participant counter by one as a single
	// conditional store operation that only applies while the counter is
	// below capacity. applied is false when the session was full (or gone)
	// at the moment the update ran.
	IncrementParticipants(ctx context.Context, id string) (applied bool, err error)
	// DecrementParticipants lowers the participant counter by one, floored
	// at zero.
	DecrementParticipants(ctx context.Context, id string) error
	// SetParticipantCount overwrites the counter; used by reconciliation.
	SetParticipantCount(ctx context.Context, id string, count int) error
}

// ScheduleService defines catalog reads and administrative session
// management.
type ScheduleService interface {
	// ListUpcomingSessions returns sessions scheduled today or later,
	// ordered by date ascending.
	ListUpcomingSessions(ctx context.Context) ([]*ClassSession, error)
	GetSession(ctx context.Context, id string) (*ClassSession, error)
	// ListUserRegistrations returns the user's registrations whose session
	// date falls in the inclusive [from, to] window, each bundled with its
	// session. A registration whose session has since been deleted is
	// returned with a nil Session rather than dropped or failed.
	ListUserRegistrations(ctx context.Context, userID string, from, to time.Time) ([]*RegistrationWithSession, error)
	// Admin surface.
	CreateSession(ctx context.Context, session *ClassSession) error
	UpdateSession(ctx context.Context, session *ClassSession) (*ClassSession, error)
	DeleteSession(ctx context.Context, id string) error
	ListSessions(ctx context.Context, params PaginationParams) ([]*ClassSession, int, error)
}
