package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/morsig01/treningsglede/internal/domain"
)

type scheduleService struct {
	sessionRepo domain.SessionRepository
	regRepo     domain.RegistrationRepository
	now         func() time.Time
}

// NewScheduleService creates a ScheduleService with the given repositories.
func NewScheduleService(
	sessionRepo domain.SessionRepository,
	regRepo domain.RegistrationRepository,
) domain.ScheduleService {
	return &scheduleService{
		sessionRepo: sessionRepo,
		regRepo:     regRepo,
		now:         time.Now,
	}
}

func (s *scheduleService) ListUpcomingSessions(ctx context.Context) ([]*domain.ClassSession, error) {
	today := truncateToDate(s.now())
	sessions, err := s.sessionRepo.ListFromDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("list upcoming sessions: %w", err)
	}
	if sessions == nil {
		sessions = []*domain.ClassSession{}
	}
	return sessions, nil
}

func (s *scheduleService) GetSession(ctx context.Context, id string) (*domain.ClassSession, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}
	sess, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *scheduleService) ListUserRegistrations(ctx context.Context, userID string, from, to time.Time) ([]*domain.RegistrationWithSession, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("%w: from and to dates are required", domain.ErrInvalidInput)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: to date is before from date", domain.ErrInvalidInput)
	}

	regs, err := s.regRepo.ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if len(regs) == 0 {
		return []*domain.RegistrationWithSession{}, nil
	}

	// The ledger and the catalog are read independently; the two reads are
	// reconciled here on session id. A session deleted between the reads
	// leaves its registration with a nil Session instead of failing the
	// whole listing.
	ids := make([]string, 0, len(regs))
	seen := make(map[string]struct{}, len(regs))
	for _, reg := range regs {
		if _, ok := seen[reg.SessionID]; ok {
			continue
		}
		seen[reg.SessionID] = struct{}{}
		ids = append(ids, reg.SessionID)
	}
	sessions, err := s.sessionRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list sessions for registrations: %w", err)
	}
	sessionsByID := make(map[string]*domain.ClassSession, len(sessions))
	for _, sess := range sessions {
		sessionsByID[sess.ID] = sess
	}

	result := make([]*domain.RegistrationWithSession, 0, len(regs))
	for _, reg := range regs {
		result = append(result, &domain.RegistrationWithSession{
			Registration: reg,
			Session:      sessionsByID[reg.SessionID],
		})
	}
	return result, nil
}

func (s *scheduleService) CreateSession(ctx context.Context, session *domain.ClassSession) error {
	if err := validateSessionInput(session); err != nil {
		return err
	}
	now := s.now()
	session.CurrentParticipants = 0
	session.CreatedAt = now
	session.UpdatedAt = now
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *scheduleService) UpdateSession(ctx context.Context, session *domain.ClassSession) (*domain.ClassSession, error) {
	if session.ID == "" {
		return nil, fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}
	if err := validateSessionInput(session); err != nil {
		return nil, err
	}

	existing, err := s.sessionRepo.GetByID(ctx, session.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	// Shrinking capacity below the booked count would leave the session in
	// a count > capacity state.
	if session.MaxParticipants < existing.CurrentParticipants {
		return nil, fmt.Errorf("%w: max participants cannot be below the current participant count (%d)",
			domain.ErrInvalidInput, existing.CurrentParticipants)
	}
	session.CurrentParticipants = existing.CurrentParticipants
	session.CreatedAt = existing.CreatedAt
	session.UpdatedAt = s.now()
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update session: %w", err)
	}
	return session, nil
}

func (s *scheduleService) DeleteSession(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}
	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *scheduleService) ListSessions(ctx context.Context, params domain.PaginationParams) ([]*domain.ClassSession, int, error) {
	sessions, total, err := s.sessionRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []*domain.ClassSession{}
	}
	return sessions, total, nil
}

func validateSessionInput(session *domain.ClassSession) error {
	if strings.TrimSpace(session.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(session.Instructor) == "" {
		return fmt.Errorf("%w: instructor is required", domain.ErrInvalidInput)
	}
	if session.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}
	if session.StartTime == "" {
		return fmt.Errorf("%w: start time is required", domain.ErrInvalidInput)
	}
	if session.MaxParticipants <= 0 {
		return fmt.Errorf("%w: max participants must be a positive integer", domain.ErrInvalidInput)
	}
	return nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
