package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/morsig01/treningsglede/internal/domain"
)

type bookingService struct {
	sessionRepo domain.SessionRepository
	regRepo     domain.RegistrationRepository
	userRepo    domain.UserRepository
	emails      domain.EmailService
	logger      *slog.Logger
}

// NewBookingService creates a BookingService with the given repositories.
// The email service is optional; when nil no confirmation mails are sent.
func NewBookingService(
	sessionRepo domain.SessionRepository,
	regRepo domain.RegistrationRepository,
	userRepo domain.UserRepository,
	emails domain.EmailService,
	logger *slog.Logger,
) domain.BookingService {
	return &bookingService{
		sessionRepo: sessionRepo,
		regRepo:     regRepo,
		userRepo:    userRepo,
		emails:      emails,
		logger:      logger,
	}
}

func (s *bookingService) Register(ctx context.Context, userID, sessionID string, sessionDate time.Time) (*domain.Registration, error) {
	if err := validateBookingInput(userID, sessionID, sessionDate); err != nil {
		return nil, err
	}

	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	// A session row is one dated occurrence. A booking for any other date
	// would write a ledger row the session's counter and Reconcile never
	// account for.
	if !sameOccurrenceDate(sessionDate, sess.Date) {
		return nil, fmt.Errorf("%w: session has no occurrence on %s", domain.ErrNotFound, sessionDate.Format(time.DateOnly))
	}

	// Fast-path capacity check. The conditional increment below is the
	// authoritative gate; this only rejects early without touching the
	// ledger.
	if sess.Full() {
		return nil, domain.ErrSessionFull
	}

	// Duplicate check is a hard error, not a silent success: a caller that
	// timed out and retries an already-landed Register must be rejected
	// here rather than booked twice.
	if _, err := s.regRepo.FindOne(ctx, userID, sessionID, sessionDate); err == nil {
		return nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find registration: %w", err)
	}

	// Insert first, then increment. A failure after the insert is rolled
	// back by deleting the just-inserted row, so a rejected booking never
	// leaves a registered-but-uncounted state.
	reg := domain.NewRegistration(userID, sessionID, sessionDate, time.Now())
	if err := s.regRepo.Insert(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	applied, err := s.sessionRepo.IncrementParticipants(ctx, sessionID)
	if err != nil {
		return nil, s.compensate(ctx, sessionID, reg.ID, fmt.Errorf("increment participants: %w", err))
	}
	if !applied {
		// Lost the race: another caller took the last spot between the
		// fast-path check and the conditional update.
		return nil, s.compensate(ctx, sessionID, reg.ID, domain.ErrSessionFull)
	}

	s.sendConfirmation(ctx, userID, sess, sessionDate)
	return reg, nil
}

// compensate rolls back a just-inserted registration after the counter
// update failed or did not apply, and returns the error the caller should
// see. If the rollback itself fails the ledger and counter have diverged;
// that is surfaced as *InconsistencyError and logged at error level.
func (s *bookingService) compensate(ctx context.Context, sessionID, regID string, cause error) error {
	if err := s.regRepo.DeleteByID(ctx, regID); err != nil {
		incErr := &domain.InconsistencyError{
			SessionID:      sessionID,
			RegistrationID: regID,
			WriteErr:       cause,
			CompensateErr:  err,
		}
		s.logger.ErrorContext(ctx, "capacity counter diverged from ledger, manual reconciliation required",
			"session_id", sessionID,
			"registration_id", regID,
			"write_err", cause,
			"compensate_err", err,
		)
		return incErr
	}
	return cause
}

func (s *bookingService) Unregister(ctx context.Context, userID, sessionID string, sessionDate time.Time) error {
	if err := validateBookingInput(userID, sessionID, sessionDate); err != nil {
		return err
	}

	deleted, err := s.regRepo.Delete(ctx, userID, sessionID, sessionDate)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if deleted == 0 {
		// Unregistering an absent booking is a successful no-op; the
		// counter is left alone.
		return nil
	}

	// The registration is already gone, so a decrement failure is reported
	// as a failed call but never repaired by re-inserting the row. The
	// counter briefly overstates occupancy until reconciliation.
	if err := s.sessionRepo.DecrementParticipants(ctx, sessionID); err != nil {
		return fmt.Errorf("decrement participants: %w", err)
	}
	return nil
}

func (s *bookingService) Reconcile(ctx context.Context, sessionID string) (int, error) {
	if sessionID == "" {
		return 0, fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("get session: %w", err)
	}
	count, err := s.regRepo.CountBySessionDate(ctx, sessionID, sess.Date)
	if err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	if err := s.sessionRepo.SetParticipantCount(ctx, sessionID, count); err != nil {
		return 0, fmt.Errorf("set participant count: %w", err)
	}
	s.logger.InfoContext(ctx, "participant counter reconciled",
		"session_id", sessionID,
		"count", count,
	)
	return count, nil
}

// sendConfirmation sends the booking confirmation mail best-effort. It never
// affects the booking outcome.
func (s *bookingService) sendConfirmation(ctx context.Context, userID string, sess *domain.ClassSession, sessionDate time.Time) {
	if s.emails == nil || s.userRepo == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "skipping booking confirmation, user lookup failed", "user_id", userID, "err", err)
		return
	}
	data := &domain.BookingConfirmationEmailData{
		Email:        user.Email,
		Name:         user.Name,
		SessionTitle: sess.Title,
		Instructor:   sess.Instructor,
		SessionDate:  sessionDate.Format(time.DateOnly),
		StartTime:    sess.StartTime,
		LocationName: sess.LocationName,
	}
	if err := s.emails.SendBookingConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "booking confirmation mail failed", "user_id", userID, "err", err)
	}
}

// sameOccurrenceDate compares calendar dates, ignoring time-of-day and
// location.
func sameOccurrenceDate(a, b time.Time) bool {
	return a.Format(time.DateOnly) == b.Format(time.DateOnly)
}

func validateBookingInput(userID, sessionID string, sessionDate time.Time) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}
	if sessionDate.IsZero() {
		return fmt.Errorf("%w: session date is required", domain.ErrInvalidInput)
	}
	return nil
}
