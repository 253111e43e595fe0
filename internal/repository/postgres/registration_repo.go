package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/morsig01/treningsglede/internal/domain"
)

// uniqueViolation is the Postgres error code for a unique constraint
// violation; here it means the (user_id, session_id, session_date) triple
// already exists.
const uniqueViolation = "23505"

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

// Insert assigns the registration a client-generated UUID before writing, so
// the booking service can roll back exactly this row if the counter update
// that follows fails.
func (r *registrationRepository) Insert(ctx context.Context, reg *domain.Registration) error {
	reg.ID = uuid.New().String()
	query := `
		INSERT INTO registrations (id, user_id, session_id, session_date, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query, reg.ID, reg.UserID, reg.SessionID, reg.SessionDate, reg.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return domain.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (r *registrationRepository) FindOne(ctx context.Context, userID, sessionID string, sessionDate time.Time) (*domain.Registration, error) {
	query := `
		SELECT id, user_id, session_id, session_date, created_at
		FROM registrations
		WHERE user_id = $1 AND session_id = $2 AND session_date = $3
	`
	reg := &domain.Registration{}
	err := r.DB.QueryRowContext(ctx, query, userID, sessionID, sessionDate).
		Scan(&reg.ID, &reg.UserID, &reg.SessionID, &reg.SessionDate, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) Delete(ctx context.Context, userID, sessionID string, sessionDate time.Time) (int64, error) {
	query := `
		DELETE FROM registrations
		WHERE user_id = $1 AND session_id = $2 AND session_date = $3
	`
	res, err := r.DB.ExecContext(ctx, query, userID, sessionID, sessionDate)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *registrationRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	return err
}

func (r *registrationRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]*domain.Registration, error) {
	query := `
		SELECT id, user_id, session_id, session_date, created_at
		FROM registrations
		WHERE user_id = $1 AND session_date >= $2 AND session_date <= $3
		ORDER BY session_date
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []*domain.Registration
	for rows.Next() {
		reg := &domain.Registration{}
		if err := rows.Scan(&reg.ID, &reg.UserID, &reg.SessionID, &reg.SessionDate, &reg.CreatedAt); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, nil
}

func (r *registrationRepository) CountBySessionDate(ctx context.Context, sessionID string, sessionDate time.Time) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE session_id = $1 AND session_date = $2`,
		sessionID, sessionDate,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
