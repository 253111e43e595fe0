package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/morsig01/treningsglede/internal/domain"
)

const sessionColumns = `id, title, instructor, description, date, start_time, max_participants, current_participants, location_name, latitude, longitude, created_at, updated_at`

type sessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &sessionRepository{
		DB: db,
	}
}

func (r *sessionRepository) Create(ctx context.Context, s *domain.ClassSession) error {
	query := `
		INSERT INTO sessions (title, instructor, description, date, start_time, max_participants, current_participants, location_name, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		s.Title, s.Instructor, s.Description, s.Date, s.StartTime,
		s.MaxParticipants, s.CurrentParticipants, s.LocationName, s.Latitude, s.Longitude,
		s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.ClassSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE id = $1
	`
	s := &domain.ClassSession{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Title, &s.Instructor, &s.Description, &s.Date, &s.StartTime,
		&s.MaxParticipants, &s.CurrentParticipants, &s.LocationName, &s.Latitude, &s.Longitude,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) ListFromDate(ctx context.Context, from time.Time) ([]*domain.ClassSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE date >= $1
		ORDER BY date, start_time
	`
	rows, err := r.DB.QueryContext(ctx, query, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (r *sessionRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.ClassSession, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		ORDER BY date, start_time
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (r *sessionRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.ClassSession, error) {
	if len(ids) == 0 {
		return []*domain.ClassSession{}, nil
	}
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE id = ANY($1)
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (r *sessionRepository) Update(ctx context.Context, s *domain.ClassSession) error {
	query := `
		UPDATE sessions
		SET title = $2, instructor = $3, description = $4, date = $5, start_time = $6,
		    max_participants = $7, location_name = $8, latitude = $9, longitude = $10, updated_at = $11
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query,
		s.ID, s.Title, s.Instructor, s.Description, s.Date, s.StartTime,
		s.MaxParticipants, s.LocationName, s.Latitude, s.Longitude, s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	// Registrations referencing the session are removed by the
	// ON DELETE CASCADE on registrations.session_id.
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementParticipants is the authoritative capacity gate: a single
// conditional UPDATE that only applies while the counter is below capacity,
// so two concurrent bookings for the last spot cannot both succeed.
func (r *sessionRepository) IncrementParticipants(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE sessions
		SET current_participants = current_participants + 1, updated_at = NOW()
		WHERE id = $1 AND current_participants < max_participants
	`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *sessionRepository) DecrementParticipants(ctx context.Context, id string) error {
	query := `
		UPDATE sessions
		SET current_participants = GREATEST(current_participants - 1, 0), updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.ExecContext(ctx, query, id)
	return err
}

func (r *sessionRepository) SetParticipantCount(ctx context.Context, id string, count int) error {
	query := `
		UPDATE sessions
		SET current_participants = $2, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, id, count)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSessions(rows *sql.Rows) ([]*domain.ClassSession, error) {
	var sessions []*domain.ClassSession
	for rows.Next() {
		s := &domain.ClassSession{}
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Instructor, &s.Description, &s.Date, &s.StartTime,
			&s.MaxParticipants, &s.CurrentParticipants, &s.LocationName, &s.Latitude, &s.Longitude,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
