package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/morsig01/treningsglede/internal/domain"
)

func newSessionRepoMock(t *testing.T) (domain.SessionRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewSessionRepository(db), mock, func() { db.Close() }
}

func sessionRows(sessions ...*domain.ClassSession) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "title", "instructor", "description", "date", "start_time",
		"max_participants", "current_participants", "location_name", "latitude", "longitude",
		"created_at", "updated_at",
	})
	for _, s := range sessions {
		rows.AddRow(
			s.ID, s.Title, s.Instructor, s.Description, s.Date, s.StartTime,
			s.MaxParticipants, s.CurrentParticipants, s.LocationName, floatValue(s.Latitude), floatValue(s.Longitude),
			s.CreatedAt, s.UpdatedAt,
		)
	}
	return rows
}

func floatValue(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func sampleSession(id string) *domain.ClassSession {
	lat, lng := 59.9139, 10.7522
	return &domain.ClassSession{
		ID:                  id,
		Title:               "Spinning",
		Instructor:          "Kari",
		Description:         "Intervaller på sykkel",
		Date:                time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime:           "18:00",
		MaxParticipants:     20,
		CurrentParticipants: 5,
		LocationName:        "Sal 2",
		Latitude:            &lat,
		Longitude:           &lng,
		CreatedAt:           time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:           time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestSessionRepository_Create(t *testing.T) {
	repo, mock, closeDB := newSessionRepoMock(t)
	defer closeDB()

	s := sampleSession("")
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO sessions`)).
		WithArgs(
			s.Title, s.Instructor, s.Description, s.Date, s.StartTime,
			s.MaxParticipants, s.CurrentParticipants, s.LocationName, s.Latitude, s.Longitude,
			s.CreatedAt, s.UpdatedAt,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("sess-1"))

	err := repo.Create(context.Background(), s)
	require.NoError(t, err)
	require.Equal(t, "sess-1", s.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_GetByID(t *testing.T) {
	repo, mock, closeDB := newSessionRepoMock(t)
	defer closeDB()

	want := sampleSession("sess-1")
	mock.ExpectQuery(regexp.QuoteMeta(`FROM sessions`)).
		WithArgs("sess-1").
		WillReturnRows(sessionRows(want))

	got, err := repo.GetByID(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, closeDB := newSessionRepoMock(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM sessions`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_ListFromDate(t *testing.T) {
	repo, mock, closeDB := newSessionRepoMock(t)
	defer closeDB()

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a := sampleSession("sess-1")
	b := sampleSession("sess-2")
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE date >= $1`)).
		WithArgs(from).
		WillReturnRows(sessionRows(a, b))

	sessions, err := repo.ListFromDate(context.Background(), from)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Equal(t, "sess-1", sessions[0].ID)
	require.Equal(t, "sess-2", sessions[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_List(t *testing.T) {
	repo, mock, closeDB := newSessionRepoMock(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM sessions`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $1 OFFSET $2`)).
		WithArgs(20, 20).
		WillReturnRows(sessionRows(sampleSession("sess-1")))

	sessions, total, err := repo.List(context.Background(), domain.PaginationParams{Page: 2, PageSize: 20})
	require.NoError(t, err)
	require.Equal(t, 42, total)
	require.Len(t, sessions, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_ListByIDs_Empty(t *testing.T) {
	repo, mock, closeDB := newSessionRepoMock(t)
	defer closeDB()

	// No query is issued for an empty id list.
	sessions, err := repo.ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, sessions)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_ListByIDs(t *testing.T) {
	repo, mock, closeDB := newSessionRepoMock(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = ANY($1)`)).
		WillReturnRows(sessionRows(sampleSession("sess-1")))

	sessions, err := repo.ListByIDs(context.Background(), []string{"sess-1", "sess-gone"})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Update_NotFound(t *testing.T) {
	repo, mock, closeDB := newSessionRepoMock(t)
	defer closeDB()

	s := sampleSession("missing")
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE sessions`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), s)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Delete(t *testing.T) {
	repo, mock, closeDB := newSessionRepoMock(t)
	defer closeDB()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE id = $1`)).
		WithArgs("sess-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "sess-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Delete_NotFound(t *testing.T) {
	repo, mock, closeDB := newSessionRepoMock(t)
	defer closeDB()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_IncrementParticipants(t *testing.T) {
	tests := []struct {
		name        string
		rowAffected int64
		wantApplied bool
	}{
		{name: "applied below capacity", rowAffected: 1, wantApplied: true},
		{name: "not applied at capacity", rowAffected: 0, wantApplied: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, closeDB := newSessionRepoMock(t)
			defer closeDB()

			mock.ExpectExec(regexp.QuoteMeta(`current_participants < max_participants`)).
				WithArgs("sess-1").
				WillReturnResult(sqlmock.NewResult(0, tt.rowAffected))

			applied, err := repo.IncrementParticipants(context.Background(), "sess-1")
			require.NoError(t, err)
			require.Equal(t, tt.wantApplied, applied)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_IncrementParticipants_Error(t *testing.T) {
	repo, mock, closeDB := newSessionRepoMock(t)
	defer closeDB()

	storeErr := errors.New("connection reset")
	mock.ExpectExec(regexp.QuoteMeta(`current_participants < max_participants`)).
		WithArgs("sess-1").
		WillReturnError(storeErr)

	applied, err := repo.IncrementParticipants(context.Background(), "sess-1")
	require.ErrorIs(t, err, storeErr)
	require.False(t, applied)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_DecrementParticipants(t *testing.T) {
	repo, mock, closeDB := newSessionRepoMock(t)
	defer closeDB()

	mock.ExpectExec(regexp.QuoteMeta(`GREATEST(current_participants - 1, 0)`)).
		WithArgs("sess-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DecrementParticipants(context.Background(), "sess-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_SetParticipantCount(t *testing.T) {
	repo, mock, closeDB := newSessionRepoMock(t)
	defer closeDB()

	mock.ExpectExec(regexp.QuoteMeta(`SET current_participants = $2`)).
		WithArgs("sess-1", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetParticipantCount(context.Background(), "sess-1", 7))
	require.NoError(t, mock.ExpectationsWereMet())
}
