package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morsig01/treningsglede/internal/delivery/http/helpers"
	"github.com/morsig01/treningsglede/internal/domain"
)

type fakeScheduleService struct {
	listUpcomingFn  func(ctx context.Context) ([]*domain.ClassSession, error)
	getSessionFn    func(ctx context.Context, id string) (*domain.ClassSession, error)
	listUserRegsFn  func(ctx context.Context, userID string, from, to time.Time) ([]*domain.RegistrationWithSession, error)
	createSessionFn func(ctx context.Context, session *domain.ClassSession) error
	updateSessionFn func(ctx context.Context, session *domain.ClassSession) (*domain.ClassSession, error)
	deleteSessionFn func(ctx context.Context, id string) error
	listSessionsFn  func(ctx context.Context, params domain.PaginationParams) ([]*domain.ClassSession, int, error)
}

func (f *fakeScheduleService) ListUpcomingSessions(ctx context.Context) ([]*domain.ClassSession, error) {
	return f.listUpcomingFn(ctx)
}

func (f *fakeScheduleService) GetSession(ctx context.Context, id string) (*domain.ClassSession, error) {
	return f.getSessionFn(ctx, id)
}

func (f *fakeScheduleService) ListUserRegistrations(ctx context.Context, userID string, from, to time.Time) ([]*domain.RegistrationWithSession, error) {
	return f.listUserRegsFn(ctx, userID, from, to)
}

func (f *fakeScheduleService) CreateSession(ctx context.Context, session *domain.ClassSession) error {
	return f.createSessionFn(ctx, session)
}

func (f *fakeScheduleService) UpdateSession(ctx context.Context, session *domain.ClassSession) (*domain.ClassSession, error) {
	return f.updateSessionFn(ctx, session)
}

func (f *fakeScheduleService) DeleteSession(ctx context.Context, id string) error {
	return f.deleteSessionFn(ctx, id)
}

func (f *fakeScheduleService) ListSessions(ctx context.Context, params domain.PaginationParams) ([]*domain.ClassSession, int, error) {
	return f.listSessionsFn(ctx, params)
}

func TestCatalogController_ListUpcomingSessions(t *testing.T) {
	svc := &fakeScheduleService{
		listUpcomingFn: func(ctx context.Context) ([]*domain.ClassSession, error) {
			return []*domain.ClassSession{
				{ID: testSessionID, Title: "Spinning", MaxParticipants: 20, CurrentParticipants: 20},
			}, nil
		},
	}
	c := NewCatalogController(testLogger, svc)

	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	rec := httptest.NewRecorder()
	c.ListUpcomingSessions(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data  []*domain.ClassSession `json:"data"`
		Error *helpers.APIError      `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Nil(t, resp.Error)
	require.Len(t, resp.Data, 1)
	// Clients render the "Full" flag from the two counts.
	assert.Equal(t, 20, resp.Data[0].CurrentParticipants)
	assert.Equal(t, 20, resp.Data[0].MaxParticipants)
}

func TestCatalogController_ListUpcomingSessions_StoreError(t *testing.T) {
	svc := &fakeScheduleService{
		listUpcomingFn: func(ctx context.Context) ([]*domain.ClassSession, error) {
			return nil, errors.New("connection reset")
		},
	}
	c := NewCatalogController(testLogger, svc)

	rec := httptest.NewRecorder()
	c.ListUpcomingSessions(rec, httptest.NewRequest(http.MethodGet, "/sessions", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, helpers.ErrCodeInternalError, resp.Error.Code)
}

func TestCatalogController_GetSession(t *testing.T) {
	svc := &fakeScheduleService{
		getSessionFn: func(ctx context.Context, id string) (*domain.ClassSession, error) {
			if id == testSessionID {
				return &domain.ClassSession{ID: id, Title: "Yoga"}, nil
			}
			return nil, domain.ErrNotFound
		},
	}
	c := NewCatalogController(testLogger, svc)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/sessions/"+testSessionID, nil)
		req.SetPathValue("sessionID", testSessionID)
		rec := httptest.NewRecorder()
		c.GetSession(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		otherID := "11111111-2222-3333-4444-555555555555"
		req := httptest.NewRequest(http.MethodGet, "/sessions/"+otherID, nil)
		req.SetPathValue("sessionID", otherID)
		rec := httptest.NewRecorder()
		c.GetSession(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeEnvelope(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, helpers.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/sessions/junk", nil)
		req.SetPathValue("sessionID", "junk")
		rec := httptest.NewRecorder()
		c.GetSession(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCatalogController_ListMyRegistrations(t *testing.T) {
	svc := &fakeScheduleService{
		listUserRegsFn: func(ctx context.Context, userID string, from, to time.Time) ([]*domain.RegistrationWithSession, error) {
			assert.Equal(t, "user-1", userID)
			return []*domain.RegistrationWithSession{
				{
					Registration: &domain.Registration{ID: "reg-1", SessionID: testSessionID},
					Session:      &domain.ClassSession{ID: testSessionID, Title: "Spinning"},
				},
				{
					Registration: &domain.Registration{ID: "reg-2", SessionID: "gone"},
					Session:      nil,
				},
			}, nil
		},
	}
	c := NewCatalogController(testLogger, svc)

	req := authedRequest(http.MethodGet, "/me/registrations?from=2024-06-01&to=2024-06-30", "")
	rec := httptest.NewRecorder()
	c.ListMyRegistrations(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data  []*domain.RegistrationWithSession `json:"data"`
		Error *helpers.APIError                 `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Nil(t, resp.Error)
	require.Len(t, resp.Data, 2)
	assert.NotNil(t, resp.Data[0].Session)
	// The vanished session is serialized as null, not dropped.
	assert.Nil(t, resp.Data[1].Session)
}

func TestCatalogController_ListMyRegistrations_BadWindow(t *testing.T) {
	c := NewCatalogController(testLogger, &fakeScheduleService{})

	tests := []struct {
		name   string
		target string
	}{
		{name: "missing from", target: "/me/registrations?to=2024-06-30"},
		{name: "missing to", target: "/me/registrations?from=2024-06-01"},
		{name: "malformed from", target: "/me/registrations?from=junk&to=2024-06-30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c.ListMyRegistrations(rec, authedRequest(http.MethodGet, tt.target, ""))
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCatalogController_ListMyRegistrations_Unauthenticated(t *testing.T) {
	c := NewCatalogController(testLogger, &fakeScheduleService{})

	req := httptest.NewRequest(http.MethodGet, "/me/registrations?from=2024-06-01&to=2024-06-30", nil)
	rec := httptest.NewRecorder()
	c.ListMyRegistrations(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
