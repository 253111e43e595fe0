package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/morsig01/treningsglede/internal/delivery/http/helpers"
	"github.com/morsig01/treningsglede/internal/domain"
)

// AdminController exposes the administrative session management surface:
// schedule CRUD plus the counter reconciliation procedure.
type AdminController struct {
	Logger   *slog.Logger
	Schedule domain.ScheduleService
	Booking  domain.BookingService
}

func NewAdminController(logger *slog.Logger, schedule domain.ScheduleService, booking domain.BookingService) *AdminController {
	return &AdminController{
		Logger:   logger,
		Schedule: schedule,
		Booking:  booking,
	}
}

// SessionRequest is the request body for creating or updating a class session.
type SessionRequest struct {
	Title           string   `json:"title"`
	Instructor      string   `json:"instructor"`
	Description     string   `json:"description"`
	Date            string   `json:"date"`
	StartTime       string   `json:"start_time"`
	MaxParticipants int      `json:"max_participants"`
	LocationName    string   `json:"location_name"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
}

// Validate implements helpers.Validator.
func (r *SessionRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(r.Instructor) == "" {
		errs = append(errs, "instructor is required")
	}
	if r.Date == "" {
		errs = append(errs, "date is required")
	} else if _, err := time.Parse(time.DateOnly, r.Date); err != nil {
		errs = append(errs, "date must be formatted YYYY-MM-DD")
	}
	if r.StartTime == "" {
		errs = append(errs, "start_time is required")
	} else if _, err := time.Parse("15:04", r.StartTime); err != nil {
		errs = append(errs, "start_time must be formatted HH:MM")
	}
	if r.MaxParticipants <= 0 {
		errs = append(errs, "max_participants must be a positive integer")
	}
	return errs
}

func (r *SessionRequest) toDomain() *domain.ClassSession {
	date, _ := time.Parse(time.DateOnly, r.Date)
	return &domain.ClassSession{
		Title:           strings.TrimSpace(r.Title),
		Instructor:      strings.TrimSpace(r.Instructor),
		Description:     r.Description,
		Date:            date,
		StartTime:       r.StartTime,
		MaxParticipants: r.MaxParticipants,
		LocationName:    r.LocationName,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
	}
}

// SessionListResponse is the data object for the paginated admin session list.
type SessionListResponse struct {
	Sessions   []*domain.ClassSession `json:"sessions"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListSessions godoc
// @Summary List all class sessions (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data: sessions with pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/sessions [get]
func (c *AdminController) ListSessions(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	sessions, total, err := c.Schedule.ListSessions(r.Context(), params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SessionListResponse{
		Sessions:   sessions,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// CreateSession godoc
// @Summary Create a class session (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.SessionRequest true "Session fields"
// @Success 201 {object} helpers.APIResponse "data: created session"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/sessions [post]
func (c *AdminController) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sess := req.toDomain()
	if err := c.Schedule.CreateSession(r.Context(), sess); err != nil {
		c.writeScheduleError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, sess)
}

// UpdateSession godoc
// @Summary Update a class session (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID (UUID)"
// @Param body body controllers.SessionRequest true "Session fields"
// @Success 200 {object} helpers.APIResponse "data: updated session"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/sessions/{sessionID} [put]
func (c *AdminController) UpdateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if sessionID == "" || !uuidRegex.MatchString(sessionID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid sessionID")
		return
	}
	var req SessionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sess := req.toDomain()
	sess.ID = sessionID
	updated, err := c.Schedule.UpdateSession(r.Context(), sess)
	if err != nil {
		c.writeScheduleError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// DeleteSession godoc
// @Summary Delete a class session (admin)
// @Description Deletes the session; its registrations are removed by cascade.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID (UUID)"
// @Success 200 {object} helpers.APIResponse "Deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/sessions/{sessionID} [delete]
func (c *AdminController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if sessionID == "" || !uuidRegex.MatchString(sessionID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid sessionID")
		return
	}
	if err := c.Schedule.DeleteSession(r.Context(), sessionID); err != nil {
		c.writeScheduleError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "session deleted"})
}

// ReconcileResponse is the data object for the reconcile endpoint.
type ReconcileResponse struct {
	SessionID           string `json:"session_id"`
	CurrentParticipants int    `json:"current_participants"`
}

// ReconcileSession godoc
// @Summary Recompute a session's participant counter from the ledger (admin)
// @Description Manual reconciliation procedure for counter drift, e.g. after a reported booking inconsistency.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data: restored count"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/sessions/{sessionID}/reconcile [post]
func (c *AdminController) ReconcileSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if sessionID == "" || !uuidRegex.MatchString(sessionID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid sessionID")
		return
	}
	count, err := c.Booking.Reconcile(r.Context(), sessionID)
	if err != nil {
		c.writeScheduleError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ReconcileResponse{
		SessionID:           sessionID,
		CurrentParticipants: count,
	})
}

func (c *AdminController) writeScheduleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "session not found")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
