package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/morsig01/treningsglede/internal/delivery/http/helpers"
	"github.com/morsig01/treningsglede/internal/delivery/http/middleware"
	"github.com/morsig01/treningsglede/internal/domain"
)

type CatalogController struct {
	Logger  *slog.Logger
	Service domain.ScheduleService
}

func NewCatalogController(logger *slog.Logger, svc domain.ScheduleService) *CatalogController {
	return &CatalogController{
		Logger:  logger,
		Service: svc,
	}
}

// ListUpcomingSessions godoc
// @Summary List upcoming class sessions
// @Description Returns all sessions scheduled today or later, ordered by date ascending. Each entry carries current and maximum participant counts so clients can render a "Full" flag.
// @Tags catalog
// @Produce json
// @Success 200 {object} helpers.APIResponse "data: list of sessions"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions [get]
func (c *CatalogController) ListUpcomingSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := c.Service.ListUpcomingSessions(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}

// GetSession godoc
// @Summary Get one class session
// @Tags catalog
// @Produce json
// @Param sessionID path string true "Session ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data: session"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/{sessionID} [get]
func (c *CatalogController) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if sessionID == "" || !uuidRegex.MatchString(sessionID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid sessionID")
		return
	}
	sess, err := c.Service.GetSession(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "session not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sess)
}

// ListMyRegistrations godoc
// @Summary List the current user's registrations in a date window
// @Description Returns the authenticated user's registrations with session_date in the inclusive [from, to] window, each bundled with its session. A registration whose session has been deleted is returned with session null.
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param from query string true "Window start (YYYY-MM-DD)"
// @Param to query string true "Window end (YYYY-MM-DD)"
// @Success 200 {object} helpers.APIResponse "data: list of registrations with sessions"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/registrations [get]
func (c *CatalogController) ListMyRegistrations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	from, err := time.Parse(time.DateOnly, r.URL.Query().Get("from"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "from must be formatted YYYY-MM-DD")
		return
	}
	to, err := time.Parse(time.DateOnly, r.URL.Query().Get("to"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "to must be formatted YYYY-MM-DD")
		return
	}

	regs, err := c.Service.ListUserRegistrations(r.Context(), userID, from, to)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}
