package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/morsig01/treningsglede/internal/delivery/http/helpers"
	"github.com/morsig01/treningsglede/internal/delivery/http/middleware"
	"github.com/morsig01/treningsglede/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{
		Logger:  logger,
		Service: svc,
	}
}

// RegisterRequest is the request body for POST /sessions/{sessionID}/registrations.
type RegisterRequest struct {
	SessionDate string `json:"session_date"`
}

// Validate implements helpers.Validator.
func (r *RegisterRequest) Validate() []string {
	if r.SessionDate == "" {
		return []string{"session_date is required"}
	}
	if _, err := time.Parse(time.DateOnly, r.SessionDate); err != nil {
		return []string{"session_date must be formatted YYYY-MM-DD"}
	}
	return nil
}

// RegisterSuccessResponse is the success response envelope for POST /sessions/{sessionID}/registrations (201).
type RegisterSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Register godoc
// @Summary Register the current user for a class session occurrence
// @Description Books the authenticated user onto the session for the given date. Fails with 409 session_full when the class has no remaining capacity and 409 already_registered when the user already holds a booking for the same occurrence.
// @Tags booking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID (UUID)"
// @Param body body controllers.RegisterRequest true "Occurrence date"
// @Success 201 {object} controllers.RegisterSuccessResponse "Registration created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: session_full or already_registered"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/{sessionID}/registrations [post]
func (c *BookingController) Register(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if sessionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing sessionID")
		return
	}
	if !uuidRegex.MatchString(sessionID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid sessionID")
		return
	}

	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sessionDate, _ := time.Parse(time.DateOnly, req.SessionDate)

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	reg, err := c.Service.Register(r.Context(), userID, sessionID, sessionDate)
	if err != nil {
		c.writeBookingError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// Unregister godoc
// @Summary Unregister the current user from a class session occurrence
// @Description Removes the authenticated user's booking for the session on the given date. Unregistering an absent booking succeeds as a no-op.
// @Tags booking
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID (UUID)"
// @Param sessionDate path string true "Occurrence date (YYYY-MM-DD)"
// @Success 200 {object} helpers.APIResponse "Unregistered"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/{sessionID}/registrations/{sessionDate} [delete]
func (c *BookingController) Unregister(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if sessionID == "" || !uuidRegex.MatchString(sessionID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid sessionID")
		return
	}
	sessionDate, err := time.Parse(time.DateOnly, r.PathValue("sessionDate"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "sessionDate must be formatted YYYY-MM-DD")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	if err := c.Service.Unregister(r.Context(), userID, sessionID, sessionDate); err != nil {
		c.writeBookingError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "unregistered"})
}

// writeBookingError maps booking service errors to the JSON error envelope.
// An InconsistencyError means the counter and ledger may have diverged; it is
// logged at error level so it can be alerted on separately from ordinary
// store failures.
func (c *BookingController) writeBookingError(w http.ResponseWriter, r *http.Request, err error) {
	// Checked before the sentinel mappings: an InconsistencyError unwraps to
	// its original cause, which may itself be ErrSessionFull.
	var incErr *domain.InconsistencyError
	switch {
	case errors.As(err, &incErr):
		c.Logger.ErrorContext(r.Context(), "booking state inconsistent",
			"path", r.URL.Path, "method", r.Method,
			"session_id", incErr.SessionID, "registration_id", incErr.RegistrationID, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "booking failed")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "session not found")
	case errors.Is(err, domain.ErrSessionFull):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeSessionFull, "session is fully booked")
	case errors.Is(err, domain.ErrAlreadyRegistered):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeAlreadyRegistered, "already registered for this session")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
