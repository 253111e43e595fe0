package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/morsig01/treningsglede/internal/delivery/http/controllers"
	"github.com/morsig01/treningsglede/internal/delivery/http/middleware"
	"github.com/morsig01/treningsglede/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	catalog *controllers.CatalogController,
	booking *controllers.BookingController,
	admin *controllers.AdminController,
) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier, logger)
	adminOnly := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole("admin")(next))
	}

	// Catalog
	mux.HandleFunc("GET /sessions", catalog.ListUpcomingSessions)
	mux.HandleFunc("GET /sessions/{sessionID}", catalog.GetSession)
	mux.HandleFunc("GET /me/registrations", auth(catalog.ListMyRegistrations))

	// Booking
	mux.HandleFunc("POST /sessions/{sessionID}/registrations", auth(booking.Register))
	mux.HandleFunc("DELETE /sessions/{sessionID}/registrations/{sessionDate}", auth(booking.Unregister))

	// Admin schedule management
	mux.HandleFunc("GET /admin/sessions", adminOnly(admin.ListSessions))
	mux.HandleFunc("POST /admin/sessions", adminOnly(admin.CreateSession))
	mux.HandleFunc("PUT /admin/sessions/{sessionID}", adminOnly(admin.UpdateSession))
	mux.HandleFunc("DELETE /admin/sessions/{sessionID}", adminOnly(admin.DeleteSession))
	mux.HandleFunc("POST /admin/sessions/{sessionID}/reconcile", adminOnly(admin.ReconcileSession))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
