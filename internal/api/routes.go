package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/handlers"

	"github.com/zapponejosh/lifecal/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health                  database health
//	GET    /                        birth date form
//	POST   /                        submit birth date, redirect to its grid
//	GET    /grid/{dob}              life grid page
//	POST   /grid/{dob}              submit life event, redirect to its grid
//	GET    /grid/{dob}/{event}      life grid page with event=name=YYYY-MM-DD
//	GET    /api/v1/grid/{dob}       grid summary (?today=YYYY-MM-DD)
//	GET    /api/v1/coordinate       coordinate of ?date= on ?dob='s grid
//	POST   /api/v1/accounts         sign up
//	POST   /api/v1/session          log in
//	DELETE /api/v1/session          log out
//	GET    /api/v1/me               current user          (login required)
//	PATCH  /api/v1/me               update profile        (login required)
//	GET    /api/v1/me/grid          current user's grid   (login required)
//	GET    /api/v1/me/events        list life events      (login required)
//	POST   /api/v1/me/events        add life event        (login required)
//	DELETE /api/v1/me/events/{id}   delete life event     (login required)
func SetupRoutes(h *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		h.sessions.LoadUser,
	)

	// ==========================================================================
	// Pages
	// ==========================================================================
	r.Get("/health", h.HealthCheck)
	r.Get("/", h.HomePage)
	r.Post("/", h.SubmitBirthDate)
	r.Get("/grid/{dob}", h.GridPage)
	r.Post("/grid/{dob}", h.SubmitEvent)
	r.Get("/grid/{dob}/{event}", h.GridEventPage)

	// ==========================================================================
	// JSON API
	// ==========================================================================
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/grid/{dob}", h.GetGrid)
		r.Get("/coordinate", h.GetCoordinate)

		r.Post("/accounts", h.CreateAccount)
		r.Post("/session", h.Login)
		r.Delete("/session", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(RequireUser)

			r.Get("/me", h.GetCurrentUser)
			r.Patch("/me", h.UpdateCurrentUser)
			r.Get("/me/grid", h.GetMyGrid)
			r.Get("/me/events", h.ListMyEvents)
			r.Post("/me/events", h.CreateMyEvent)
			r.Delete("/me/events/{id}", h.DeleteMyEvent)
		})
	})

	if !cfg.IsDevelopment() {
		return r
	}

	// Local front-end dev servers run on other ports.
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Request-ID"}),
	)
	return cors(r)
}
