package api

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zapponejosh/lifecal/internal/calendar"
	"github.com/zapponejosh/lifecal/internal/config"
	"github.com/zapponejosh/lifecal/internal/database"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db       *database.DB
	sessions sessionManager
	cfg      *config.Config
	logger   *slog.Logger
	now      func() time.Time
	pages    *template.Template
	printer  *message.Printer
}

// sessionManager is the part of auth.Manager the handlers use.
type sessionManager interface {
	Login(w http.ResponseWriter, r *http.Request, userID int64) error
	Logout(w http.ResponseWriter, r *http.Request) error
	LoadUser(next http.Handler) http.Handler
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *database.DB, sessions sessionManager, cfg *config.Config, logger *slog.Logger) (*Handlers, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}

	return &Handlers{
		db:       db,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		pages:    pages,
		printer:  message.NewPrinter(language.English),
	}, nil
}

// SetClock replaces the time source that decides what "today" is.
func (h *Handlers) SetClock(now func() time.Time) {
	h.now = now
}

func (h *Handlers) today() calendar.Date {
	return calendar.DateOf(h.now())
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.Health(ctx); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
		"today":  h.today().String(),
	})
}

// gridResponse is the JSON form of a grid. Rows are left out; clients
// can rebuild them from the lists.
type gridResponse struct {
	*calendar.Grid
	WeeksLived     int    `json:"weeks_lived"`
	WeeksRemaining int    `json:"weeks_remaining"`
	Summary        string `json:"summary"`
}

func (h *Handlers) newGridResponse(g *calendar.Grid) gridResponse {
	return gridResponse{
		Grid:           g,
		WeeksLived:     g.WeeksLived(),
		WeeksRemaining: g.WeeksRemaining(),
		Summary:        g.Summary(h.printer),
	}
}

// GetGrid handles GET /api/v1/grid/{dob}?today=YYYY-MM-DD
func (h *Handlers) GetGrid(w http.ResponseWriter, r *http.Request) {
	dobStr := chi.URLParam(r, "dob")
	dob, err := calendar.ParseDate(dobStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date of birth: %s. Use YYYY-MM-DD", dobStr))
		return
	}

	today := h.today()
	if s := r.URL.Query().Get("today"); s != "" {
		today, err = calendar.ParseDate(s)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid today parameter: %s. Use YYYY-MM-DD", s))
			return
		}
	}

	if err := calendar.ValidateBirthDate(dob, today); err != nil {
		WriteValidationError(w, err)
		return
	}

	WriteSuccess(w, h.newGridResponse(calendar.NewGrid(dob, today, nil)))
}

// coordinateResponse locates one date on a birth date's grid.
type coordinateResponse struct {
	BirthDate  calendar.Date       `json:"birth_date"`
	Date       calendar.Date       `json:"date"`
	Coordinate calendar.Coordinate `json:"coordinate"`
}

// GetCoordinate handles GET /api/v1/coordinate?dob=YYYY-MM-DD&date=YYYY-MM-DD
func (h *Handlers) GetCoordinate(w http.ResponseWriter, r *http.Request) {
	dobStr := r.URL.Query().Get("dob")
	dateStr := r.URL.Query().Get("date")

	if dobStr == "" || dateStr == "" {
		WriteBadRequest(w, "Both dob and date parameters are required")
		return
	}

	dob, err := calendar.ParseDate(dobStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid dob format: %s. Use YYYY-MM-DD", dobStr))
		return
	}

	date, err := calendar.ParseDate(dateStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return
	}

	if err := calendar.ValidateEventDate(dob, date); err != nil {
		WriteValidationError(w, err)
		return
	}

	WriteSuccess(w, coordinateResponse{
		BirthDate:  dob,
		Date:       date,
		Coordinate: calendar.EventCoordinate(dob, date),
	})
}

// isValidationError reports whether err is one of the calendar rules whose
// message is safe to show to users.
func isValidationError(err error) bool {
	return errors.Is(err, calendar.ErrFutureBirthDate) ||
		errors.Is(err, calendar.ErrBirthDateTooOld) ||
		errors.Is(err, calendar.ErrEventOutOfRange) ||
		errors.Is(err, calendar.ErrEventsOutOfRangeForBirthDate)
}
