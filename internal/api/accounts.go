package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/lifecal/internal/auth"
	"github.com/zapponejosh/lifecal/internal/calendar"
	"github.com/zapponejosh/lifecal/internal/database"
	"github.com/zapponejosh/lifecal/internal/logger"
)

// =============================================================================
// ACCOUNTS
// =============================================================================

type createAccountRequest struct {
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	FirstName string        `json:"first_name"`
	DOB       calendar.Date `json:"dob"`
	Password  string        `json:"password"`
}

// CreateAccount handles POST /api/v1/accounts
func (h *Handlers) CreateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		WriteBadRequest(w, "Username is required")
		return
	}
	if req.DOB.IsZero() {
		WriteBadRequest(w, "Date of birth is required")
		return
	}

	if err := calendar.ValidateBirthDate(req.DOB, h.today()); err != nil {
		WriteValidationError(w, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			WriteValidationError(w, err)
			return
		}
		logger.Error(ctx, "failed to hash password", err)
		WriteInternalError(w, "Failed to create account")
		return
	}

	user := &database.User{
		Username:     req.Username,
		Email:        strings.TrimSpace(req.Email),
		FirstName:    strings.TrimSpace(req.FirstName),
		DOB:          req.DOB,
		PasswordHash: hash,
	}
	if err := h.db.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			WriteConflict(w, "Username already taken")
			return
		}
		logger.Error(ctx, "failed to create user", err, slog.String("username", req.Username))
		WriteInternalError(w, "Failed to create account")
		return
	}

	if err := h.sessions.Login(w, r, user.ID); err != nil {
		logger.Error(ctx, "failed to start session", err, slog.Int64("user_id", user.ID))
		WriteInternalError(w, "Account created but login failed")
		return
	}

	logger.Info(ctx, "account created", slog.Int64("user_id", user.ID))
	WriteCreated(w, user)
}

// =============================================================================
// SESSION
// =============================================================================

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/session
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.db.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if database.IsNotFound(err) {
			WriteUnauthorized(w, "Invalid username or password")
			return
		}
		logger.Error(ctx, "failed to look up user", err)
		WriteInternalError(w, "Failed to log in")
		return
	}

	ok, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		logger.Error(ctx, "stored password hash unreadable", err, slog.Int64("user_id", user.ID))
		WriteInternalError(w, "Failed to log in")
		return
	}
	if !ok {
		WriteUnauthorized(w, "Invalid username or password")
		return
	}

	if err := h.sessions.Login(w, r, user.ID); err != nil {
		logger.Error(ctx, "failed to start session", err, slog.Int64("user_id", user.ID))
		WriteInternalError(w, "Failed to log in")
		return
	}

	WriteSuccess(w, user)
}

// Logout handles DELETE /api/v1/session
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		logger.Error(r.Context(), "failed to end session", err)
		WriteInternalError(w, "Failed to log out")
		return
	}

	WriteSuccess(w, map[string]string{"message": "Logged out"})
}

// =============================================================================
// CURRENT USER
// =============================================================================

// GetCurrentUser handles GET /api/v1/me
func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, auth.UserFromContext(r.Context()))
}

// updateProfileRequest holds the profile fields a user may change.
// Absent fields are left alone.
type updateProfileRequest struct {
	Email     *string        `json:"email"`
	FirstName *string        `json:"first_name"`
	DOB       *calendar.Date `json:"dob"`
}

// UpdateCurrentUser handles PATCH /api/v1/me
func (h *Handlers) UpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	current := auth.UserFromContext(ctx)

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	user := *current
	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}

	err := h.db.WithTx(ctx, func(tx *database.Tx) error {
		if req.DOB != nil && *req.DOB != current.DOB {
			if err := calendar.ValidateBirthDate(*req.DOB, h.today()); err != nil {
				return err
			}
			events, err := tx.ListEventsByUser(ctx, user.ID)
			if err != nil {
				return err
			}
			if err := calendar.ValidateEventsForBirthDate(*req.DOB, database.EventDates(events)); err != nil {
				return err
			}
			user.DOB = *req.DOB
		}
		return tx.UpdateUser(ctx, &user)
	})
	if err != nil {
		if isValidationError(err) {
			WriteValidationError(w, err)
			return
		}
		logger.Error(ctx, "failed to update user", err, slog.Int64("user_id", user.ID))
		WriteInternalError(w, "Failed to update profile")
		return
	}

	WriteSuccess(w, &user)
}

// GetMyGrid handles GET /api/v1/me/grid
func (h *Handlers) GetMyGrid(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := auth.UserFromContext(ctx)

	events, err := h.db.ListEventsByUser(ctx, user.ID)
	if err != nil {
		logger.Error(ctx, "failed to list events", err, slog.Int64("user_id", user.ID))
		WriteInternalError(w, "Failed to build grid")
		return
	}

	g := calendar.NewGrid(user.DOB, h.today(), database.CalendarEvents(events))
	WriteSuccess(w, h.newGridResponse(g))
}

// =============================================================================
// LIFE EVENTS
// =============================================================================

// eventResponse is a stored event with its place on the owner's grid.
type eventResponse struct {
	database.LifeEvent
	Coordinate calendar.Coordinate `json:"coordinate"`
}

func newEventResponse(dob calendar.Date, e database.LifeEvent) eventResponse {
	return eventResponse{LifeEvent: e, Coordinate: calendar.EventCoordinate(dob, e.Date)}
}

// ListMyEvents handles GET /api/v1/me/events
func (h *Handlers) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := auth.UserFromContext(ctx)

	events, err := h.db.ListEventsByUser(ctx, user.ID)
	if err != nil {
		logger.Error(ctx, "failed to list events", err, slog.Int64("user_id", user.ID))
		WriteInternalError(w, "Failed to retrieve events")
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, newEventResponse(user.DOB, e))
	}

	WriteSuccess(w, map[string]interface{}{
		"events": out,
		"count":  len(out),
	})
}

type createEventRequest struct {
	Title string        `json:"title"`
	Date  calendar.Date `json:"date"`
}

// CreateMyEvent handles POST /api/v1/me/events
func (h *Handlers) CreateMyEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := auth.UserFromContext(ctx)

	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		WriteBadRequest(w, "Title is required")
		return
	}
	if req.Date.IsZero() {
		WriteBadRequest(w, "Date is required")
		return
	}

	if err := calendar.ValidateEventDate(user.DOB, req.Date); err != nil {
		WriteValidationError(w, err)
		return
	}

	event := &database.LifeEvent{UserID: user.ID, Title: req.Title, Date: req.Date}
	if err := h.db.CreateEvent(ctx, event); err != nil {
		logger.Error(ctx, "failed to create event", err, slog.Int64("user_id", user.ID))
		WriteInternalError(w, "Failed to create event")
		return
	}

	WriteCreated(w, newEventResponse(user.DOB, *event))
}

// DeleteMyEvent handles DELETE /api/v1/me/events/{id}
func (h *Handlers) DeleteMyEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := auth.UserFromContext(ctx)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteBadRequest(w, "Invalid event ID")
		return
	}

	if err := h.db.DeleteEvent(ctx, user.ID, id); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "Event not found")
			return
		}
		logger.Error(ctx, "failed to delete event", err, slog.Int64("event_id", id))
		WriteInternalError(w, "Failed to delete event")
		return
	}

	WriteSuccess(w, map[string]string{"message": "Event deleted"})
}
