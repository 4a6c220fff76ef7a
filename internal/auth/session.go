package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/zapponejosh/lifecal/internal/config"
	"github.com/zapponejosh/lifecal/internal/database"
)

// SessionName is the cookie that carries the session token.
const SessionName = "lifecal-session"

const tokenKey = "token"

// Store persists session tokens. *database.DB satisfies it.
type Store interface {
	CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	GetUserBySessionToken(ctx context.Context, token string, now time.Time) (*database.User, error)
	DeleteSession(ctx context.Context, token string) error
}

type contextKey string

const userContextKey contextKey = "user"

// Manager issues and resolves login sessions. The cookie only holds a
// random token; the token's owner and expiry live in the Store.
type Manager struct {
	store   Store
	cookies *sessions.CookieStore
	maxAge  time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// NewManager creates a session manager signed with cfg.SessionSecret.
func NewManager(store Store, cfg *config.Config, logger *slog.Logger) *Manager {
	cookies := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		store:   store,
		cookies: cookies,
		maxAge:  cfg.SessionMaxAge,
		now:     time.Now,
		logger:  logger,
	}
}

// SetClock replaces the time source used for expiry checks.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// Login starts a session for userID and writes the cookie.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, userID int64) error {
	token, err := generateToken()
	if err != nil {
		return fmt.Errorf("generate session token: %w", err)
	}

	if err := m.store.CreateSession(r.Context(), token, userID, m.now().Add(m.maxAge)); err != nil {
		return err
	}

	// A stale or tampered cookie still yields a fresh session to write into.
	session, _ := m.cookies.Get(r, SessionName)
	session.Values[tokenKey] = token
	return session.Save(r, w)
}

// Logout ends the current session, if any, and expires the cookie.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.cookies.Get(r, SessionName)

	if token, ok := session.Values[tokenKey].(string); ok && token != "" {
		if err := m.store.DeleteSession(r.Context(), token); err != nil {
			return err
		}
	}

	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// LoadUser puts the logged-in user, if any, into the request context.
// Requests without a valid session pass through anonymously.
func (m *Manager) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.cookies.Get(r, SessionName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := session.Values[tokenKey].(string)
		if !ok || token == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.store.GetUserBySessionToken(r.Context(), token, m.now())
		if err != nil {
			if !database.IsNotFound(err) {
				m.logger.Error("session lookup failed", slog.Any("error", err))
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// WithUser returns a context carrying user.
func WithUser(ctx context.Context, user *database.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the logged-in user or nil.
func UserFromContext(ctx context.Context) *database.User {
	user, _ := ctx.Value(userContextKey).(*database.User)
	return user
}

// generateToken creates a cryptographically secure random token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
