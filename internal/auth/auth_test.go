package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/zapponejosh/lifecal/internal/config"
	"github.com/zapponejosh/lifecal/internal/database"
	"github.com/zapponejosh/lifecal/internal/logger"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("MySecurePassword123")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Errorf("Hash should start with $argon2id$v=19$, got: %s", hash)
	}

	hash2, err := HashPassword("MySecurePassword123")
	if err != nil {
		t.Fatalf("HashPassword() failed on second call: %v", err)
	}
	if hash == hash2 {
		t.Error("Two hashes of same password should be different (different salts)")
	}

	if _, err := HashPassword("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("HashPassword(short) error = %v, want ErrPasswordTooShort", err)
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("MySecurePassword123")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
		wantErr  bool
	}{
		{"correct password", "MySecurePassword123", hash, true, false},
		{"wrong password", "WrongPassword456", hash, false, false},
		{"empty password", "", hash, false, false},
		{"malformed hash", "MySecurePassword123", "not-a-hash", false, true},
		{"wrong algorithm", "MySecurePassword123", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VerifyPassword(tt.password, tt.hash)
			if (err != nil) != tt.wantErr {
				t.Fatalf("VerifyPassword() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("VerifyPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

// memoryStore is an in-memory Store for session tests.
type memoryStore struct {
	users    map[int64]*database.User
	sessions map[string]database.Session
}

func newMemoryStore(users ...*database.User) *memoryStore {
	s := &memoryStore{users: map[int64]*database.User{}, sessions: map[string]database.Session{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memoryStore) CreateSession(_ context.Context, token string, userID int64, expiresAt time.Time) error {
	s.sessions[token] = database.Session{Token: token, UserID: userID, ExpiresAt: expiresAt}
	return nil
}

func (s *memoryStore) GetUserBySessionToken(_ context.Context, token string, now time.Time) (*database.User, error) {
	sess, ok := s.sessions[token]
	if !ok || !sess.ExpiresAt.After(now) {
		return nil, database.ErrNotFound
	}
	return s.users[sess.UserID], nil
}

func (s *memoryStore) DeleteSession(_ context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func testManager(store Store) *Manager {
	cfg := &config.Config{
		Env:           config.EnvDevelopment,
		SessionSecret: "0123456789abcdef0123456789abcdef",
		SessionMaxAge: time.Hour,
	}
	return NewManager(store, cfg, logger.Quiet())
}

// whoami echoes the username in context, or "anonymous".
var whoami = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if u := UserFromContext(r.Context()); u != nil {
		w.Write([]byte(u.Username))
		return
	}
	w.Write([]byte("anonymous"))
})

func TestManager_LoginLoadLogout(t *testing.T) {
	store := newMemoryStore(&database.User{ID: 7, Username: "dana"})
	m := testManager(store)

	// Login
	rr := httptest.NewRecorder()
	if err := m.Login(rr, httptest.NewRequest(http.MethodPost, "/api/v1/session", nil), 7); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionName {
		t.Fatalf("Login() cookies = %+v", cookies)
	}
	if len(store.sessions) != 1 {
		t.Fatalf("stored sessions = %d, want 1", len(store.sessions))
	}

	// Authenticated request
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	m.LoadUser(whoami).ServeHTTP(rr, req)
	if rr.Body.String() != "dana" {
		t.Errorf("LoadUser() user = %q, want dana", rr.Body.String())
	}

	// Expired session is ignored
	m.SetClock(func() time.Time { return time.Now().Add(2 * time.Hour) })
	rr = httptest.NewRecorder()
	m.LoadUser(whoami).ServeHTTP(rr, req)
	if rr.Body.String() != "anonymous" {
		t.Errorf("expired session user = %q, want anonymous", rr.Body.String())
	}
	m.SetClock(time.Now)

	// Logout
	rr = httptest.NewRecorder()
	if err := m.Logout(rr, req); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if len(store.sessions) != 0 {
		t.Errorf("sessions after logout = %d, want 0", len(store.sessions))
	}
}

func TestManager_LoadUser_NoCookie(t *testing.T) {
	m := testManager(newMemoryStore())

	rr := httptest.NewRecorder()
	m.LoadUser(whoami).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Body.String() != "anonymous" {
		t.Errorf("user = %q, want anonymous", rr.Body.String())
	}
}
