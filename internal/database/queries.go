package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Query functions take sqlx.ExtContext so that DB and Tx share them.

// =============================================================================
// Users
// =============================================================================

const userColumns = `id, username, email, first_name, dob, password_hash, created_at, updated_at`

// CreateUser inserts u and fills in its ID and timestamps.
// Returns ErrDuplicate if the username is taken.
func (db *DB) CreateUser(ctx context.Context, u *User) error {
	return createUser(ctx, db.DB, u)
}

// CreateUser inserts u within the transaction.
func (tx *Tx) CreateUser(ctx context.Context, u *User) error {
	return createUser(ctx, tx.Tx, u)
}

func createUser(ctx context.Context, q sqlx.ExtContext, u *User) error {
	u.Username = strings.TrimSpace(u.Username)

	res, err := sqlx.NamedExecContext(ctx, q, `
		INSERT INTO users (username, email, first_name, dob, password_hash)
		VALUES (:username, :email, :first_name, :dob, :password_hash)
	`, u)
	if err != nil {
		return fmt.Errorf("insert user: %w", translateError(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}

	created, err := getUserByID(ctx, q, id)
	if err != nil {
		return err
	}
	*u = *created
	return nil
}

// GetUserByID returns the user with the given ID or ErrNotFound.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*User, error) {
	return getUserByID(ctx, db.DB, id)
}

func getUserByID(ctx context.Context, q sqlx.QueryerContext, id int64) (*User, error) {
	var u User
	err := sqlx.GetContext(ctx, q, &u, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, translateError(err))
	}
	return &u, nil
}

// GetUserByUsername returns the user with the given username or ErrNotFound.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE username = ?`,
		strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", username, translateError(err))
	}
	return &u, nil
}

// UpdateUser stores u's email, first name and date of birth.
func (db *DB) UpdateUser(ctx context.Context, u *User) error {
	return updateUser(ctx, db.DB, u)
}

// UpdateUser stores u's profile within the transaction.
func (tx *Tx) UpdateUser(ctx context.Context, u *User) error {
	return updateUser(ctx, tx.Tx, u)
}

func updateUser(ctx context.Context, q sqlx.ExtContext, u *User) error {
	res, err := sqlx.NamedExecContext(ctx, q, `
		UPDATE users
		SET email = :email, first_name = :first_name, dob = :dob,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = :id
	`, u)
	if err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, translateError(err))
	}
	if err := requireRow(res); err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}

	updated, err := getUserByID(ctx, q, u.ID)
	if err != nil {
		return err
	}
	*u = *updated
	return nil
}

// =============================================================================
// Sessions
// =============================================================================

// CreateSession stores a login token for userID.
func (db *DB) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		token, userID, expiresAt.UTC())
	if err != nil {
		return fmt.Errorf("insert session: %w", translateError(err))
	}
	return nil
}

// GetUserBySessionToken returns the owner of a session that is still
// valid at now, or ErrNotFound.
func (db *DB) GetUserBySessionToken(ctx context.Context, token string, now time.Time) (*User, error) {
	var u User
	err := db.GetContext(ctx, &u, `
		SELECT u.id, u.username, u.email, u.first_name, u.dob, u.password_hash,
		       u.created_at, u.updated_at
		FROM users u
		JOIN sessions s ON u.id = s.user_id
		WHERE s.token = ? AND s.expires_at > ?
	`, token, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("get session user: %w", translateError(err))
	}
	return &u, nil
}

// DeleteSession removes a login token. Deleting an unknown token is not an error.
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CleanExpiredSessions deletes sessions that expired at or before now and
// returns how many were removed.
func (db *DB) CleanExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("clean sessions: %w", err)
	}
	return res.RowsAffected()
}

// =============================================================================
// Life events
// =============================================================================

const eventColumns = `id, user_id, title, event_date, created_at`

// CreateEvent inserts e and fills in its ID and creation time.
func (db *DB) CreateEvent(ctx context.Context, e *LifeEvent) error {
	return createEvent(ctx, db.DB, e)
}

// CreateEvent inserts e within the transaction.
func (tx *Tx) CreateEvent(ctx context.Context, e *LifeEvent) error {
	return createEvent(ctx, tx.Tx, e)
}

func createEvent(ctx context.Context, q sqlx.ExtContext, e *LifeEvent) error {
	res, err := sqlx.NamedExecContext(ctx, q, `
		INSERT INTO life_events (user_id, title, event_date)
		VALUES (:user_id, :title, :event_date)
	`, e)
	if err != nil {
		return fmt.Errorf("insert event: %w", translateError(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("event id: %w", err)
	}

	created, err := getEvent(ctx, q, id)
	if err != nil {
		return err
	}
	*e = *created
	return nil
}

// GetEvent returns a single event or ErrNotFound.
func (db *DB) GetEvent(ctx context.Context, id int64) (*LifeEvent, error) {
	return getEvent(ctx, db.DB, id)
}

func getEvent(ctx context.Context, q sqlx.QueryerContext, id int64) (*LifeEvent, error) {
	var e LifeEvent
	if err := sqlx.GetContext(ctx, q, &e, `SELECT `+eventColumns+` FROM life_events WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("get event %d: %w", id, translateError(err))
	}
	return &e, nil
}

// ListEventsByUser returns a user's events ordered by date.
func (db *DB) ListEventsByUser(ctx context.Context, userID int64) ([]LifeEvent, error) {
	return listEventsByUser(ctx, db.DB, userID)
}

// ListEventsByUser returns a user's events within the transaction.
func (tx *Tx) ListEventsByUser(ctx context.Context, userID int64) ([]LifeEvent, error) {
	return listEventsByUser(ctx, tx.Tx, userID)
}

func listEventsByUser(ctx context.Context, q sqlx.QueryerContext, userID int64) ([]LifeEvent, error) {
	events := []LifeEvent{}
	err := sqlx.SelectContext(ctx, q, &events, `
		SELECT `+eventColumns+` FROM life_events
		WHERE user_id = ?
		ORDER BY event_date ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list events for user %d: %w", userID, err)
	}
	return events, nil
}

// DeleteEvent removes one of userID's events. Returns ErrNotFound if the
// event does not exist or belongs to someone else.
func (db *DB) DeleteEvent(ctx context.Context, userID, eventID int64) error {
	res, err := db.ExecContext(ctx,
		`DELETE FROM life_events WHERE id = ? AND user_id = ?`, eventID, userID)
	if err != nil {
		return fmt.Errorf("delete event %d: %w", eventID, err)
	}
	if err := requireRow(res); err != nil {
		return fmt.Errorf("delete event %d: %w", eventID, err)
	}
	return nil
}

// requireRow converts "no rows affected" into ErrNotFound.
func requireRow(res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
