package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository handles session database operations.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// Get retrieves a session by key.
func (r *SessionRepository) Get(ctx context.Context, sessionKey string) (*Session, error) {
	query := `
		SELECT session_key, username, realname, last_login, created_at
		FROM sessions
		WHERE session_key = $1
	`
	var session Session
	err := r.pool.QueryRow(ctx, query, sessionKey).Scan(
		&session.SessionKey,
		&session.Username,
		&session.RealName,
		&session.LastLogin,
		&session.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}
	return &session, nil
}

// Upsert creates or refreshes the session row. Username and realname are
// last-write-wins but NULL inputs leave the stored value alone, so a
// partial refresh never clobbers fields it did not carry. last_login only
// moves forward.
func (r *SessionRepository) Upsert(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO sessions (session_key, username, realname, last_login, created_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (session_key) DO UPDATE SET
			username = COALESCE(EXCLUDED.username, sessions.username),
			realname = COALESCE(EXCLUDED.realname, sessions.realname),
			last_login = GREATEST(sessions.last_login, EXCLUDED.last_login)
		RETURNING last_login, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		session.SessionKey,
		session.Username,
		session.RealName,
	).Scan(&session.LastLogin, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("upserting session: %w", err)
	}
	return nil
}

// EnsureExists materializes a session row for a key that never went
// through the authentication handshake on this backend (resumed
// sessions). Existing rows are untouched.
func (r *SessionRepository) EnsureExists(ctx context.Context, sessionKey string) error {
	query := `
		INSERT INTO sessions (session_key, last_login, created_at)
		VALUES ($1, NOW(), NOW())
		ON CONFLICT (session_key) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, sessionKey)
	if err != nil {
		return fmt.Errorf("ensuring session exists: %w", err)
	}
	return nil
}

// SetRealName merge-writes only the realname field of the addressed row,
// leaving unrelated fields as they are.
func (r *SessionRepository) SetRealName(ctx context.Context, sessionKey, realName string) error {
	query := `UPDATE sessions SET realname = $2 WHERE session_key = $1`
	result, err := r.pool.Exec(ctx, query, sessionKey, realName)
	if err != nil {
		return fmt.Errorf("setting realname: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a session by key. Emotion records and playlists owned by
// the session go with it via ON DELETE CASCADE.
func (r *SessionRepository) Delete(ctx context.Context, sessionKey string) error {
	query := `DELETE FROM sessions WHERE session_key = $1`
	result, err := r.pool.Exec(ctx, query, sessionKey)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
