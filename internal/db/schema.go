package db

import (
	"context"
	"fmt"
)

// schema is applied on startup. Statements are idempotent so restarting
// the backend against an initialized database is safe.
//
// The UNIQUE constraint on (session_key, track_id) is what makes the
// emotion upsert race-free: two concurrent tags of the same track resolve
// to one row instead of both inserting.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_key TEXT PRIMARY KEY,
	username    TEXT,
	realname    TEXT,
	last_login  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS emotions (
	id          UUID PRIMARY KEY,
	session_key TEXT NOT NULL REFERENCES sessions (session_key) ON DELETE CASCADE,
	track_id    TEXT NOT NULL,
	track_title TEXT NOT NULL,
	artist      TEXT NOT NULL,
	emotion     TEXT NOT NULL,
	group_label TEXT,
	tagged_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (session_key, track_id)
);

CREATE INDEX IF NOT EXISTS emotions_session_tagged_at_idx
	ON emotions (session_key, tagged_at DESC);

CREATE TABLE IF NOT EXISTS playlists (
	id          UUID PRIMARY KEY,
	session_key TEXT NOT NULL REFERENCES sessions (session_key) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	group_label TEXT NOT NULL,
	emotions    TEXT[] NOT NULL,
	songs       JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS playlists_session_created_at_idx
	ON playlists (session_key, created_at DESC);
`

// EnsureSchema creates the tables and indexes if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}
