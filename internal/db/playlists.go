package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PlaylistRepository handles playlist database operations.
type PlaylistRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a new playlist. The store-generated ID is the playlist's
// public identifier; callers must not echo a field value instead. The
// playlist is immutable after this call.
func (r *PlaylistRepository) Create(ctx context.Context, playlist *Playlist) error {
	if playlist.ID == uuid.Nil {
		playlist.ID = uuid.New()
	}
	query := `
		INSERT INTO playlists (id, session_key, name, group_label, emotions, songs, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		playlist.ID,
		playlist.SessionKey,
		playlist.Name,
		playlist.GroupLabel,
		playlist.Emotions,
		playlist.Songs,
	).Scan(&playlist.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting playlist: %w", err)
	}
	return nil
}

// Get retrieves a playlist by ID, scoped to its owning session.
func (r *PlaylistRepository) Get(ctx context.Context, sessionKey string, id uuid.UUID) (*Playlist, error) {
	query := `
		SELECT id, session_key, name, group_label, emotions, songs, created_at
		FROM playlists
		WHERE session_key = $1 AND id = $2
	`
	var playlist Playlist
	err := r.pool.QueryRow(ctx, query, sessionKey, id).Scan(
		&playlist.ID,
		&playlist.SessionKey,
		&playlist.Name,
		&playlist.GroupLabel,
		&playlist.Emotions,
		&playlist.Songs,
		&playlist.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying playlist: %w", err)
	}
	return &playlist, nil
}

// ListForSession retrieves all playlists for a session, newest first.
func (r *PlaylistRepository) ListForSession(ctx context.Context, sessionKey string) ([]Playlist, error) {
	query := `
		SELECT id, session_key, name, group_label, emotions, songs, created_at
		FROM playlists
		WHERE session_key = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("querying playlists: %w", err)
	}
	defer rows.Close()

	var playlists []Playlist
	for rows.Next() {
		var playlist Playlist
		if err := rows.Scan(
			&playlist.ID,
			&playlist.SessionKey,
			&playlist.Name,
			&playlist.GroupLabel,
			&playlist.Emotions,
			&playlist.Songs,
			&playlist.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	return playlists, rows.Err()
}
