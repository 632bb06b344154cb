package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EmotionRepository handles emotion record database operations.
type EmotionRepository struct {
	pool *pgxpool.Pool
}

// Upsert inserts an emotion record or, when the (session_key, track_id)
// pair already exists, overwrites the mutable fields of the existing row
// in place. The unique constraint makes concurrent tags of the same track
// converge on one row instead of racing a read-modify-write pair. The
// record's ID and TaggedAt are populated from the stored row.
func (r *EmotionRepository) Upsert(ctx context.Context, record *Emotion) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	query := `
		INSERT INTO emotions (id, session_key, track_id, track_title, artist, emotion, group_label, tagged_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (session_key, track_id) DO UPDATE SET
			track_title = EXCLUDED.track_title,
			artist = EXCLUDED.artist,
			emotion = EXCLUDED.emotion,
			group_label = EXCLUDED.group_label,
			tagged_at = EXCLUDED.tagged_at
		RETURNING id, tagged_at
	`
	err := r.pool.QueryRow(ctx, query,
		record.ID,
		record.SessionKey,
		record.TrackID,
		record.TrackTitle,
		record.Artist,
		record.Emotion,
		record.GroupLabel,
	).Scan(&record.ID, &record.TaggedAt)
	if err != nil {
		return fmt.Errorf("upserting emotion: %w", err)
	}
	return nil
}

// ListForSession retrieves all emotion records for a session, most recent
// first.
func (r *EmotionRepository) ListForSession(ctx context.Context, sessionKey string) ([]Emotion, error) {
	query := `
		SELECT id, session_key, track_id, track_title, artist, emotion, group_label, tagged_at
		FROM emotions
		WHERE session_key = $1
		ORDER BY tagged_at DESC
	`
	rows, err := r.pool.Query(ctx, query, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("querying emotions: %w", err)
	}
	defer rows.Close()

	return scanEmotions(rows)
}

// ListByGroups retrieves the session's emotion records whose group label
// is a member of the supplied set.
func (r *EmotionRepository) ListByGroups(ctx context.Context, sessionKey string, groups []string) ([]Emotion, error) {
	query := `
		SELECT id, session_key, track_id, track_title, artist, emotion, group_label, tagged_at
		FROM emotions
		WHERE session_key = $1 AND group_label = ANY($2)
	`
	rows, err := r.pool.Query(ctx, query, sessionKey, groups)
	if err != nil {
		return nil, fmt.Errorf("querying emotions by group: %w", err)
	}
	defer rows.Close()

	return scanEmotions(rows)
}

// Delete removes one emotion record by identity. Deleting an absent
// record is a no-op, not an error.
func (r *EmotionRepository) Delete(ctx context.Context, sessionKey string, id uuid.UUID) error {
	query := `DELETE FROM emotions WHERE session_key = $1 AND id = $2`
	_, err := r.pool.Exec(ctx, query, sessionKey, id)
	if err != nil {
		return fmt.Errorf("deleting emotion: %w", err)
	}
	return nil
}

// DeleteAll wipes the session's entire emotion history. A single DELETE
// statement, so readers never observe a partially-deleted collection.
func (r *EmotionRepository) DeleteAll(ctx context.Context, sessionKey string) (int64, error) {
	query := `DELETE FROM emotions WHERE session_key = $1`
	result, err := r.pool.Exec(ctx, query, sessionKey)
	if err != nil {
		return 0, fmt.Errorf("deleting emotions: %w", err)
	}
	return result.RowsAffected(), nil
}

func scanEmotions(rows pgx.Rows) ([]Emotion, error) {
	var records []Emotion
	for rows.Next() {
		var rec Emotion
		if err := rows.Scan(
			&rec.ID,
			&rec.SessionKey,
			&rec.TrackID,
			&rec.TrackTitle,
			&rec.Artist,
			&rec.Emotion,
			&rec.GroupLabel,
			&rec.TaggedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning emotion: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
