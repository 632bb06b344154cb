package db

import (
	"time"

	"github.com/google/uuid"
)

// Session is the per-user document keyed by the Last.fm session key. The
// key is issued by Last.fm and never regenerated here.
type Session struct {
	SessionKey string
	Username   *string // nullable, last-write-wins
	RealName   *string // nullable, last-write-wins
	LastLogin  time.Time
	CreatedAt  time.Time
}

// Emotion is a user's emotional label attached to one track. At most one
// row exists per (session_key, track_id); re-tagging updates in place.
type Emotion struct {
	ID         uuid.UUID
	SessionKey string
	TrackID    string
	TrackTitle string
	Artist     string
	Emotion    string
	GroupLabel *string // optional secondary label
	TaggedAt   time.Time
}

// Playlist is an immutable snapshot of emotion records matching a label
// group at build time, not a live view.
type Playlist struct {
	ID         uuid.UUID
	SessionKey string
	Name       string
	GroupLabel string
	Emotions   []string
	Songs      []PlaylistSong
	CreatedAt  time.Time
}

// PlaylistSong is one snapshotted track inside a playlist. Stored as
// JSONB; the json tags are the wire format.
type PlaylistSong struct {
	TrackID    string `json:"trackId"`
	TrackTitle string `json:"trackTitle"`
	Artist     string `json:"artist"`
	Emotion    string `json:"emotion"`
}
