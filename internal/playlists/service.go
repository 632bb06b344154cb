// Package playlists derives immutable playlists from stored emotion
// records.
package playlists

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moodfm/moodfm/internal/apperr"
	"github.com/moodfm/moodfm/internal/db"
)

// EmotionStore is the read slice of the emotion repository the builder
// needs.
type EmotionStore interface {
	ListByGroups(ctx context.Context, sessionKey string, groups []string) ([]db.Emotion, error)
}

// Store is the slice of the playlist repository this service needs.
type Store interface {
	Create(ctx context.Context, playlist *db.Playlist) error
	Get(ctx context.Context, sessionKey string, id uuid.UUID) (*db.Playlist, error)
	ListForSession(ctx context.Context, sessionKey string) ([]db.Playlist, error)
}

// Service builds and retrieves playlists.
type Service struct {
	store    Store
	emotions EmotionStore
	logger   *zap.Logger
}

// NewService creates a playlists service.
func NewService(store Store, emotions EmotionStore, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		emotions: emotions,
		logger:   logger,
	}
}

// BuildRequest is the input for Build.
type BuildRequest struct {
	SessionKey string
	Group      string
	Name       string   // optional display name
	Emotions   []string // label filter, set membership over group_label
}

// Build snapshots the session's emotion records whose group label is in
// the filter set into a new playlist and returns its store-generated ID.
// An empty result set is an error, not an empty playlist.
func (s *Service) Build(ctx context.Context, req BuildRequest) (uuid.UUID, error) {
	if req.SessionKey == "" || req.Group == "" || len(req.Emotions) == 0 {
		return uuid.Nil, apperr.New(apperr.InvalidArgument, "sessionKey, group and a non-empty emotions list are required")
	}

	records, err := s.emotions.ListByGroups(ctx, req.SessionKey, req.Emotions)
	if err != nil {
		return uuid.Nil, apperr.Wrap(apperr.Internal, "querying emotions", err)
	}
	if len(records) == 0 {
		return uuid.Nil, apperr.New(apperr.NoMatchingRecords, "no emotion records match the requested labels")
	}

	songs := make([]db.PlaylistSong, len(records))
	for i, rec := range records {
		songs[i] = db.PlaylistSong{
			TrackID:    rec.TrackID,
			TrackTitle: rec.TrackTitle,
			Artist:     rec.Artist,
			Emotion:    rec.Emotion,
		}
	}

	playlist := &db.Playlist{
		SessionKey: req.SessionKey,
		Name:       req.Name,
		GroupLabel: req.Group,
		Emotions:   req.Emotions,
		Songs:      songs,
	}
	if err := s.store.Create(ctx, playlist); err != nil {
		return uuid.Nil, apperr.Wrap(apperr.Internal, "storing playlist", err)
	}

	s.logger.Info("playlist built",
		zap.String("playlist_id", playlist.ID.String()),
		zap.Int("songs", len(songs)),
	)
	return playlist.ID, nil
}

// Get retrieves one of the session's playlists by ID.
func (s *Service) Get(ctx context.Context, sessionKey, playlistID string) (*db.Playlist, error) {
	if sessionKey == "" {
		return nil, apperr.New(apperr.InvalidArgument, "session key is required")
	}
	id, err := uuid.Parse(playlistID)
	if err != nil {
		return nil, apperr.New(apperr.InvalidArgument, "invalid playlist id")
	}

	playlist, err := s.store.Get(ctx, sessionKey, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "playlist not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "querying playlist", err)
	}
	return playlist, nil
}

// List returns the session's playlists, newest first.
func (s *Service) List(ctx context.Context, sessionKey string) ([]db.Playlist, error) {
	if sessionKey == "" {
		return nil, apperr.New(apperr.InvalidArgument, "session key is required")
	}

	playlists, err := s.store.ListForSession(ctx, sessionKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "listing playlists", err)
	}
	if playlists == nil {
		playlists = []db.Playlist{}
	}
	return playlists, nil
}
