// Package emotions implements per-track emotion tagging for a session.
package emotions

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moodfm/moodfm/internal/apperr"
	"github.com/moodfm/moodfm/internal/db"
)

// Store is the slice of the emotion repository this service needs.
type Store interface {
	Upsert(ctx context.Context, record *db.Emotion) error
	ListForSession(ctx context.Context, sessionKey string) ([]db.Emotion, error)
	Delete(ctx context.Context, sessionKey string, id uuid.UUID) error
	DeleteAll(ctx context.Context, sessionKey string) (int64, error)
}

// SessionStore materializes session rows for keys that never hit the
// authentication handshake on this backend.
type SessionStore interface {
	EnsureExists(ctx context.Context, sessionKey string) error
}

// Service handles emotion record operations.
type Service struct {
	store    Store
	sessions SessionStore
	logger   *zap.Logger
}

// NewService creates an emotions service.
func NewService(store Store, sessions SessionStore, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		sessions: sessions,
		logger:   logger,
	}
}

// TagRequest is the input for TagTrack.
type TagRequest struct {
	SessionKey string
	TrackID    string
	TrackTitle string
	Artist     string
	Emotion    string
	Group      string // optional
}

// TagTrack attaches an emotional label to a track, updating the existing
// record in place when the track was tagged before. Re-invoking after a
// timeout is self-correcting because the write re-resolves by track ID.
func (s *Service) TagTrack(ctx context.Context, req TagRequest) (*db.Emotion, error) {
	if req.SessionKey == "" || req.TrackID == "" || req.TrackTitle == "" || req.Artist == "" || req.Emotion == "" {
		return nil, apperr.New(apperr.InvalidArgument, "sessionKey, trackId, trackTitle, artist and emotion are required")
	}

	if err := s.sessions.EnsureExists(ctx, req.SessionKey); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "materializing session", err)
	}

	record := &db.Emotion{
		SessionKey: req.SessionKey,
		TrackID:    req.TrackID,
		TrackTitle: req.TrackTitle,
		Artist:     req.Artist,
		Emotion:    req.Emotion,
	}
	if req.Group != "" {
		record.GroupLabel = &req.Group
	}

	if err := s.store.Upsert(ctx, record); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "storing emotion", err)
	}

	s.logger.Debug("track tagged",
		zap.String("track_id", req.TrackID),
		zap.String("emotion", req.Emotion),
	)
	return record, nil
}

// List returns the session's emotion records, most recent first. A
// session with no tags yields an empty list; the session row itself is
// materialized as a side effect so resumed sessions get a document
// without re-authenticating here.
func (s *Service) List(ctx context.Context, sessionKey string) ([]db.Emotion, error) {
	if sessionKey == "" {
		return nil, apperr.New(apperr.InvalidArgument, "session key is required")
	}

	if err := s.sessions.EnsureExists(ctx, sessionKey); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "materializing session", err)
	}

	records, err := s.store.ListForSession(ctx, sessionKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "listing emotions", err)
	}
	if records == nil {
		records = []db.Emotion{}
	}
	return records, nil
}

// DeleteOne removes a single emotion record by identity. Deleting an
// absent record succeeds.
func (s *Service) DeleteOne(ctx context.Context, sessionKey, recordID string) error {
	if sessionKey == "" {
		return apperr.New(apperr.InvalidArgument, "session key is required")
	}
	id, err := uuid.Parse(recordID)
	if err != nil {
		return apperr.New(apperr.InvalidArgument, "invalid record id")
	}

	if err := s.store.Delete(ctx, sessionKey, id); err != nil {
		return apperr.Wrap(apperr.Internal, "deleting emotion", err)
	}
	return nil
}

// DeleteAll wipes the session's emotion history and reports how many
// records were removed.
func (s *Service) DeleteAll(ctx context.Context, sessionKey string) (int64, error) {
	if sessionKey == "" {
		return 0, apperr.New(apperr.InvalidArgument, "session key is required")
	}

	deleted, err := s.store.DeleteAll(ctx, sessionKey)
	if err != nil {
		return 0, apperr.Wrap(apperr.Internal, "deleting emotions", err)
	}

	s.logger.Info("emotion history wiped", zap.Int64("deleted", deleted))
	return deleted, nil
}
