// Package accounts implements the authentication handshake and profile
// operations backed by Last.fm.
package accounts

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/moodfm/moodfm/internal/apperr"
	"github.com/moodfm/moodfm/internal/db"
	"github.com/moodfm/moodfm/internal/lastfm"
)

// SessionStore is the slice of the session repository this service needs.
type SessionStore interface {
	Get(ctx context.Context, sessionKey string) (*db.Session, error)
	Upsert(ctx context.Context, session *db.Session) error
	Delete(ctx context.Context, sessionKey string) error
}

// LastFM abstracts the Last.fm client for testing.
type LastFM interface {
	MobileSession(ctx context.Context, username, password string) (*lastfm.Session, error)
	UserInfo(ctx context.Context, sessionKey string) (*lastfm.UserInfo, error)
	RecentTracks(ctx context.Context, user string, limit int) ([]lastfm.RecentTrack, error)
}

// Service orchestrates Last.fm calls and session persistence.
type Service struct {
	sessions SessionStore
	lastfm   LastFM
	logger   *zap.Logger
}

// NewService creates an accounts service.
func NewService(sessions SessionStore, client LastFM, logger *zap.Logger) *Service {
	return &Service{
		sessions: sessions,
		lastfm:   client,
		logger:   logger,
	}
}

// AuthResult is the outcome of a successful authentication handshake.
type AuthResult struct {
	SessionKey string
	Username   string
}

// Authenticate exchanges credentials for a Last.fm mobile session and
// records it. The returned session key is the sole bearer credential for
// every other operation; it is not re-validated upstream on later calls.
//
// The session write is part of the handshake: a failure after a
// successful upstream call is reported to the caller, never swallowed.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	if username == "" || password == "" {
		return nil, apperr.New(apperr.InvalidArgument, "username and password are required")
	}

	session, err := s.lastfm.MobileSession(ctx, username, password)
	if err != nil {
		return nil, mapUpstreamErr(err, apperr.UpstreamAuthFailed, "authentication failed")
	}

	name := session.Name
	if name == "" {
		name = username
	}
	if err := s.sessions.Upsert(ctx, &db.Session{
		SessionKey: session.Key,
		Username:   &name,
	}); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "recording session", err)
	}

	s.logger.Info("session authenticated",
		zap.String("username", name),
		zap.String("session_key_prefix", keyPrefix(session.Key)),
	)

	return &AuthResult{SessionKey: session.Key, Username: name}, nil
}

// FetchUserInfo refreshes the session's profile from Last.fm and returns
// the user's real name. An empty real name is a valid result for users
// who never set one.
func (s *Service) FetchUserInfo(ctx context.Context, sessionKey string) (string, error) {
	if sessionKey == "" {
		return "", apperr.New(apperr.InvalidArgument, "session key is required")
	}

	info, err := s.lastfm.UserInfo(ctx, sessionKey)
	if err != nil {
		return "", mapUpstreamErr(err, apperr.UpstreamError, "fetching user info failed")
	}

	var realName *string
	if info.RealName != "" {
		realName = &info.RealName
	}
	if err := s.sessions.Upsert(ctx, &db.Session{
		SessionKey: sessionKey,
		Username:   &info.Name,
		RealName:   realName,
	}); err != nil {
		return "", apperr.Wrap(apperr.Internal, "refreshing session", err)
	}

	return info.RealName, nil
}

// EnsureProfile populates the uid-keyed session's real name on first
// login. The lookup and write key is uid while the upstream call
// authenticates with sessionKey; the two may differ and stay decoupled.
// Returns true when the profile was already populated and nothing was
// done.
func (s *Service) EnsureProfile(ctx context.Context, sessionKey, uid string) (bool, error) {
	if sessionKey == "" || uid == "" {
		return false, apperr.New(apperr.InvalidArgument, "session key and uid are required")
	}

	existing, err := s.sessions.Get(ctx, uid)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return false, apperr.Wrap(apperr.Internal, "looking up profile", err)
	}
	if existing != nil && existing.RealName != nil && *existing.RealName != "" {
		return true, nil
	}

	info, err := s.lastfm.UserInfo(ctx, sessionKey)
	if err != nil {
		return false, mapUpstreamErr(err, apperr.UpstreamError, "fetching user info failed")
	}

	var realName *string
	if info.RealName != "" {
		realName = &info.RealName
	}
	// Merge write: Upsert materializes the row with a creation timestamp
	// when absent and leaves unrelated fields untouched when present.
	if err := s.sessions.Upsert(ctx, &db.Session{
		SessionKey: uid,
		RealName:   realName,
	}); err != nil {
		return false, apperr.Wrap(apperr.Internal, "writing profile", err)
	}

	return false, nil
}

// DeleteAccount removes the session and, through the store's cascade, the
// emotion records and playlists it owns. Deleting an unknown session is a
// no-op.
func (s *Service) DeleteAccount(ctx context.Context, sessionKey string) error {
	if sessionKey == "" {
		return apperr.New(apperr.InvalidArgument, "session key is required")
	}

	err := s.sessions.Delete(ctx, sessionKey)
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperr.Wrap(apperr.Internal, "deleting account", err)
	}

	s.logger.Info("account deleted",
		zap.String("session_key_prefix", keyPrefix(sessionKey)),
	)
	return nil
}

// RecentTracks returns the listening history for the user behind the
// session key. The username comes from the stored session when present;
// otherwise it is resolved upstream first, which also materializes the
// session row.
func (s *Service) RecentTracks(ctx context.Context, sessionKey string, limit int) ([]lastfm.RecentTrack, error) {
	if sessionKey == "" {
		return nil, apperr.New(apperr.InvalidArgument, "session key is required")
	}

	var username string
	session, err := s.sessions.Get(ctx, sessionKey)
	if err == nil && session.Username != nil {
		username = *session.Username
	} else {
		if _, err := s.FetchUserInfo(ctx, sessionKey); err != nil {
			return nil, err
		}
		session, err = s.sessions.Get(ctx, sessionKey)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "loading session", err)
		}
		if session.Username == nil {
			return nil, apperr.New(apperr.UpstreamProtocolError, "no username on file for session")
		}
		username = *session.Username
	}

	tracks, err := s.lastfm.RecentTracks(ctx, username, limit)
	if err != nil {
		return nil, mapUpstreamErr(err, apperr.UpstreamError, "fetching recent tracks failed")
	}
	return tracks, nil
}

// mapUpstreamErr converts a Last.fm client error into the matching
// taxonomy kind: error envelopes get envelopeKind with the upstream
// message passed through, malformed success envelopes become protocol
// errors.
func mapUpstreamErr(err error, envelopeKind apperr.Kind, fallback string) error {
	var apiErr *lastfm.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		return apperr.Wrap(envelopeKind, msg, err)
	}
	if errors.Is(err, lastfm.ErrMalformedResponse) {
		return apperr.Wrap(apperr.UpstreamProtocolError, "unexpected response from Last.fm", err)
	}
	return apperr.Wrap(apperr.UpstreamError, fallback, err)
}

// keyPrefix truncates a session key for logging; the full credential
// never reaches the logs.
func keyPrefix(key string) string {
	if len(key) <= 6 {
		return key
	}
	return fmt.Sprintf("%s…", key[:6])
}
