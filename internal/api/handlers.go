package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/moodfm/moodfm/internal/accounts"
	"github.com/moodfm/moodfm/internal/apperr"
	"github.com/moodfm/moodfm/internal/db"
	"github.com/moodfm/moodfm/internal/emotions"
	"github.com/moodfm/moodfm/internal/moods"
	"github.com/moodfm/moodfm/internal/playlists"
	"github.com/moodfm/moodfm/internal/tracks"
)

// Handlers contains the HTTP handlers for the backend API.
type Handlers struct {
	accounts  *accounts.Service
	emotions  *emotions.Service
	playlists *playlists.Service
	tracks    *tracks.Service
	logger    *zap.Logger
}

// NewHandlers creates a Handlers instance.
func NewHandlers(
	accountsSvc *accounts.Service,
	emotionsSvc *emotions.Service,
	playlistsSvc *playlists.Service,
	tracksSvc *tracks.Service,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		accounts:  accountsSvc,
		emotions:  emotionsSvc,
		playlists: playlistsSvc,
		tracks:    tracksSvc,
		logger:    logger,
	}
}

// emotionPayload is the wire shape of one emotion record. Timestamps are
// milliseconds since epoch.
type emotionPayload struct {
	ID         string `json:"id"`
	TrackID    string `json:"trackId"`
	TrackTitle string `json:"trackTitle"`
	Artist     string `json:"artist"`
	Emotion    string `json:"emotion"`
	Group      string `json:"group,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

func toEmotionPayload(rec db.Emotion) emotionPayload {
	p := emotionPayload{
		ID:         rec.ID.String(),
		TrackID:    rec.TrackID,
		TrackTitle: rec.TrackTitle,
		Artist:     rec.Artist,
		Emotion:    rec.Emotion,
		Timestamp:  rec.TaggedAt.UnixMilli(),
	}
	if rec.GroupLabel != nil {
		p.Group = *rec.GroupLabel
	}
	return p
}

// playlistPayload is the wire shape of one playlist.
type playlistPayload struct {
	ID        string            `json:"id"`
	Name      string            `json:"name,omitempty"`
	Group     string            `json:"group"`
	Emotions  []string          `json:"emotions"`
	Songs     []db.PlaylistSong `json:"songs"`
	CreatedAt int64             `json:"createdAt"`
}

func toPlaylistPayload(p db.Playlist) playlistPayload {
	return playlistPayload{
		ID:        p.ID.String(),
		Name:      p.Name,
		Group:     p.GroupLabel,
		Emotions:  p.Emotions,
		Songs:     p.Songs,
		CreatedAt: p.CreatedAt.UnixMilli(),
	}
}

// Authenticate handles POST /v1/auth/session.
func (h *Handlers) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, "authenticate", err)
		return
	}

	result, err := h.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.logger, "authenticate", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"sessionKey": result.SessionKey,
		"username":   result.Username,
	})
}

// UserInfo handles GET /v1/user/info.
func (h *Handlers) UserInfo(w http.ResponseWriter, r *http.Request) {
	realName, err := h.accounts.FetchUserInfo(r.Context(), sessionKey(r))
	if err != nil {
		writeError(w, h.logger, "fetch_user_info", err)
		return
	}

	resp := struct {
		RealName string `json:"realname,omitempty"`
	}{RealName: realName}
	writeJSON(w, http.StatusOK, resp)
}

// EnsureProfile handles POST /v1/user/profile.
func (h *Handlers) EnsureProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionKey string `json:"sessionKey"`
		UID        string `json:"uid"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, "ensure_profile", err)
		return
	}

	alreadyExists, err := h.accounts.EnsureProfile(r.Context(), req.SessionKey, req.UID)
	if err != nil {
		writeError(w, h.logger, "ensure_profile", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"alreadyExists": alreadyExists})
}

// DeleteAccount handles DELETE /v1/user.
func (h *Handlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.DeleteAccount(r.Context(), sessionKey(r)); err != nil {
		writeError(w, h.logger, "delete_account", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecentTracks handles GET /v1/user/recent.
func (h *Handlers) RecentTracks(w http.ResponseWriter, r *http.Request) {
	recent, err := h.accounts.RecentTracks(r.Context(), sessionKey(r), 0)
	if err != nil {
		writeError(w, h.logger, "recent_tracks", err)
		return
	}

	type trackPayload struct {
		Name       string `json:"name"`
		Artist     string `json:"artist"`
		Album      string `json:"album,omitempty"`
		NowPlaying bool   `json:"nowPlaying,omitempty"`
	}
	payload := make([]trackPayload, len(recent))
	for i, t := range recent {
		payload[i] = trackPayload{
			Name:       t.Name,
			Artist:     t.Artist,
			Album:      t.Album,
			NowPlaying: t.NowPlaying,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tracks": payload})
}

// TagTrack handles POST /v1/emotions.
func (h *Handlers) TagTrack(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionKey string `json:"sessionKey"`
		TrackID    string `json:"trackId"`
		TrackTitle string `json:"trackTitle"`
		Artist     string `json:"artist"`
		Emotion    string `json:"emotion"`
		Group      string `json:"group"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, "tag_track", err)
		return
	}
	if req.SessionKey == "" {
		req.SessionKey = sessionKey(r)
	}

	record, err := h.emotions.TagTrack(r.Context(), emotions.TagRequest{
		SessionKey: req.SessionKey,
		TrackID:    req.TrackID,
		TrackTitle: req.TrackTitle,
		Artist:     req.Artist,
		Emotion:    req.Emotion,
		Group:      req.Group,
	})
	if err != nil {
		writeError(w, h.logger, "tag_track", err)
		return
	}

	writeJSON(w, http.StatusOK, toEmotionPayload(*record))
}

// ListEmotions handles GET /v1/emotions.
func (h *Handlers) ListEmotions(w http.ResponseWriter, r *http.Request) {
	records, err := h.emotions.List(r.Context(), sessionKey(r))
	if err != nil {
		writeError(w, h.logger, "list_emotions", err)
		return
	}

	payload := make([]emotionPayload, len(records))
	for i, rec := range records {
		payload[i] = toEmotionPayload(rec)
	}
	writeJSON(w, http.StatusOK, map[string]any{"emotions": payload})
}

// DeleteEmotion handles DELETE /v1/emotions/{id}.
func (h *Handlers) DeleteEmotion(w http.ResponseWriter, r *http.Request) {
	err := h.emotions.DeleteOne(r.Context(), sessionKey(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "delete_emotion", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAllEmotions handles DELETE /v1/emotions.
func (h *Handlers) DeleteAllEmotions(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.emotions.DeleteAll(r.Context(), sessionKey(r))
	if err != nil {
		writeError(w, h.logger, "delete_all_emotions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

// BuildPlaylist handles POST /v1/playlists.
func (h *Handlers) BuildPlaylist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionKey string   `json:"sessionKey"`
		Group      string   `json:"group"`
		Name       string   `json:"name"`
		Emotions   []string `json:"emotions"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, "build_playlist", err)
		return
	}
	if req.SessionKey == "" {
		req.SessionKey = sessionKey(r)
	}

	id, err := h.playlists.Build(r.Context(), playlists.BuildRequest{
		SessionKey: req.SessionKey,
		Group:      req.Group,
		Name:       req.Name,
		Emotions:   req.Emotions,
	})
	if err != nil {
		writeError(w, h.logger, "build_playlist", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"playlistId": id.String()})
}

// ListPlaylists handles GET /v1/playlists.
func (h *Handlers) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.playlists.List(r.Context(), sessionKey(r))
	if err != nil {
		writeError(w, h.logger, "list_playlists", err)
		return
	}

	payload := make([]playlistPayload, len(lists))
	for i, p := range lists {
		payload[i] = toPlaylistPayload(p)
	}
	writeJSON(w, http.StatusOK, map[string]any{"playlists": payload})
}

// GetPlaylist handles GET /v1/playlists/{id}.
func (h *Handlers) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.playlists.Get(r.Context(), sessionKey(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "get_playlist", err)
		return
	}
	writeJSON(w, http.StatusOK, toPlaylistPayload(*playlist))
}

// SearchTracks handles GET /v1/tracks/search.
func (h *Handlers) SearchTracks(w http.ResponseWriter, r *http.Request) {
	results, err := h.tracks.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, h.logger, "search_tracks", err)
		return
	}

	type resultPayload struct {
		Name               string `json:"name"`
		Artist             string `json:"artist"`
		URL                string `json:"url,omitempty"`
		ArtworkURL         string `json:"artworkUrl,omitempty"`
		ArtworkUnavailable bool   `json:"artworkUnavailable,omitempty"`
	}
	payload := make([]resultPayload, len(results))
	for i, res := range results {
		payload[i] = resultPayload{
			Name:               res.Name,
			Artist:             res.Artist,
			URL:                res.URL,
			ArtworkURL:         res.ArtworkURL,
			ArtworkUnavailable: res.ArtworkUnavailable,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": payload})
}

// MoodSuggestions handles GET /v1/moods/suggestions.
func (h *Handlers) MoodSuggestions(w http.ResponseWriter, r *http.Request) {
	records, err := h.emotions.List(r.Context(), sessionKey(r))
	if err != nil {
		writeError(w, h.logger, "mood_suggestions", err)
		return
	}

	suggestions, err := moods.Suggest(records, moods.DefaultConfig())
	if err != nil {
		writeError(w, h.logger, "mood_suggestions", apperr.Wrap(apperr.Internal, "clustering emotions", err))
		return
	}
	if suggestions == nil {
		suggestions = []moods.Suggestion{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}
