// Package tracks implements track search with best-effort artwork
// enrichment.
package tracks

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/moodfm/moodfm/internal/apperr"
	"github.com/moodfm/moodfm/internal/lastfm"
)

// Default concurrency for per-track enrichment lookups.
const DefaultConcurrency = 5

// Default number of matches requested from track.search.
const defaultSearchLimit = 20

// Searcher abstracts the Last.fm client for testing.
type Searcher interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]lastfm.TrackMatch, error)
	TrackInfo(ctx context.Context, artist, track string) (*lastfm.TrackInfo, error)
}

// Result is one enriched search match. ArtworkUnavailable is set when the
// per-track info lookup failed; the match itself is still returned.
type Result struct {
	Name               string
	Artist             string
	URL                string
	ArtworkURL         string
	ArtworkUnavailable bool
}

// Service performs track search against Last.fm.
type Service struct {
	client      Searcher
	concurrency int
	logger      *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithConcurrency sets the number of concurrent enrichment lookups.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService creates a tracks service.
func NewService(client Searcher, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		client:      client,
		concurrency: DefaultConcurrency,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search queries Last.fm for tracks and enriches each match with album
// artwork via a secondary track.getInfo lookup. Enrichment runs
// concurrently but results keep the order the search returned them in,
// and one track's failed lookup never affects its siblings or the search
// as a whole.
func (s *Service) Search(ctx context.Context, query string) ([]Result, error) {
	if query == "" {
		return nil, apperr.New(apperr.InvalidArgument, "query is required")
	}

	matches, err := s.client.SearchTracks(ctx, query, defaultSearchLimit)
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamError, "track search failed", err)
	}
	if len(matches) == 0 {
		return []Result{}, nil
	}

	results := make([]Result, len(matches))

	type workItem struct {
		index int
		match lastfm.TrackMatch
	}
	workCh := make(chan workItem, len(matches))
	for i, m := range matches {
		workCh <- workItem{index: i, match: m}
	}
	close(workCh)

	var wg sync.WaitGroup
	workers := s.concurrency
	if workers > len(matches) {
		workers = len(matches)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workCh {
				results[item.index] = s.enrich(ctx, item.match)
			}
		}()
	}
	wg.Wait()

	return results, nil
}

// enrich resolves artwork for one match. Failures are recorded on the
// item, not returned.
func (s *Service) enrich(ctx context.Context, match lastfm.TrackMatch) Result {
	result := Result{
		Name:       match.Name,
		Artist:     match.Artist,
		URL:        match.URL,
		ArtworkURL: match.ImageURL,
	}

	info, err := s.client.TrackInfo(ctx, match.Artist, match.Name)
	if err != nil {
		s.logger.Warn("artwork lookup failed",
			zap.String("artist", match.Artist),
			zap.String("track", match.Name),
			zap.Error(err),
		)
		if result.ArtworkURL == "" {
			result.ArtworkUnavailable = true
		}
		return result
	}

	if info.ImageURL != "" {
		result.ArtworkURL = info.ImageURL
	}
	if result.ArtworkURL == "" {
		result.ArtworkUnavailable = true
	}
	return result
}
