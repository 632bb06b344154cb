package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// SearchTracks queries track.search and returns matches in the order the
// API produced them. limit <= 0 falls back to the API default.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]TrackMatch, error) {
	params := url.Values{
		"method": {"track.search"},
		"track":  {query},
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("searching tracks: %w", err)
	}

	var resp trackSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing track search response: %w", err)
	}

	matches := make([]TrackMatch, 0, len(resp.Results.TrackMatches.Track))
	for _, t := range resp.Results.TrackMatches.Track {
		matches = append(matches, TrackMatch{
			Name:     t.Name,
			Artist:   t.Artist,
			URL:      t.URL,
			ImageURL: largestImage(t.Image),
		})
	}
	return matches, nil
}

// TrackInfo fetches metadata for one track via track.getInfo. The search
// flow uses it to enrich results with album artwork; search results carry
// no usable images of their own.
func (c *Client) TrackInfo(ctx context.Context, artist, track string) (*TrackInfo, error) {
	params := url.Values{
		"method":      {"track.getInfo"},
		"artist":      {artist},
		"track":       {track},
		"autocorrect": {"1"},
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetching track info: %w", err)
	}

	var resp trackInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing track info response: %w", err)
	}

	return &TrackInfo{
		Name:     resp.Track.Name,
		Artist:   resp.Track.Artist.Name,
		Album:    resp.Track.Album.Title,
		ImageURL: largestImage(resp.Track.Album.Image),
	}, nil
}
