package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// UserInfo fetches the profile for the user behind a session key via
// user.getInfo. Both the standalone user-info endpoint and first-login
// enrichment go through this one call; there is deliberately no second
// parsing path.
func (c *Client) UserInfo(ctx context.Context, sessionKey string) (*UserInfo, error) {
	body, err := c.getSigned(ctx, map[string]string{
		"method": "user.getInfo",
		"sk":     sessionKey,
	})
	if err != nil {
		return nil, fmt.Errorf("requesting user info: %w", err)
	}

	var resp userInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing user info response: %w", err)
	}

	if resp.User.Name == "" {
		return nil, fmt.Errorf("%w: user name missing", ErrMalformedResponse)
	}

	// RealName is legitimately absent for users who never set one.
	return &UserInfo{
		Name:     resp.User.Name,
		RealName: resp.User.RealName,
	}, nil
}

// RecentTracks fetches a user's listening history via
// user.getRecentTracks. limit <= 0 falls back to the API default.
func (c *Client) RecentTracks(ctx context.Context, user string, limit int) ([]RecentTrack, error) {
	params := url.Values{
		"method": {"user.getRecentTracks"},
		"user":   {user},
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("requesting recent tracks: %w", err)
	}

	var resp recentTracksResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing recent tracks response: %w", err)
	}

	tracks := make([]RecentTrack, 0, len(resp.RecentTracks.Track))
	for _, t := range resp.RecentTracks.Track {
		tracks = append(tracks, RecentTrack{
			Name:       t.Name,
			Artist:     t.Artist.Name,
			Album:      t.Album.Name,
			NowPlaying: t.Attr.NowPlaying == "true",
		})
	}
	return tracks, nil
}
