package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
)

// MobileSession authenticates a user with auth.getMobileSession and
// returns the issued session. The call is a signed form-encoded POST;
// the session key it returns is the bearer credential for everything
// else the backend does.
func (c *Client) MobileSession(ctx context.Context, username, password string) (*Session, error) {
	body, err := c.postSigned(ctx, map[string]string{
		"method":   "auth.getMobileSession",
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("requesting mobile session: %w", err)
	}

	var resp mobileSessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing mobile session response: %w", err)
	}

	if resp.Session.Key == "" {
		return nil, fmt.Errorf("%w: session key missing", ErrMalformedResponse)
	}

	return &Session{
		Key:  resp.Session.Key,
		Name: resp.Session.Name,
	}, nil
}
