package lastfm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		APIKey:    "key123",
		APISecret: "secret456",
		BaseURL:   server.URL,
	})
}

func TestMobileSession(t *testing.T) {
	var gotParams map[string]string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}

		gotParams = make(map[string]string)
		for k := range r.PostForm {
			gotParams[k] = r.PostForm.Get(k)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"session": map[string]any{
				"name":       "alice",
				"key":        "SK1",
				"subscriber": 0,
			},
		})
	})

	session, err := client.MobileSession(context.Background(), "alice", "pw1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Key != "SK1" {
		t.Errorf("session key = %q, want %q", session.Key, "SK1")
	}
	if session.Name != "alice" {
		t.Errorf("session name = %q, want %q", session.Name, "alice")
	}

	// The server must be able to recompute the signature from the signed
	// parameters (everything except api_sig and format).
	sig := gotParams["api_sig"]
	if sig == "" {
		t.Fatal("request missing api_sig")
	}
	delete(gotParams, "api_sig")
	delete(gotParams, "format")
	if want := Sign(gotParams, "secret456"); sig != want {
		t.Errorf("api_sig = %q, want %q", sig, want)
	}

	if gotParams["method"] != "auth.getMobileSession" {
		t.Errorf("method param = %q, want auth.getMobileSession", gotParams["method"])
	}
	if gotParams["password"] != "pw1" {
		t.Errorf("password param = %q, want pw1", gotParams["password"])
	}
}

func TestMobileSession_ErrorEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":   4,
			"message": "Authentication Failed",
		})
	})

	_, err := client.MobileSession(context.Background(), "alice", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Code != ErrCodeAuthenticationFailed {
		t.Errorf("code = %d, want %d", apiErr.Code, ErrCodeAuthenticationFailed)
	}
	if apiErr.Message != "Authentication Failed" {
		t.Errorf("message = %q, want %q", apiErr.Message, "Authentication Failed")
	}
}

func TestMobileSession_MissingKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"session": map[string]any{"name": "alice"},
		})
	})

	_, err := client.MobileSession(context.Background(), "alice", "pw1")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestUserInfo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("method") != "user.getInfo" {
			t.Errorf("method = %q, want user.getInfo", q.Get("method"))
		}
		if q.Get("sk") != "SK1" {
			t.Errorf("sk = %q, want SK1", q.Get("sk"))
		}
		if q.Get("api_sig") == "" {
			t.Error("request missing api_sig")
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{
				"name":     "alice",
				"realname": "Alice Example",
			},
		})
	})

	info, err := client.UserInfo(context.Background(), "SK1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Name != "alice" || info.RealName != "Alice Example" {
		t.Errorf("info = %+v, want alice / Alice Example", info)
	}
}

func TestUserInfo_NoRealName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"name": "bob"},
		})
	})

	info, err := client.UserInfo(context.Background(), "SK2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Absent realname is a valid result, not an error.
	if info.RealName != "" {
		t.Errorf("realname = %q, want empty", info.RealName)
	}
}

func TestSearchTracks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("track"); got != "creep" {
			t.Errorf("track = %q, want creep", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": map[string]any{
				"trackmatches": map[string]any{
					"track": []map[string]any{
						{
							"name":   "Creep",
							"artist": "Radiohead",
							"url":    "https://last.fm/music/Radiohead/_/Creep",
							"image": []map[string]string{
								{"#text": "small.png", "size": "small"},
								{"#text": "large.png", "size": "large"},
							},
						},
						{"name": "Creep (Acoustic)", "artist": "Radiohead"},
					},
				},
			},
		})
	})

	matches, err := client.SearchTracks(context.Background(), "creep", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}
	if matches[0].ImageURL != "large.png" {
		t.Errorf("image = %q, want largest entry", matches[0].ImageURL)
	}
	if matches[1].ImageURL != "" {
		t.Errorf("image = %q, want empty", matches[1].ImageURL)
	}
}

func TestTrackInfo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"track": map[string]any{
				"name":   "Creep",
				"artist": map[string]any{"name": "Radiohead"},
				"album": map[string]any{
					"title": "Pablo Honey",
					"image": []map[string]string{
						{"#text": "cover-small.png", "size": "small"},
						{"#text": "cover-xl.png", "size": "extralarge"},
					},
				},
			},
		})
	})

	info, err := client.TrackInfo(context.Background(), "Radiohead", "Creep")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Album != "Pablo Honey" {
		t.Errorf("album = %q, want Pablo Honey", info.Album)
	}
	if info.ImageURL != "cover-xl.png" {
		t.Errorf("image = %q, want cover-xl.png", info.ImageURL)
	}
}

func TestRecentTracks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("user"); got != "alice" {
			t.Errorf("user = %q, want alice", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"recenttracks": map[string]any{
				"track": []map[string]any{
					{
						"name":   "Creep",
						"artist": map[string]string{"#text": "Radiohead"},
						"album":  map[string]string{"#text": "Pablo Honey"},
						"@attr":  map[string]string{"nowplaying": "true"},
					},
					{
						"name":   "Karma Police",
						"artist": map[string]string{"#text": "Radiohead"},
						"album":  map[string]string{"#text": "OK Computer"},
					},
				},
			},
		})
	})

	tracks, err := client.RecentTracks(context.Background(), "alice", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("len(tracks) = %d, want 2", len(tracks))
	}
	if !tracks[0].NowPlaying {
		t.Error("first track should be now playing")
	}
	if tracks[1].Artist != "Radiohead" {
		t.Errorf("artist = %q, want Radiohead", tracks[1].Artist)
	}
}

func TestErrorEnvelope_OnGet(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":   10,
			"message": "Invalid API key",
		})
	})

	_, err := client.SearchTracks(context.Background(), "anything", 0)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Code != ErrCodeInvalidAPIKey {
		t.Errorf("code = %d, want %d", apiErr.Code, ErrCodeInvalidAPIKey)
	}
}
