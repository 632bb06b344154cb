package lastfm

import "encoding/json"

// Session is the mobile session issued by auth.getMobileSession.
type Session struct {
	Key  string
	Name string
}

// UserInfo is the profile slice of user.getInfo the backend cares about.
type UserInfo struct {
	Name     string
	RealName string
}

// RecentTrack is one entry from user.getRecentTracks.
type RecentTrack struct {
	Name       string
	Artist     string
	Album      string
	NowPlaying bool
}

// TrackMatch is one entry from track.search.
type TrackMatch struct {
	Name     string
	Artist   string
	URL      string
	ImageURL string
}

// TrackInfo is the slice of track.getInfo used for artwork enrichment.
type TrackInfo struct {
	Name     string
	Artist   string
	Album    string
	ImageURL string
}

// apiErrorEnvelope is the JSON error response shared by every endpoint.
// A non-success result is indicated by a numeric error field; it must be
// checked before parsing any success payload.
type apiErrorEnvelope struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// parseErrorEnvelope returns an *APIError if body is an error envelope,
// nil otherwise. Bodies that are not JSON objects are left for the
// success-path parser to reject.
func parseErrorEnvelope(body []byte) *APIError {
	var env apiErrorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	if env.Error == 0 {
		return nil
	}
	return &APIError{Code: env.Error, Message: env.Message}
}

// image is Last.fm's artwork list entry; entries are ordered small to
// large.
type image struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}

// largestImage picks the biggest non-empty artwork URL.
func largestImage(images []image) string {
	for i := len(images) - 1; i >= 0; i-- {
		if images[i].URL != "" {
			return images[i].URL
		}
	}
	return ""
}

// mobileSessionResponse is the JSON response for auth.getMobileSession.
type mobileSessionResponse struct {
	Session struct {
		Name       string `json:"name"`
		Key        string `json:"key"`
		Subscriber int    `json:"subscriber"`
	} `json:"session"`
}

// userInfoResponse is the JSON response for user.getInfo.
type userInfoResponse struct {
	User struct {
		Name     string `json:"name"`
		RealName string `json:"realname"`
	} `json:"user"`
}

// recentTracksResponse is the JSON response for user.getRecentTracks.
type recentTracksResponse struct {
	RecentTracks struct {
		Track []struct {
			Name   string `json:"name"`
			Artist struct {
				Name string `json:"#text"`
			} `json:"artist"`
			Album struct {
				Name string `json:"#text"`
			} `json:"album"`
			Attr struct {
				NowPlaying string `json:"nowplaying"`
			} `json:"@attr"`
		} `json:"track"`
	} `json:"recenttracks"`
}

// trackSearchResponse is the JSON response for track.search.
type trackSearchResponse struct {
	Results struct {
		TrackMatches struct {
			Track []struct {
				Name   string  `json:"name"`
				Artist string  `json:"artist"`
				URL    string  `json:"url"`
				Image  []image `json:"image"`
			} `json:"track"`
		} `json:"trackmatches"`
	} `json:"results"`
}

// trackInfoResponse is the JSON response for track.getInfo.
type trackInfoResponse struct {
	Track struct {
		Name   string `json:"name"`
		Artist struct {
			Name string `json:"name"`
		} `json:"artist"`
		Album struct {
			Title string  `json:"title"`
			Image []image `json:"image"`
		} `json:"album"`
	} `json:"track"`
}
