// Package moods groups a session's emotion records into suggested
// playlist groupings using k-means over a fixed valence/arousal lexicon.
package moods

import (
	"fmt"
	"sort"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/moodfm/moodfm/internal/db"
)

// Config holds clustering parameters.
type Config struct {
	NumClusters int // default 3
}

// DefaultConfig returns the recommended defaults.
func DefaultConfig() Config {
	return Config{NumClusters: 3}
}

// Suggestion is one proposed playlist grouping.
type Suggestion struct {
	Name     string   `json:"name"`     // e.g. "Upbeat"
	Emotions []string `json:"emotions"` // distinct emotion labels in the cluster
	TrackIDs []string `json:"trackIds"` // member tracks
}

// recordObservation wraps an emotion record to implement
// clusters.Observation.
type recordObservation struct {
	record *db.Emotion
	coords clusters.Coordinates
}

func (o recordObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o recordObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// Suggest clusters the records by the valence/arousal position of their
// emotion label. Fewer records than clusters yields a single grouping
// covering everything rather than degenerate one-track clusters.
func Suggest(records []db.Emotion, cfg Config) ([]Suggestion, error) {
	if len(records) == 0 {
		return nil, nil
	}
	if cfg.NumClusters <= 0 {
		cfg.NumClusters = DefaultConfig().NumClusters
	}

	if len(records) < cfg.NumClusters {
		return []Suggestion{collect(records)}, nil
	}

	observations := make(clusters.Observations, len(records))
	for i := range records {
		c := locate(records[i].Emotion)
		observations[i] = recordObservation{
			record: &records[i],
			coords: clusters.Coordinates{c.Valence, c.Arousal},
		}
	}

	km := kmeans.New()
	result, err := km.Partition(observations, cfg.NumClusters)
	if err != nil {
		return nil, fmt.Errorf("partitioning records: %w", err)
	}

	suggestions := make([]Suggestion, 0, len(result))
	for _, cluster := range result {
		if len(cluster.Observations) == 0 {
			continue
		}

		members := make([]db.Emotion, 0, len(cluster.Observations))
		for _, obs := range cluster.Observations {
			members = append(members, *obs.(recordObservation).record)
		}

		suggestion := collect(members)
		if len(cluster.Center) == 2 {
			suggestion.Name = quadrantName(coords{
				Valence: cluster.Center[0],
				Arousal: cluster.Center[1],
			})
		}
		suggestions = append(suggestions, suggestion)
	}

	// Cluster order from k-means is nondeterministic; present larger
	// groupings first.
	sort.SliceStable(suggestions, func(i, j int) bool {
		return len(suggestions[i].TrackIDs) > len(suggestions[j].TrackIDs)
	})
	return suggestions, nil
}

// collect builds a suggestion from member records, naming it by the
// centroid of their coordinates.
func collect(members []db.Emotion) Suggestion {
	var center coords
	seen := make(map[string]bool)
	s := Suggestion{}
	for _, rec := range members {
		c := locate(rec.Emotion)
		center.Valence += c.Valence
		center.Arousal += c.Arousal
		if !seen[rec.Emotion] {
			seen[rec.Emotion] = true
			s.Emotions = append(s.Emotions, rec.Emotion)
		}
		s.TrackIDs = append(s.TrackIDs, rec.TrackID)
	}
	center.Valence /= float64(len(members))
	center.Arousal /= float64(len(members))
	s.Name = quadrantName(center)
	sort.Strings(s.Emotions)
	return s
}
