package moods

import (
	"testing"

	"github.com/google/uuid"

	"github.com/moodfm/moodfm/internal/db"
)

func record(trackID, emotion string) db.Emotion {
	return db.Emotion{
		ID:         uuid.New(),
		SessionKey: "SK1",
		TrackID:    trackID,
		TrackTitle: "Song " + trackID,
		Artist:     "Artist",
		Emotion:    emotion,
	}
}

func TestSuggest_Empty(t *testing.T) {
	suggestions, err := Suggest(nil, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if suggestions != nil {
		t.Errorf("expected nil suggestions, got %v", suggestions)
	}
}

func TestSuggest_FewerRecordsThanClusters(t *testing.T) {
	records := []db.Emotion{
		record("T1", "happy"),
		record("T2", "excited"),
	}

	suggestions, err := Suggest(records, Config{NumClusters: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("len(suggestions) = %d, want 1", len(suggestions))
	}
	if len(suggestions[0].TrackIDs) != 2 {
		t.Errorf("grouping should cover all records, got %v", suggestions[0].TrackIDs)
	}
	// happy and excited both sit in the high-valence/high-arousal
	// quadrant.
	if suggestions[0].Name != "Upbeat" {
		t.Errorf("name = %q, want Upbeat", suggestions[0].Name)
	}
}

func TestSuggest_CoversAllRecords(t *testing.T) {
	records := []db.Emotion{
		record("T1", "happy"),
		record("T2", "happy"),
		record("T3", "excited"),
		record("T4", "sad"),
		record("T5", "sad"),
		record("T6", "melancholy"),
		record("T7", "calm"),
		record("T8", "relaxed"),
	}

	suggestions, err := Suggest(records, Config{NumClusters: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) == 0 {
		t.Fatal("expected at least one suggestion")
	}

	// Every record lands in exactly one grouping regardless of how the
	// partition falls.
	seen := make(map[string]int)
	for _, s := range suggestions {
		if s.Name == "" {
			t.Error("suggestion missing name")
		}
		for _, id := range s.TrackIDs {
			seen[id]++
		}
	}
	if len(seen) != len(records) {
		t.Errorf("coverage = %d records, want %d", len(seen), len(records))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("track %s appears %d times", id, n)
		}
	}
}

func TestSuggest_OrderedBySize(t *testing.T) {
	records := []db.Emotion{
		record("T1", "happy"),
		record("T2", "happy"),
		record("T3", "happy"),
		record("T4", "happy"),
		record("T5", "sad"),
		record("T6", "calm"),
	}

	suggestions, err := Suggest(records, Config{NumClusters: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(suggestions); i++ {
		if len(suggestions[i].TrackIDs) > len(suggestions[i-1].TrackIDs) {
			t.Errorf("suggestions not ordered by size: %d before %d",
				len(suggestions[i-1].TrackIDs), len(suggestions[i].TrackIDs))
		}
	}
}

func TestQuadrantName(t *testing.T) {
	tests := []struct {
		c    coords
		want string
	}{
		{coords{Valence: 0.9, Arousal: 0.9}, "Upbeat"},
		{coords{Valence: 0.9, Arousal: 0.1}, "Mellow"},
		{coords{Valence: 0.1, Arousal: 0.9}, "Intense"},
		{coords{Valence: 0.1, Arousal: 0.1}, "Somber"},
	}
	for _, tt := range tests {
		if got := quadrantName(tt.c); got != tt.want {
			t.Errorf("quadrantName(%+v) = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestLocate_UnknownLabel(t *testing.T) {
	if got := locate("bewildered"); got != neutral {
		t.Errorf("unknown label should map to neutral, got %+v", got)
	}
}
