package moods

// coords places an emotion label on the valence/arousal plane, both in
// [0, 1]. Labels missing from the lexicon sit at the neutral center.
type coords struct {
	Valence float64
	Arousal float64
}

var neutral = coords{Valence: 0.5, Arousal: 0.5}

// lexicon maps the emotion labels the client uses to fixed
// valence/arousal coordinates.
var lexicon = map[string]coords{
	"happy":      {Valence: 0.90, Arousal: 0.65},
	"excited":    {Valence: 0.85, Arousal: 0.90},
	"energetic":  {Valence: 0.80, Arousal: 0.95},
	"romantic":   {Valence: 0.80, Arousal: 0.50},
	"calm":       {Valence: 0.70, Arousal: 0.20},
	"relaxed":    {Valence: 0.65, Arousal: 0.15},
	"nostalgic":  {Valence: 0.55, Arousal: 0.35},
	"anxious":    {Valence: 0.30, Arousal: 0.75},
	"angry":      {Valence: 0.15, Arousal: 0.85},
	"sad":        {Valence: 0.15, Arousal: 0.25},
	"melancholy": {Valence: 0.25, Arousal: 0.30},
	"tired":      {Valence: 0.40, Arousal: 0.10},
}

// locate returns the coordinates for an emotion label.
func locate(emotion string) coords {
	if c, ok := lexicon[emotion]; ok {
		return c
	}
	return neutral
}

// quadrantName names a centroid by its valence/arousal quadrant.
func quadrantName(c coords) string {
	switch {
	case c.Valence >= 0.5 && c.Arousal >= 0.5:
		return "Upbeat"
	case c.Valence >= 0.5:
		return "Mellow"
	case c.Arousal >= 0.5:
		return "Intense"
	default:
		return "Somber"
	}
}
