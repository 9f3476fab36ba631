package analyzer

import (
	"github.com/banshee-data/acoustics.report/internal/placement"
	"github.com/banshee-data/acoustics.report/internal/room"
)

// Room-size thresholds for the conditional advice strings.
const (
	nearFieldVolume = 100.0
	multiSubVolume  = 300.0
)

// BuildSuggestions assembles the improvement list: every detected issue's
// remedy in detection order, then general treatment advice, then room-size
// specific notes. Duplicate remedies are kept, one per reported issue.
func BuildSuggestions(issues []Issue, data room.Data) []string {
	suggestions := make([]string, 0, len(issues)+5)
	for _, issue := range issues {
		suggestions = append(suggestions, issue.SuggestedSolution)
	}

	suggestions = append(suggestions,
		"Lay a thick rug between the speakers and the listening position to tame floor reflections",
		"Hang heavy curtains over windows and bare walls to soften high-frequency glare",
		"Keep the main listening position away from the rear wall, ideally near 38% of the room length",
	)

	volume := data.Dimensions.Volume()
	if volume < nearFieldVolume {
		suggestions = append(suggestions, "In a room this size a near-field setup, with speakers closer to the listener, will sound tighter")
	}
	if volume > multiSubVolume {
		suggestions = append(suggestions, "A room this large benefits from multiple subwoofers to even out bass between seats")
	}

	return suggestions
}

// systemRecommendations returns setup notes for a configuration. Like the
// placements themselves, notes compose up the lattice: a 7.1 owner still
// needs the stereo triangle advice.
func systemRecommendations(cfg placement.Configuration) []string {
	switch cfg {
	case placement.Stereo:
		return []string{"Keep the speakers and the listening position in an equilateral triangle"}
	case placement.StereoWithSub:
		return append(systemRecommendations(placement.Stereo),
			"Run a subwoofer crawl before committing: bass smoothness varies strongly with position")
	case placement.Surround51:
		return append(systemRecommendations(placement.StereoWithSub),
			"Match the center channel height to the front pair so dialogue stays anchored")
	case placement.Surround71:
		return append(systemRecommendations(placement.Surround51),
			"Aim the rear pair at the listening position rather than straight across the room")
	case placement.DolbyAtmos:
		return append(systemRecommendations(placement.Surround71),
			"Angle the height channels so their axes cross just behind the listening position")
	}
	return nil
}
