package analyzer

import (
	"math"

	"github.com/banshee-data/acoustics.report/internal/acoustics"
	"github.com/banshee-data/acoustics.report/internal/placement"
	"github.com/banshee-data/acoustics.report/internal/room"
)

// Scoring weights and obstacle-proximity penalties.
const (
	acousticWeight  = 0.3
	placementWeight = 0.4
	sizeWeight      = 0.2

	confidenceMultiplier = 2.0

	nearObstacleMeters   = 0.5
	nearObstaclePenalty  = 1.0
	closeObstacleMeters  = 1.0
	closeObstaclePenalty = 0.5
)

// ScoreSystem rates one placement plan against the room, always in [0,10]:
//
//	score = 0.3·acoustic + 0.4·placement + 0.2·size − obstaclePenalty
//
// The placement term sums confidence·2.0 over all placements and is not
// normalised by speaker count, so larger configurations earn structurally
// higher placement scores; the final clamp absorbs the excess.
func ScoreSystem(placements []placement.Placement, data room.Data, props acoustics.Properties) float64 {
	acousticScore := math.Max(0, 10-props.ReverberationTime*2.5)

	var placementScore float64
	for _, p := range placements {
		placementScore += p.Confidence * confidenceMultiplier
	}

	sizeScore := math.Min(10, data.Dimensions.Volume()/10)

	score := acousticWeight*acousticScore + placementWeight*placementScore + sizeWeight*sizeScore
	score -= obstaclePenalty(placements, data.Obstacles)

	return clampScore(score)
}

// obstaclePenalty charges every (obstacle, placement) pair that sits too
// close together: 1.0 inside half a meter, 0.5 inside a meter.
func obstaclePenalty(placements []placement.Placement, obstacles []room.Obstacle) float64 {
	var penalty float64
	for _, o := range obstacles {
		for _, p := range placements {
			switch d := o.Position.Distance(p.Position); {
			case d < nearObstacleMeters:
				penalty += nearObstaclePenalty
			case d < closeObstacleMeters:
				penalty += closeObstaclePenalty
			}
		}
	}
	return penalty
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
