package acoustics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SchroederFrequency returns the transition frequency in Hz above which a
// room's modal behavior smooths into statistical reverberation:
//
//	f_s = 2000·sqrt(RT/V)
//
// Below this frequency individual modes dominate and placement matters most.
// Returns 0 for non-positive inputs.
func SchroederFrequency(rt, volume float64) float64 {
	if rt <= 0 || volume <= 0 {
		return 0
	}
	return 2000 * math.Sqrt(rt/volume)
}

// ModeSpacingStats summarises how evenly the low-frequency modes are spread.
// Clustered modes (small mean spacing, high deviation) indicate audible
// resonance peaks.
type ModeSpacingStats struct {
	Count  int     `json:"count"`   // modes below the limit
	MeanHz float64 `json:"mean_hz"` // mean adjacent spacing
	StdHz  float64 `json:"std_hz"`  // standard deviation of spacing
}

// ModeSpacing computes adjacent-spacing statistics for the modes below limit
// Hz. The modes slice must be ascending. With fewer than two qualifying modes
// the spacing figures are zero.
func ModeSpacing(modes []float64, limit float64) ModeSpacingStats {
	low := ModesBelow(modes, limit)
	stats := ModeSpacingStats{Count: len(low)}
	if len(low) < 2 {
		return stats
	}

	spacings := make([]float64, len(low)-1)
	for i := 1; i < len(low); i++ {
		spacings[i-1] = low[i] - low[i-1]
	}

	stats.MeanHz = stat.Mean(spacings, nil)
	if len(spacings) >= 2 {
		stats.StdHz = stat.StdDev(spacings, nil)
	}
	return stats
}
