package acoustics

import (
	"math"
	"sort"

	"github.com/banshee-data/acoustics.report/internal/room"
)

// Modes enumerates the resonant mode frequencies of a rectangular room up to
// the configured order per axis. For mode indices (nx, ny, nz) the combined
// frequency is
//
//	f = sqrt(fx² + fy² + fz²),  fx = nx·c/(2·W)  (fy, fz over length, height)
//
// covering axial (one non-zero index), tangential (two) and oblique (three)
// modes. The (0,0,0) combination is skipped, so the default order 5 yields
// 6³−1 = 215 frequencies, returned ascending.
func Modes(d room.Dimensions, cfg Config) []float64 {
	order := cfg.maxModeOrder()
	c := cfg.speedOfSound()

	modes := make([]float64, 0, (order+1)*(order+1)*(order+1)-1)
	for nx := 0; nx <= order; nx++ {
		for ny := 0; ny <= order; ny++ {
			for nz := 0; nz <= order; nz++ {
				if nx == 0 && ny == 0 && nz == 0 {
					continue
				}
				fx := float64(nx) * c / (2 * d.Width)
				fy := float64(ny) * c / (2 * d.Length)
				fz := float64(nz) * c / (2 * d.Height)
				modes = append(modes, math.Sqrt(fx*fx+fy*fy+fz*fz))
			}
		}
	}
	sort.Float64s(modes)
	return modes
}

// ModesBelow returns the leading slice of modes under limit Hz. The input must
// already be ascending, as produced by Modes.
func ModesBelow(modes []float64, limit float64) []float64 {
	i := sort.SearchFloat64s(modes, limit)
	return modes[:i]
}
