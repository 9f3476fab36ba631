// Package acoustics estimates room-acoustic metrics from geometry and surface
// absorption data: reverberation time (Eyring), modal frequencies, clarity
// index, and speech transmission index. All functions are pure; the closed-form
// estimates here deliberately trade accuracy for speed over full impulse
// response simulation.
package acoustics

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/acoustics.report/internal/room"
)

// Defaults for the tunable model constants.
const (
	DefaultSpeedOfSound    = 343.0 // m/s, dry air at 20°C
	DefaultMaxModeOrder    = 5
	DefaultAbsorptionFloor = 0.05 // mean absorption substituted for empty surface lists
	DefaultBackgroundNoise = 40.0 // dB SPL, quiet domestic room assumption
)

const eyringCoefficient = 0.161

// Properties holds the computed acoustic metrics for one room. Computed fresh
// per analysis and never mutated afterward.
type Properties struct {
	// ReverberationTime is the RT60-equivalent decay time in seconds.
	ReverberationTime float64 `json:"reverberation_time"`
	// ClarityIndex is a unitless clarity figure; higher is better.
	ClarityIndex float64 `json:"clarity_index"`
	// SpeechTransmissionIndex is in [0,1]; higher is more intelligible.
	SpeechTransmissionIndex float64 `json:"speech_transmission_index"`
	// BackgroundNoiseLevel is the assumed ambient level in dB SPL.
	BackgroundNoiseLevel float64 `json:"background_noise_level"`
	// RoomModes lists resonant mode frequencies in Hz, ascending.
	RoomModes []float64 `json:"room_modes"`
}

// Config tunes the model constants. The zero value selects the defaults above.
type Config struct {
	SpeedOfSound    float64 // m/s
	MaxModeOrder    int     // highest mode index per axis
	AbsorptionFloor float64 // mean absorption when no surfaces are supplied
	BackgroundNoise float64 // dB SPL
}

func (c Config) speedOfSound() float64 {
	if c.SpeedOfSound > 0 {
		return c.SpeedOfSound
	}
	return DefaultSpeedOfSound
}

func (c Config) maxModeOrder() int {
	if c.MaxModeOrder > 0 {
		return c.MaxModeOrder
	}
	return DefaultMaxModeOrder
}

func (c Config) absorptionFloor() float64 {
	if c.AbsorptionFloor > 0 {
		return c.AbsorptionFloor
	}
	return DefaultAbsorptionFloor
}

func (c Config) backgroundNoise() float64 {
	if c.BackgroundNoise > 0 {
		return c.BackgroundNoise
	}
	return DefaultBackgroundNoise
}

// DegenerateRoomError reports geometry the acoustic formulas cannot operate
// on: zero or negative volume, or surfaces whose total absorption is zero.
// Analyses failing with this error produce no partial result.
type DegenerateRoomError struct {
	Reason string
	Value  float64
}

func (e *DegenerateRoomError) Error() string {
	return fmt.Sprintf("degenerate room geometry: %s (%g)", e.Reason, e.Value)
}

// IsDegenerate reports whether err is (or wraps) a DegenerateRoomError.
func IsDegenerate(err error) bool {
	var d *DegenerateRoomError
	return errors.As(err, &d)
}

// ComputeProperties derives the acoustic metrics for a room.
//
// Reverberation time uses the Eyring approximation
//
//	RT = 0.161·V / (−S·ln(1−ā))
//
// where ā is the mean absorption coefficient totalAbsorption/S. The total
// surface area S is approximated from the volume as that of the equivalent
// cube (S = 6·V^⅔) rather than summed from the supplied surfaces; captured
// surface lists are routinely incomplete, so the cube heuristic keeps ā
// stable across partial scans. ā above 0.99 is treated as fully absorptive
// (RT = 0).
//
// An empty surface list is not an error: the configured absorption floor is
// substituted for ā and the caller decides how to report the reduced
// confidence. Surfaces that are present but sum to zero absorption describe a
// perfectly reflective room with unbounded reverberation, which fails with
// DegenerateRoomError.
func ComputeProperties(data room.Data, cfg Config) (Properties, error) {
	volume := data.Dimensions.Volume()
	if volume <= 0 {
		return Properties{}, &DegenerateRoomError{Reason: "non-positive volume", Value: volume}
	}

	surfaceArea := 6 * math.Pow(volume, 2.0/3.0)

	var meanAbsorption float64
	if len(data.Surfaces) == 0 {
		meanAbsorption = cfg.absorptionFloor()
	} else {
		var totalAbsorption float64
		for _, s := range data.Surfaces {
			totalAbsorption += s.Area * s.AbsorptionCoefficient
		}
		if totalAbsorption <= 0 {
			return Properties{}, &DegenerateRoomError{Reason: "zero total absorption", Value: totalAbsorption}
		}
		meanAbsorption = totalAbsorption / surfaceArea
	}

	var rt float64
	if meanAbsorption > 0.99 {
		rt = 0
	} else {
		rt = eyringCoefficient * volume / (-surfaceArea * math.Log(1-meanAbsorption))
	}

	return Properties{
		ReverberationTime:       rt,
		ClarityIndex:            clarityIndex(rt, volume),
		SpeechTransmissionIndex: speechTransmissionIndex(rt, volume),
		BackgroundNoiseLevel:    cfg.backgroundNoise(),
		RoomModes:               Modes(data.Dimensions, cfg),
	}, nil
}

// clarityIndex maps reverberation time and volume onto a 0–10 clarity figure.
// Short decay raises clarity; very small rooms are slightly penalised through
// the volume factor.
func clarityIndex(rt, volume float64) float64 {
	base := math.Max(0, 10-rt*3)
	volFactor := math.Min(1, volume/100)
	return base * (0.8 + 0.2*volFactor)
}

// speechTransmissionIndex estimates STI in [0,1] from reverberation time with
// a mild volume correction.
func speechTransmissionIndex(rt, volume float64) float64 {
	base := math.Max(0, 1-rt*0.08)
	volFactor := math.Min(1, volume/150)
	return base * (0.9 + 0.1*volFactor)
}
