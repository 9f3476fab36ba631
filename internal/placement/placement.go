// Package placement generates loudspeaker placement plans for a room. The
// five supported channel configurations form a strict containment lattice
// (stereo ⊂ stereoWithSub ⊂ surround51 ⊂ surround71 ⊂ dolbyAtmos); larger
// configurations reuse the smaller ones' placements unchanged, so a listener
// upgrading from stereo to surround keeps the front pair where it was.
package placement

import (
	"math"

	"github.com/banshee-data/acoustics.report/internal/room"
)

// SpeakerType identifies a channel role.
type SpeakerType string

const (
	LeftFront     SpeakerType = "leftFront"
	RightFront    SpeakerType = "rightFront"
	Center        SpeakerType = "center"
	LeftSurround  SpeakerType = "leftSurround"
	RightSurround SpeakerType = "rightSurround"
	Subwoofer     SpeakerType = "subwoofer"
	Height        SpeakerType = "height"
)

// IsValid checks if the speaker type is one of the known roles.
func (s SpeakerType) IsValid() bool {
	switch s {
	case LeftFront, RightFront, Center, LeftSurround, RightSurround, Subwoofer, Height:
		return true
	}
	return false
}

// Configuration names a speaker system layout.
type Configuration string

const (
	Stereo        Configuration = "stereo"
	StereoWithSub Configuration = "stereoWithSub"
	Surround51    Configuration = "surround51"
	Surround71    Configuration = "surround71"
	DolbyAtmos    Configuration = "dolbyAtmos"
)

// AllConfigurations returns the configurations in lattice order, smallest
// first. This order also breaks score ties during ranking.
func AllConfigurations() []Configuration {
	return []Configuration{Stereo, StereoWithSub, Surround51, Surround71, DolbyAtmos}
}

// IsValid checks if the configuration is one of the known layouts.
func (c Configuration) IsValid() bool {
	switch c {
	case Stereo, StereoWithSub, Surround51, Surround71, DolbyAtmos:
		return true
	}
	return false
}

// Channels returns the conventional channel-count label.
func (c Configuration) Channels() string {
	switch c {
	case Stereo:
		return "2.0"
	case StereoWithSub:
		return "2.1"
	case Surround51:
		return "5.1"
	case Surround71:
		return "7.1"
	case DolbyAtmos:
		return "7.1.2"
	}
	return ""
}

// Placement positions one speaker. Distance is measured to the listening
// position, except for the front pair, which reports the nominal listening
// depth. Angle is the azimuth in degrees, negative to the listener's left.
// Placements are immutable values.
type Placement struct {
	Speaker     SpeakerType  `json:"speaker_type"`
	Position    room.Vector3 `json:"position"`
	Orientation room.Vector3 `json:"orientation"`
	Distance    float64      `json:"distance"`
	Angle       float64      `json:"angle"`
	Confidence  float64      `json:"confidence"`
	Reasoning   string       `json:"reasoning"`
}

// Placement geometry, as fractions of the room extents.
const (
	listeningFraction = 0.38 // 38% rule: listening position depth from the front wall
	earHeightFraction = 0.4
	toeInDegrees      = 15.0
)

// ListeningPosition returns the assumed listening position: centered on
// width, ear height, 38% of the room length from the front wall.
func ListeningPosition(d room.Dimensions) room.Vector3 {
	return room.Vector3{
		X: 0.5 * d.Width,
		Y: earHeightFraction * d.Height,
		Z: listeningFraction * d.Length,
	}
}

// Generate produces the placement list for a configuration. Each tier is the
// previous tier's placements plus its own additions; output order follows the
// lattice. Deterministic for a given set of dimensions.
func Generate(cfg Configuration, d room.Dimensions) []Placement {
	switch cfg {
	case Stereo:
		return frontPair(d)
	case StereoWithSub:
		return append(Generate(Stereo, d), subwoofer(d))
	case Surround51:
		return append(Generate(StereoWithSub, d), centerAndSides(d)...)
	case Surround71:
		return append(Generate(Surround51, d), rearPair(d)...)
	case DolbyAtmos:
		return append(Generate(Surround71, d), heightPair(d)...)
	}
	return nil
}

const (
	reasonFrontPair = "Listening-triangle placement per the 38% rule, toed in 15° toward the listening position"
	reasonSubwoofer = "Off-center placement avoids corner loading and the strongest room-mode pressure zones"
	reasonCenter    = "Centered on the front wall to anchor dialogue clarity"
	reasonSurround  = "Lateral placement beside the listening position for side immersion"
	reasonRear      = "Rear placement behind the listening position for envelopment"
	reasonHeight    = "Overhead coverage forward of the listening position for height effects"
)

func frontPair(d room.Dimensions) []Placement {
	toeIn := toeInDegrees * math.Pi / 180
	return []Placement{
		{
			Speaker:     LeftFront,
			Position:    room.Vector3{X: 0.2 * d.Width, Y: earHeightFraction * d.Height, Z: 0.1 * d.Length},
			Orientation: room.Vector3{X: math.Cos(toeIn), Y: 0, Z: math.Sin(toeIn)},
			Distance:    listeningFraction * d.Length,
			Angle:       -30,
			Confidence:  0.95,
			Reasoning:   reasonFrontPair,
		},
		{
			Speaker:     RightFront,
			Position:    room.Vector3{X: 0.8 * d.Width, Y: earHeightFraction * d.Height, Z: 0.1 * d.Length},
			Orientation: room.Vector3{X: -math.Cos(toeIn), Y: 0, Z: math.Sin(toeIn)},
			Distance:    listeningFraction * d.Length,
			Angle:       30,
			Confidence:  0.95,
			Reasoning:   reasonFrontPair,
		},
	}
}

func subwoofer(d room.Dimensions) Placement {
	pos := room.Vector3{X: 0.33 * d.Width, Y: 0.1 * d.Height, Z: 0.33 * d.Length}
	return Placement{
		Speaker:     Subwoofer,
		Position:    pos,
		Orientation: room.Vector3{Y: 1},
		Distance:    pos.Distance(ListeningPosition(d)),
		Angle:       0,
		Confidence:  0.9,
		Reasoning:   reasonSubwoofer,
	}
}

func centerAndSides(d room.Dimensions) []Placement {
	lp := ListeningPosition(d)
	center := room.Vector3{X: 0.5 * d.Width, Y: earHeightFraction * d.Height, Z: 0.1 * d.Length}
	left := room.Vector3{X: 0.1 * d.Width, Y: earHeightFraction * d.Height, Z: 0.7 * d.Length}
	right := room.Vector3{X: 0.9 * d.Width, Y: earHeightFraction * d.Height, Z: 0.7 * d.Length}
	return []Placement{
		{
			Speaker:     Center,
			Position:    center,
			Orientation: room.Vector3{Z: 1},
			Distance:    center.Distance(lp),
			Angle:       0,
			Confidence:  0.95,
			Reasoning:   reasonCenter,
		},
		{
			Speaker:     LeftSurround,
			Position:    left,
			Orientation: room.Vector3{X: 1},
			Distance:    left.Distance(lp),
			Angle:       -90,
			Confidence:  0.9,
			Reasoning:   reasonSurround,
		},
		{
			Speaker:     RightSurround,
			Position:    right,
			Orientation: room.Vector3{X: -1},
			Distance:    right.Distance(lp),
			Angle:       90,
			Confidence:  0.9,
			Reasoning:   reasonSurround,
		},
	}
}

// rearPair adds the 7.1 back row. The speaker roles reuse the surround types;
// position and angle distinguish the rows.
func rearPair(d room.Dimensions) []Placement {
	lp := ListeningPosition(d)
	left := room.Vector3{X: 0.2 * d.Width, Y: earHeightFraction * d.Height, Z: 0.85 * d.Length}
	right := room.Vector3{X: 0.8 * d.Width, Y: earHeightFraction * d.Height, Z: 0.85 * d.Length}
	return []Placement{
		{
			Speaker:     LeftSurround,
			Position:    left,
			Orientation: room.Vector3{Z: -1},
			Distance:    left.Distance(lp),
			Angle:       -135,
			Confidence:  0.85,
			Reasoning:   reasonRear,
		},
		{
			Speaker:     RightSurround,
			Position:    right,
			Orientation: room.Vector3{Z: -1},
			Distance:    right.Distance(lp),
			Angle:       135,
			Confidence:  0.85,
			Reasoning:   reasonRear,
		},
	}
}

func heightPair(d room.Dimensions) []Placement {
	lp := ListeningPosition(d)
	left := room.Vector3{X: 0.3 * d.Width, Y: 0.8 * d.Height, Z: 0.3 * d.Length}
	right := room.Vector3{X: 0.7 * d.Width, Y: 0.8 * d.Height, Z: 0.3 * d.Length}
	return []Placement{
		{
			Speaker:     Height,
			Position:    left,
			Orientation: room.Vector3{Y: -1},
			Distance:    left.Distance(lp),
			Angle:       -45,
			Confidence:  0.8,
			Reasoning:   reasonHeight,
		},
		{
			Speaker:     Height,
			Position:    right,
			Orientation: room.Vector3{Y: -1},
			Distance:    right.Distance(lp),
			Angle:       45,
			Confidence:  0.8,
			Reasoning:   reasonHeight,
		},
	}
}
