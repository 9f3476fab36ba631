package analyzer

import (
	"fmt"

	"github.com/banshee-data/acoustics.report/internal/acoustics"
	"github.com/banshee-data/acoustics.report/internal/room"
)

// IssueType classifies a detected acoustic defect.
type IssueType string

const (
	IssueStandingWaves IssueType = "standingWaves"
	IssueFlutterEcho   IssueType = "flutterEcho"
	IssueBassBuildUp   IssueType = "bassBuildUp"
	IssueReflection    IssueType = "reflection"
	IssueAbsorption    IssueType = "absorption"
)

// IsValid checks if the issue type is one of the known values.
func (t IssueType) IsValid() bool {
	switch t {
	case IssueStandingWaves, IssueFlutterEcho, IssueBassBuildUp, IssueReflection, IssueAbsorption:
		return true
	}
	return false
}

// Severity orders issues by how much they degrade the listening experience.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns the ordering index of the severity, low = 0. Unknown
// severities rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	}
	return -1
}

// IsValid checks if the severity is one of the known levels.
func (s Severity) IsValid() bool {
	return s.Rank() >= 0
}

// Issue is one detected acoustic defect with its remedy. Position is reserved
// for localized defects; the current detectors report room-wide conditions
// and leave it nil.
type Issue struct {
	Type              IssueType     `json:"type"`
	Severity          Severity      `json:"severity"`
	Description       string        `json:"description"`
	Position          *room.Vector3 `json:"position,omitempty"`
	SuggestedSolution string        `json:"suggested_solution"`
}

// Detection thresholds.
const (
	standingWaveLimitHz  = 80.0
	severeStandingWaveHz = 60.0
	criticalReverbSec    = 0.8
	highReverbSec        = 0.6
	squareRatioLow       = 0.8
	squareRatioHigh      = 1.2
	smallRoomVolume      = 50.0
)

// DetectIssues inspects the computed acoustics and the room geometry for
// known defect patterns. The checks are independent and may all fire in the
// same analysis; every standing-wave mode below 80 Hz produces its own issue.
func DetectIssues(data room.Data, props acoustics.Properties) []Issue {
	var issues []Issue

	for _, f := range acoustics.ModesBelow(props.RoomModes, standingWaveLimitHz) {
		severity := SeverityMedium
		if f < severeStandingWaveHz {
			severity = SeverityHigh
		}
		issues = append(issues, Issue{
			Type:              IssueStandingWaves,
			Severity:          severity,
			Description:       fmt.Sprintf("Standing wave at %.1f Hz will cause uneven bass across the room", f),
			SuggestedSolution: "Place bass traps in the room corners or move the subwoofer away from mode pressure peaks",
		})
	}

	rt := props.ReverberationTime
	switch {
	case rt > criticalReverbSec:
		issues = append(issues, Issue{
			Type:              IssueAbsorption,
			Severity:          SeverityCritical,
			Description:       fmt.Sprintf("Reverberation time of %.2f s is far beyond the comfortable range for a listening room", rt),
			SuggestedSolution: "Add substantial absorption: thick wall panels, heavy curtains, and soft furnishings",
		})
	case rt > highReverbSec:
		issues = append(issues, Issue{
			Type:              IssueAbsorption,
			Severity:          SeverityHigh,
			Description:       fmt.Sprintf("Reverberation time of %.2f s smears detail at the listening position", rt),
			SuggestedSolution: "Add absorptive panels at the first reflection points on the side walls",
		})
	}

	if ratio := data.Dimensions.Ratio(); ratio > squareRatioLow && ratio < squareRatioHigh {
		issues = append(issues, Issue{
			Type:              IssueFlutterEcho,
			Severity:          SeverityMedium,
			Description:       fmt.Sprintf("Near-square footprint (width/length %.2f) invites flutter echo between parallel walls", ratio),
			SuggestedSolution: "Break up parallel reflective walls with bookshelves, diffusers, or angled panels",
		})
	}

	if volume := data.Dimensions.Volume(); volume < smallRoomVolume {
		issues = append(issues, Issue{
			Type:              IssueBassBuildUp,
			Severity:          SeverityMedium,
			Description:       fmt.Sprintf("Small room volume (%.0f m³) concentrates low-frequency energy", volume),
			SuggestedSolution: "Use bass management with moderate subwoofer levels and keep the sub away from corners",
		})
	}

	return issues
}
