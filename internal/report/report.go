// Package report renders a room analysis as a sectioned plain-text report for
// terminal output and file export.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/banshee-data/acoustics.report/internal/acoustics"
	"github.com/banshee-data/acoustics.report/internal/analyzer"
	"github.com/banshee-data/acoustics.report/internal/units"
)

// modeSpacingLimitHz bounds the spacing statistics to the range where
// individual modes are audible as discrete resonances.
const modeSpacingLimitHz = 300.0

// Write renders the analysis to w in the given display units. The room is
// stored in meters; conversion happens only at this display boundary.
func Write(w io.Writer, a *analyzer.RoomAnalysis, displayUnits string) error {
	var b strings.Builder
	d := a.Room.Dimensions

	fmt.Fprintln(&b, "========== Room Acoustics Report ==========")
	fmt.Fprintf(&b, "Analysis: %s\n", a.ID)
	fmt.Fprintf(&b, "Created: %s\n", a.CreatedAt.Format(time.RFC3339))
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Room: %s × %s × %s\n",
		units.FormatLength(d.Width, displayUnits),
		units.FormatLength(d.Length, displayUnits),
		units.FormatLength(d.Height, displayUnits))
	fmt.Fprintf(&b, "Floor area: %.1f %s\n",
		units.ConvertArea(d.FloorArea(), displayUnits), units.AreaLabel(displayUnits))
	fmt.Fprintf(&b, "Volume: %s\n", units.FormatVolume(d.Volume(), displayUnits))
	fmt.Fprintf(&b, "Surfaces: %d, Obstacles: %d\n", len(a.Room.Surfaces), len(a.Room.Obstacles))

	writeAcoustics(&b, a)
	writeSystems(&b, a, displayUnits)
	writeIssues(&b, a)
	writeSuggestions(&b, a)

	fmt.Fprintln(&b, "============================================")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeAcoustics(b *strings.Builder, a *analyzer.RoomAnalysis) {
	props := a.Acoustics
	volume := a.Room.Dimensions.Volume()

	fmt.Fprintln(b, "\nAcoustics:")
	fmt.Fprintf(b, "  Reverberation time (RT60): %.2f s\n", props.ReverberationTime)
	fmt.Fprintf(b, "  Clarity index: %.1f\n", props.ClarityIndex)
	fmt.Fprintf(b, "  Speech transmission index: %.2f\n", props.SpeechTransmissionIndex)
	fmt.Fprintf(b, "  Background noise: %.0f dB\n", props.BackgroundNoiseLevel)

	if len(props.RoomModes) > 0 {
		schroeder := acoustics.SchroederFrequency(props.ReverberationTime, volume)
		fmt.Fprintf(b, "  Room modes: %d (lowest %.1f Hz)\n", len(props.RoomModes), props.RoomModes[0])
		if schroeder > 0 {
			fmt.Fprintf(b, "  Schroeder frequency: %.1f Hz\n", schroeder)
		}

		spacing := acoustics.ModeSpacing(props.RoomModes, modeSpacingLimitHz)
		if spacing.Count >= 2 {
			fmt.Fprintf(b, "  Mode spacing below %.0f Hz: %.1f Hz mean, %.1f Hz deviation (%d modes)\n",
				modeSpacingLimitHz, spacing.MeanHz, spacing.StdHz, spacing.Count)
		}
	}
}

func writeSystems(b *strings.Builder, a *analyzer.RoomAnalysis, displayUnits string) {
	fmt.Fprintln(b, "\nSpeaker Systems (best first):")
	lengthLabel := units.LengthLabel(displayUnits)

	for _, sys := range a.SpeakerSystems {
		marker := " "
		if sys.Configuration == a.BestConfiguration {
			marker = "*"
		}
		fmt.Fprintf(b, "%s %s (%s): score %.1f/10, %d speakers\n",
			marker, sys.Configuration, sys.Configuration.Channels(),
			sys.OverallScore, len(sys.Placements))

		// Only the recommended system gets the full placement breakdown.
		if sys.Configuration != a.BestConfiguration {
			continue
		}
		for _, p := range sys.Placements {
			fmt.Fprintf(b, "    %-14s (%.2f, %.2f, %.2f) %s, confidence %.2f\n",
				p.Speaker,
				units.ConvertLength(p.Position.X, displayUnits),
				units.ConvertLength(p.Position.Y, displayUnits),
				units.ConvertLength(p.Position.Z, displayUnits),
				lengthLabel, p.Confidence)
		}
	}
	fmt.Fprintf(b, "\nRecommended configuration: %s (%s)\n",
		a.BestConfiguration, a.BestConfiguration.Channels())
}

func writeIssues(b *strings.Builder, a *analyzer.RoomAnalysis) {
	fmt.Fprintln(b, "\nIssues:")
	if len(a.Issues) == 0 {
		fmt.Fprintln(b, "  none detected")
		return
	}
	for _, issue := range a.Issues {
		fmt.Fprintf(b, "  [%s] %s: %s\n", issue.Severity, issue.Type, issue.Description)
		fmt.Fprintf(b, "    fix: %s\n", issue.SuggestedSolution)
	}
}

func writeSuggestions(b *strings.Builder, a *analyzer.RoomAnalysis) {
	if len(a.Suggestions) == 0 {
		return
	}
	fmt.Fprintln(b, "\nSuggestions:")
	for _, s := range a.Suggestions {
		fmt.Fprintf(b, "  - %s\n", s)
	}
}
