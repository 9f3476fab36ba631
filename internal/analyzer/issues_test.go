package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/acoustics.report/internal/acoustics"
	"github.com/banshee-data/acoustics.report/internal/room"
)

func issuesOfType(issues []Issue, t IssueType) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.Type == t {
			out = append(out, i)
		}
	}
	return out
}

func TestDetectStandingWaves(t *testing.T) {
	t.Parallel()

	data := room.Data{Dimensions: room.Dimensions{Width: 4, Length: 5, Height: 2.5}}
	props := acoustics.Properties{
		ReverberationTime: 0.4,
		RoomModes:         []float64{30, 70, 100, 250},
	}

	waves := issuesOfType(DetectIssues(data, props), IssueStandingWaves)
	require.Len(t, waves, 2, "one issue per mode below 80 Hz")

	assert.Equal(t, SeverityHigh, waves[0].Severity)
	assert.Contains(t, waves[0].Description, "30.0")
	assert.Equal(t, SeverityMedium, waves[1].Severity)
	assert.Contains(t, waves[1].Description, "70.0")
	for _, w := range waves {
		assert.Contains(t, strings.ToLower(w.SuggestedSolution), "bass trap")
		assert.Nil(t, w.Position)
	}
}

func TestDetectAbsorptionTiers(t *testing.T) {
	t.Parallel()

	data := room.Data{Dimensions: room.Dimensions{Width: 4, Length: 5, Height: 2.5}}

	tests := []struct {
		name     string
		rt       float64
		count    int
		severity Severity
	}{
		{"critical above 0.8s", 0.9, 1, SeverityCritical},
		{"high above 0.6s", 0.7, 1, SeverityHigh},
		{"boundary 0.8 is high not critical", 0.8, 1, SeverityHigh},
		{"acceptable below 0.6s", 0.5, 0, ""},
		{"boundary 0.6 is clean", 0.6, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := acoustics.Properties{ReverberationTime: tt.rt}
			got := issuesOfType(DetectIssues(data, props), IssueAbsorption)
			require.Len(t, got, tt.count, "at most one absorption issue")
			if tt.count > 0 {
				assert.Equal(t, tt.severity, got[0].Severity)
			}
		})
	}
}

func TestDetectFlutterEcho(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		w, l  float64
		fires bool
	}{
		{"near square fires", 6, 6.5, true}, // ratio 0.92
		{"square fires", 5, 5, true},
		{"elongated clean", 4, 7, false},       // ratio 0.57
		{"lower bound exclusive", 4, 5, false}, // ratio 0.8 exactly
		{"upper bound exclusive", 6, 5, false}, // ratio 1.2 exactly
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := room.Data{Dimensions: room.Dimensions{Width: tt.w, Length: tt.l, Height: 2.8}}
			props := acoustics.Properties{ReverberationTime: 0.4}
			got := issuesOfType(DetectIssues(data, props), IssueFlutterEcho)
			if tt.fires {
				require.Len(t, got, 1, "exactly one flutter echo issue")
				assert.Equal(t, SeverityMedium, got[0].Severity)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestDetectBassBuildUp(t *testing.T) {
	t.Parallel()

	props := acoustics.Properties{ReverberationTime: 0.4}

	small := room.Data{Dimensions: room.Dimensions{Width: 3, Length: 4, Height: 2.5}} // 30 m³
	got := issuesOfType(DetectIssues(small, props), IssueBassBuildUp)
	require.Len(t, got, 1)
	assert.Equal(t, SeverityMedium, got[0].Severity)

	// The threshold is strict: exactly 50 m³ is not small.
	boundary := room.Data{Dimensions: room.Dimensions{Width: 5, Length: 4, Height: 2.5}} // 50 m³
	assert.Empty(t, issuesOfType(DetectIssues(boundary, props), IssueBassBuildUp))
}

func TestDetectNearSquareRoomEndToEnd(t *testing.T) {
	t.Parallel()

	// 6m x 6.5m with real computed acoustics must flag flutter echo exactly
	// once, at medium severity, alongside whatever else fires.
	data := room.Data{
		Dimensions: room.Dimensions{Width: 6, Length: 6.5, Height: 2.8},
		Surfaces: []room.Surface{
			{Type: room.SurfaceWall, Area: 35, AbsorptionCoefficient: 0.2},
		},
	}
	props, err := acoustics.ComputeProperties(data, acoustics.Config{})
	require.NoError(t, err)

	flutter := issuesOfType(DetectIssues(data, props), IssueFlutterEcho)
	require.Len(t, flutter, 1)
	assert.Equal(t, SeverityMedium, flutter[0].Severity)
}

func TestSeverityOrdering(t *testing.T) {
	t.Parallel()

	assert.Less(t, SeverityLow.Rank(), SeverityMedium.Rank())
	assert.Less(t, SeverityMedium.Rank(), SeverityHigh.Rank())
	assert.Less(t, SeverityHigh.Rank(), SeverityCritical.Rank())
	assert.Equal(t, -1, Severity("fatal").Rank())
	assert.False(t, Severity("fatal").IsValid())
	assert.True(t, SeverityCritical.IsValid())
}

func TestIssuePositionsNil(t *testing.T) {
	t.Parallel()

	data := room.Data{Dimensions: room.Dimensions{Width: 5, Length: 5.2, Height: 2.4}} // small + near-square
	props := acoustics.Properties{ReverberationTime: 1.0, RoomModes: []float64{40, 55}}

	issues := DetectIssues(data, props)
	require.NotEmpty(t, issues)
	for _, i := range issues {
		assert.Nil(t, i.Position, "%s should carry no position", i.Type)
		assert.True(t, i.Type.IsValid())
		assert.True(t, i.Severity.IsValid())
		assert.NotEmpty(t, i.Description)
		assert.NotEmpty(t, i.SuggestedSolution)
	}
}
