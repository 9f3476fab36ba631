// Package analyzer orchestrates a full room analysis: acoustic metrics,
// placement plans for every supported configuration, scoring and ranking,
// defect detection, and improvement suggestions. One Analyze call produces
// one immutable RoomAnalysis.
package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/acoustics.report/internal/acoustics"
	"github.com/banshee-data/acoustics.report/internal/monitoring"
	"github.com/banshee-data/acoustics.report/internal/placement"
	"github.com/banshee-data/acoustics.report/internal/room"
)

// DefaultEmptyGeometryConfidence scales placement confidence when the room
// was supplied without surface data.
const DefaultEmptyGeometryConfidence = 0.8

// Config tunes the analyzer. The zero value uses defaults throughout.
type Config struct {
	Acoustics               acoustics.Config
	EmptyGeometryConfidence float64
}

func (c Config) emptyGeometryConfidence() float64 {
	if c.EmptyGeometryConfidence > 0 {
		return c.EmptyGeometryConfidence
	}
	return DefaultEmptyGeometryConfidence
}

// SpeakerSystem is one scored placement plan.
type SpeakerSystem struct {
	Configuration   placement.Configuration `json:"configuration"`
	Placements      []placement.Placement   `json:"placements"`
	OverallScore    float64                 `json:"overall_score"`
	Recommendations []string                `json:"recommendations"`
}

// RoomAnalysis is the complete result of one analysis run. It is produced
// atomically and never mutated afterward; consumers only read it.
type RoomAnalysis struct {
	ID                string                  `json:"id"`
	CreatedAt         time.Time               `json:"created_at"`
	Room              room.Data               `json:"room"`
	Acoustics         acoustics.Properties    `json:"acoustics"`
	SpeakerSystems    []SpeakerSystem         `json:"speaker_systems"`
	BestConfiguration placement.Configuration `json:"best_configuration"`
	Issues            []Issue                 `json:"issues"`
	Suggestions       []string                `json:"suggestions"`
}

// Progress is one advisory pipeline status update. Fractions are strictly
// increasing within a run and the final update is always (1.0, "complete").
type Progress struct {
	Fraction float64 `json:"fraction"`
	Step     string  `json:"step"`
}

// ProgressFunc observes pipeline progress. It is called synchronously from
// the analysis goroutine and must not block.
type ProgressFunc func(Progress)

// Analyzer runs analyses with a fixed configuration. Analyzer itself holds no
// per-run state, so a single instance may serve concurrent callers.
type Analyzer struct {
	cfg Config
}

// New returns an Analyzer with the given configuration.
func New(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze runs the full pipeline on one room description. The progress
// callback may be nil. There is no cancellation: once started the analysis
// runs to completion or fails. On failure no partial result is produced.
//
// A room supplied without surfaces is analyzed against the configured
// absorption floor with all placement confidences scaled down; a room whose
// geometry is non-physical (zero volume, zero total absorption) fails with a
// wrapped acoustics.DegenerateRoomError.
func (a *Analyzer) Analyze(data room.Data, progress ProgressFunc) (*RoomAnalysis, error) {
	report := func(fraction float64, step string) {
		if progress != nil {
			progress(Progress{Fraction: fraction, Step: step})
		}
	}

	emptyGeometry := len(data.Surfaces) == 0

	report(0.1, "measuring room acoustics")
	props, err := acoustics.ComputeProperties(data, a.cfg.Acoustics)
	if err != nil {
		return nil, fmt.Errorf("acoustic model: %w", err)
	}

	report(0.3, "planning speaker placements")
	systems := make([]SpeakerSystem, 0, 5)
	for _, cfg := range placement.AllConfigurations() {
		placements := placement.Generate(cfg, data.Dimensions)
		if emptyGeometry {
			factor := a.cfg.emptyGeometryConfidence()
			for i := range placements {
				placements[i].Confidence *= factor
			}
		}
		systems = append(systems, SpeakerSystem{
			Configuration:   cfg,
			Placements:      placements,
			Recommendations: systemRecommendations(cfg),
		})
	}

	report(0.55, "scoring configurations")
	for i := range systems {
		systems[i].OverallScore = ScoreSystem(systems[i].Placements, data, props)
	}
	sort.SliceStable(systems, func(i, j int) bool {
		return systems[i].OverallScore > systems[j].OverallScore
	})

	report(0.75, "scanning for acoustic issues")
	issues := DetectIssues(data, props)

	report(0.9, "compiling recommendations")
	suggestions := BuildSuggestions(issues, data)

	if emptyGeometry {
		monitoring.Logf("analyzer: room supplied without surfaces; used absorption floor and reduced placement confidence")
	}

	analysis := &RoomAnalysis{
		ID:                uuid.New().String(),
		CreatedAt:         time.Now().UTC(),
		Room:              data,
		Acoustics:         props,
		SpeakerSystems:    systems,
		BestConfiguration: selectBestConfiguration(systems, data),
		Issues:            issues,
		Suggestions:       suggestions,
	}

	report(1.0, "complete")
	return analysis, nil
}

// AsyncResult carries the outcome of an asynchronous analysis.
type AsyncResult struct {
	Analysis *RoomAnalysis
	Err      error
}

// AnalyzeAsync runs Analyze on its own goroutine for callers that must not
// block. Progress updates arrive on the first channel, monotonic and closed
// after the terminal update; the single result follows on the second channel.
// Both channels are owned by the returned run and serve one observer.
func (a *Analyzer) AnalyzeAsync(data room.Data) (<-chan Progress, <-chan AsyncResult) {
	progress := make(chan Progress, 8)
	result := make(chan AsyncResult, 1)

	go func() {
		analysis, err := a.Analyze(data, func(p Progress) {
			progress <- p
		})
		close(progress)
		result <- AsyncResult{Analysis: analysis, Err: err}
		close(result)
	}()

	return progress, result
}

// Volume thresholds steering configuration selection for small and mid-sized
// rooms. Below them the score ranking is deliberately overridden: a dense
// speaker layout scores well on placement confidence alone but overwhelms a
// small room.
const (
	stereoMaxVolume     = 50.0
	stereoSubMaxVolume  = 100.0
	surround51MaxVolume = 200.0
)

func selectBestConfiguration(sorted []SpeakerSystem, data room.Data) placement.Configuration {
	volume := data.Dimensions.Volume()
	switch {
	case volume < stereoMaxVolume:
		return placement.Stereo
	case volume < stereoSubMaxVolume:
		return placement.StereoWithSub
	case volume < surround51MaxVolume:
		return placement.Surround51
	}
	if len(sorted) == 0 {
		return placement.Stereo
	}
	return sorted[0].Configuration
}
