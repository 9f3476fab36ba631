package acoustics

import (
	"math"
	"sort"
	"testing"

	"github.com/banshee-data/acoustics.report/internal/room"
)

const tolerance = 1e-3

// testRoom returns a 5m x 6m x 2.8m room (volume 84 m³) with a single 28 m²
// wall at absorption 0.1.
func testRoom() room.Data {
	return room.Data{
		Dimensions: room.Dimensions{Width: 5, Length: 6, Height: 2.8},
		Surfaces: []room.Surface{
			{Type: room.SurfaceWall, Area: 28, AbsorptionCoefficient: 0.1},
		},
	}
}

func TestComputePropertiesReverberation(t *testing.T) {
	props, err := ComputeProperties(testRoom(), Config{})
	if err != nil {
		t.Fatalf("ComputeProperties: %v", err)
	}

	// Eyring with V=84, S=6·84^(2/3)≈115.081, ā=2.8/S≈0.02433.
	if math.Abs(props.ReverberationTime-4.771) > tolerance {
		t.Errorf("RT = %f, want 4.771", props.ReverberationTime)
	}
	if props.BackgroundNoiseLevel != DefaultBackgroundNoise {
		t.Errorf("background noise = %f, want %f", props.BackgroundNoiseLevel, DefaultBackgroundNoise)
	}
}

func TestReverberationNonNegative(t *testing.T) {
	// RT must stay non-negative across the full absorption range.
	for _, alpha := range []float64{0.01, 0.1, 0.3, 0.5, 0.7, 0.9, 0.99} {
		data := room.Data{
			Dimensions: room.Dimensions{Width: 4, Length: 5, Height: 2.5},
			Surfaces: []room.Surface{
				{Type: room.SurfaceWall, Area: 60, AbsorptionCoefficient: alpha},
			},
		}
		props, err := ComputeProperties(data, Config{})
		if err != nil {
			t.Fatalf("alpha %f: %v", alpha, err)
		}
		if props.ReverberationTime < 0 {
			t.Errorf("alpha %f: negative RT %f", alpha, props.ReverberationTime)
		}
	}
}

func TestReverberationFullyAbsorptive(t *testing.T) {
	// Mean absorption above 0.99 is treated as a dead room.
	data := room.Data{
		Dimensions: room.Dimensions{Width: 2, Length: 2, Height: 2},
		Surfaces: []room.Surface{
			{Type: room.SurfaceWall, Area: 500, AbsorptionCoefficient: 1.0},
		},
	}
	props, err := ComputeProperties(data, Config{})
	if err != nil {
		t.Fatalf("ComputeProperties: %v", err)
	}
	if props.ReverberationTime != 0 {
		t.Errorf("RT = %f, want 0 for fully absorptive room", props.ReverberationTime)
	}
}

func TestComputePropertiesDegenerate(t *testing.T) {
	tests := []struct {
		name string
		data room.Data
	}{
		{
			"zero volume",
			room.Data{Dimensions: room.Dimensions{Width: 0, Length: 6, Height: 2.8}},
		},
		{
			"negative height",
			room.Data{Dimensions: room.Dimensions{Width: 5, Length: 6, Height: -1}},
		},
		{
			"zero total absorption",
			room.Data{
				Dimensions: room.Dimensions{Width: 5, Length: 6, Height: 2.8},
				Surfaces: []room.Surface{
					{Type: room.SurfaceWall, Area: 28, AbsorptionCoefficient: 0},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeProperties(tt.data, Config{})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !IsDegenerate(err) {
				t.Errorf("error %v is not a DegenerateRoomError", err)
			}
		})
	}
}

func TestComputePropertiesEmptySurfaces(t *testing.T) {
	// No surfaces is not fatal: the absorption floor is substituted.
	data := room.Data{Dimensions: room.Dimensions{Width: 5, Length: 6, Height: 2.8}}
	props, err := ComputeProperties(data, Config{})
	if err != nil {
		t.Fatalf("ComputeProperties: %v", err)
	}
	if props.ReverberationTime <= 0 {
		t.Errorf("RT = %f, want > 0 with substituted absorption floor", props.ReverberationTime)
	}
}

func TestClarityAndSTI(t *testing.T) {
	tests := []struct {
		name    string
		rt      float64
		volume  float64
		clarity float64
		sti     float64
	}{
		// clarity = max(0,10−3·RT)·(0.8+0.2·min(1,V/100))
		// sti     = max(0,1−0.08·RT)·(0.9+0.1·min(1,V/150))
		{"dry small room", 0.3, 50, 8.19, 0.910933},
		{"typical room", 0.5, 100, 8.5, 0.928},
		{"large live room", 2.0, 300, 4.0, 0.84},
		{"extreme decay clamps to zero clarity", 4.0, 100, 0, 0.657333},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clarityIndex(tt.rt, tt.volume); math.Abs(got-tt.clarity) > tolerance {
				t.Errorf("clarityIndex(%f, %f) = %f, want %f", tt.rt, tt.volume, got, tt.clarity)
			}
			if got := speechTransmissionIndex(tt.rt, tt.volume); math.Abs(got-tt.sti) > tolerance {
				t.Errorf("speechTransmissionIndex(%f, %f) = %f, want %f", tt.rt, tt.volume, got, tt.sti)
			}
		})
	}
}

func TestModesCountAndOrder(t *testing.T) {
	modes := Modes(room.Dimensions{Width: 5, Length: 6, Height: 2.8}, Config{})

	if len(modes) != 215 {
		t.Fatalf("mode count = %d, want 215", len(modes))
	}
	if !sort.Float64sAreSorted(modes) {
		t.Error("modes not sorted ascending")
	}

	// Lowest mode is the first-order length axial: 343/(2·6).
	if math.Abs(modes[0]-343.0/12.0) > tolerance {
		t.Errorf("lowest mode = %f, want %f", modes[0], 343.0/12.0)
	}
	for _, f := range modes {
		if f <= 0 {
			t.Fatalf("non-positive mode frequency %f", f)
		}
	}
}

func TestModesCustomOrder(t *testing.T) {
	modes := Modes(room.Dimensions{Width: 4, Length: 5, Height: 2.5}, Config{MaxModeOrder: 2})
	if want := 3*3*3 - 1; len(modes) != want {
		t.Errorf("mode count = %d, want %d", len(modes), want)
	}
}

func TestModesBelow(t *testing.T) {
	modes := []float64{20, 40, 60, 79.9, 80, 120}
	low := ModesBelow(modes, 80)
	if len(low) != 4 {
		t.Errorf("ModesBelow returned %d modes, want 4 (cutoff is exclusive)", len(low))
	}
}

func TestSchroederFrequency(t *testing.T) {
	if got := SchroederFrequency(0.5, 80); math.Abs(got-2000*math.Sqrt(0.5/80)) > tolerance {
		t.Errorf("SchroederFrequency = %f", got)
	}
	if got := SchroederFrequency(0, 80); got != 0 {
		t.Errorf("SchroederFrequency with zero RT = %f, want 0", got)
	}
	if got := SchroederFrequency(0.5, 0); got != 0 {
		t.Errorf("SchroederFrequency with zero volume = %f, want 0", got)
	}
}

func TestModeSpacing(t *testing.T) {
	// Evenly spaced synthetic modes: spacing 10 Hz, deviation 0.
	modes := []float64{10, 20, 30, 40, 50, 90, 110}
	stats := ModeSpacing(modes, 60)

	if stats.Count != 5 {
		t.Errorf("count = %d, want 5", stats.Count)
	}
	if math.Abs(stats.MeanHz-10) > tolerance {
		t.Errorf("mean spacing = %f, want 10", stats.MeanHz)
	}
	if math.Abs(stats.StdHz) > tolerance {
		t.Errorf("spacing stddev = %f, want 0", stats.StdHz)
	}

	empty := ModeSpacing([]float64{200, 300}, 80)
	if empty.Count != 0 || empty.MeanHz != 0 || empty.StdHz != 0 {
		t.Errorf("expected zero stats for no qualifying modes, got %+v", empty)
	}
}
