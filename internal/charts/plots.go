package charts

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/acoustics.report/internal/analyzer"
	"github.com/banshee-data/acoustics.report/internal/security"
)

const decayCurveSteps = 100

// SaveModeHistogram writes a PNG histogram of the room mode frequencies.
func SaveModeHistogram(a *analyzer.RoomAnalysis, path string) error {
	modes := a.Acoustics.RoomModes
	if len(modes) == 0 {
		return fmt.Errorf("no room modes to plot")
	}

	values := make(plotter.Values, len(modes))
	copy(values, modes)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Room Mode Distribution (%.1fm × %.1fm × %.1fm)",
		a.Room.Dimensions.Width, a.Room.Dimensions.Length, a.Room.Dimensions.Height)
	p.X.Label.Text = "Frequency (Hz)"
	p.Y.Label.Text = "Mode count"

	hist, err := plotter.NewHist(values, 24)
	if err != nil {
		return fmt.Errorf("build histogram: %w", err)
	}
	hist.FillColor = color.RGBA{R: 0x31, G: 0x68, B: 0x8e, A: 255}
	p.Add(hist)

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save mode histogram: %w", err)
	}
	return nil
}

// SaveDecayCurve writes a PNG of the idealized sound decay for the room:
// level falls linearly in dB, reaching -60 dB at the reverberation time.
func SaveDecayCurve(a *analyzer.RoomAnalysis, path string) error {
	rt := a.Acoustics.ReverberationTime
	if rt <= 0 {
		// Fully absorptive rooms decay immediately; use a token slope so the
		// plot is still drawable.
		rt = 0.001
	}

	pts := make(plotter.XYs, 0, decayCurveSteps+1)
	for i := 0; i <= decayCurveSteps; i++ {
		t := rt * float64(i) / decayCurveSteps
		pts = append(pts, plotter.XY{X: t, Y: -60 * t / rt})
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Sound Decay (RT60 = %.2fs)", a.Acoustics.ReverberationTime)
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Level (dB)"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("build decay line: %w", err)
	}
	line.Color = color.RGBA{R: 0xff, G: 0x52, B: 0x52, A: 255}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("decay", line)
	p.Legend.Top = true
	p.Legend.Left = false

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save decay curve: %w", err)
	}
	return nil
}

// FormatTimestamp generates a timestamp string for directory naming.
func FormatTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// MakePlotOutputDir builds and creates a timestamped output directory for
// plots. With an input file: <baseDir>/<input_basename>/<timestamp>.
// Without: <baseDir>/analysis_<timestamp>. The input basename is user
// supplied, so it is sanitized and the joined path is validated to stay
// within baseDir before anything is created.
func MakePlotOutputDir(baseDir, inputFile string) (string, error) {
	ts := FormatTimestamp(time.Now())
	name := "analysis_" + ts
	if inputFile != "" {
		base := filepath.Base(inputFile)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		name = filepath.Join(security.SanitizeFilename(stem), ts)
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return "", fmt.Errorf("create plot base directory: %w", err)
	}
	outDir := filepath.Join(baseDir, name)
	if err := security.ValidatePathWithinDirectory(outDir, baseDir); err != nil {
		return "", fmt.Errorf("invalid plot directory: %w", err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create plot directory: %w", err)
	}
	return outDir, nil
}
