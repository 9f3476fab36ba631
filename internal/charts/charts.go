// Package charts renders acoustic analysis results as HTML charts (served by
// the API) and as PNG plots (written by the CLI).
package charts

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/acoustics.report/internal/acoustics"
	"github.com/banshee-data/acoustics.report/internal/analyzer"
)

// RenderModeSpectrum writes an HTML scatter chart of the room mode spectrum.
// Each point is (frequency, cumulative mode count), so flat stretches expose
// gaps in modal coverage and steep stretches expose clusters.
func RenderModeSpectrum(w io.Writer, a *analyzer.RoomAnalysis) error {
	modes := a.Acoustics.RoomModes

	data := make([]opts.ScatterData, 0, len(modes))
	maxFreq := 0.0
	for i, f := range modes {
		if f > maxFreq {
			maxFreq = f
		}
		data = append(data, opts.ScatterData{Value: []interface{}{f, i + 1}})
	}

	// Add a small padding so points at the edges are visible
	pad := maxFreq * 1.05
	if pad == 0 {
		pad = 1.0
	}

	schroeder := acoustics.SchroederFrequency(a.Acoustics.ReverberationTime, a.Room.Dimensions.Volume())

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Room Mode Spectrum", Theme: "dark", Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Room Mode Spectrum",
			Subtitle: fmt.Sprintf("volume=%.1fm³ modes=%d rt60=%.2fs schroeder=%.1fHz", a.Room.Dimensions.Volume(), len(modes), a.Acoustics.ReverberationTime, schroeder),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: pad, Name: "Frequency (Hz)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Cumulative modes", NameLocation: "middle", NameGap: 40}),
	)

	scatter.AddSeries("modes", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return fmt.Errorf("failed to render mode spectrum: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// RenderScoreComparison writes an HTML bar chart comparing the overall score
// of each evaluated speaker configuration, best first.
func RenderScoreComparison(w io.Writer, a *analyzer.RoomAnalysis) error {
	x := make([]string, 0, len(a.SpeakerSystems))
	y := make([]opts.BarData, 0, len(a.SpeakerSystems))
	for _, sys := range a.SpeakerSystems {
		x = append(x, sys.Configuration.Channels())
		y = append(y, opts.BarData{Value: sys.OverallScore})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Speaker Configuration Scores", Width: "100%", Height: "720px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Speaker Configuration Scores",
			Subtitle: fmt.Sprintf("best=%s rt60=%.2fs volume=%.1fm³", a.BestConfiguration, a.Acoustics.ReverberationTime, a.Room.Dimensions.Volume()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 10, Name: "Score"}),
	)
	bar.SetXAxis(x).
		AddSeries("scores", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.AddCharts(bar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("failed to render score comparison: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
