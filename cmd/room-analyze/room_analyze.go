// Command room-analyze runs the acoustic analysis pipeline over a room
// description file and reports the results: text or JSON output, optional
// PNG plots, and optional persistence into the service database.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/acoustics.report/internal/analyzer"
	"github.com/banshee-data/acoustics.report/internal/charts"
	"github.com/banshee-data/acoustics.report/internal/config"
	"github.com/banshee-data/acoustics.report/internal/db"
	"github.com/banshee-data/acoustics.report/internal/monitoring"
	"github.com/banshee-data/acoustics.report/internal/report"
	"github.com/banshee-data/acoustics.report/internal/room"
	"github.com/banshee-data/acoustics.report/internal/units"
	"github.com/banshee-data/acoustics.report/internal/version"
)

// Config holds configuration for one analysis run.
type Config struct {
	InputFile   string
	OutputFile  string
	Format      string
	PlotsDir    string
	DBPath      string
	Units       string
	TuningFile  string
	Quiet       bool
	ShowVersion bool
}

func main() {
	cfg := parseFlags()

	if cfg.ShowVersion {
		fmt.Printf("room-analyze %s (%s, built %s)\n",
			version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if cfg.InputFile == "" {
		fmt.Fprintln(os.Stderr, "Error: room description file is required")
		flag.Usage()
		os.Exit(1)
	}

	if _, err := os.Stat(cfg.InputFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: room file not found: %s\n", cfg.InputFile)
		os.Exit(1)
	}

	if !units.IsValid(cfg.Units) {
		fmt.Fprintf(os.Stderr, "Error: invalid units %q, valid values are: %s\n",
			cfg.Units, units.GetValidUnitsString())
		os.Exit(1)
	}

	if cfg.Format != "text" && cfg.Format != "json" {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q, valid values are: text, json\n", cfg.Format)
		os.Exit(1)
	}

	if cfg.Quiet {
		monitoring.SetLogger(nil)
	}

	tuning := config.EmptyTuningConfig()
	if cfg.TuningFile != "" {
		var err error
		tuning, err = config.LoadTuningConfig(cfg.TuningFile)
		if err != nil {
			log.Fatalf("Failed to load tuning config: %v", err)
		}
	}

	data, err := loadRoom(cfg.InputFile)
	if err != nil {
		log.Fatalf("Failed to load room: %v", err)
	}
	if err := data.Validate(); err != nil {
		log.Fatalf("Invalid room description: %v", err)
	}

	// Run analysis, rendering pipeline progress on stderr
	engine := analyzer.New(tuning.AnalyzerConfig())
	progressCh, resultCh := engine.AnalyzeAsync(*data)
	for p := range progressCh {
		if !cfg.Quiet {
			fmt.Fprintf(os.Stderr, "[%3.0f%%] %s\n", p.Fraction*100, p.Step)
		}
	}
	result := <-resultCh
	if result.Err != nil {
		log.Fatalf("Analysis failed: %v", result.Err)
	}
	analysis := result.Analysis

	if err := writeOutput(cfg, analysis); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}

	if cfg.PlotsDir != "" {
		if err := savePlots(cfg, analysis); err != nil {
			log.Printf("Warning: plot generation failed: %v", err)
		}
	}

	if cfg.DBPath != "" {
		if err := persistAnalysis(cfg.DBPath, analysis); err != nil {
			log.Printf("Warning: database persistence failed: %v", err)
		} else if !cfg.Quiet {
			fmt.Fprintf(os.Stderr, "Stored analysis %s in %s\n", analysis.ID, cfg.DBPath)
		}
	}
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.InputFile, "input", "", "Path to room description JSON file (required)")
	flag.StringVar(&cfg.OutputFile, "output", "", "Output file (default: stdout)")
	flag.StringVar(&cfg.Format, "format", "text", "Output format: text or json")
	flag.StringVar(&cfg.PlotsDir, "plots", "", "Directory for PNG plots (optional)")
	flag.StringVar(&cfg.DBPath, "db", "", "SQLite database path (optional, for persistence)")
	flag.StringVar(&cfg.Units, "units", units.Metric, "Display units: metric or imperial")
	flag.StringVar(&cfg.TuningFile, "tuning", "", "Path to a tuning config JSON file (optional)")
	flag.BoolVar(&cfg.Quiet, "quiet", false, "Suppress progress and diagnostic output")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Print version information and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Room Acoustics Analyzer and Speaker Placement Planner\n\n")
		fmt.Fprintf(os.Stderr, "This tool runs a room description through the full analysis pipeline:\n")
		fmt.Fprintf(os.Stderr, "  1. Compute acoustic metrics (RT60, clarity, room modes)\n")
		fmt.Fprintf(os.Stderr, "  2. Generate speaker placements for every supported configuration\n")
		fmt.Fprintf(os.Stderr, "  3. Score and rank the configurations for this room\n")
		fmt.Fprintf(os.Stderr, "  4. Detect acoustic defects and suggest treatments\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -input room.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -input room.json -format json -output analysis.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -input room.json -plots ./plots -db acoustics_data.db\n", os.Args[0])
	}

	flag.Parse()
	return cfg
}

func loadRoom(path string) (*room.Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read room file: %w", err)
	}

	var data room.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse room file: %w", err)
	}
	return &data, nil
}

func writeOutput(cfg Config, analysis *analyzer.RoomAnalysis) error {
	out := os.Stdout
	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if cfg.Format == "json" {
		data, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return fmt.Errorf("JSON marshal: %w", err)
		}
		data = append(data, '\n')
		if _, err := out.Write(data); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
	} else {
		if err := report.Write(out, analysis, cfg.Units); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	if cfg.OutputFile != "" && !cfg.Quiet {
		fmt.Fprintf(os.Stderr, "Results: %s\n", cfg.OutputFile)
	}
	return nil
}

func savePlots(cfg Config, analysis *analyzer.RoomAnalysis) error {
	outDir, err := charts.MakePlotOutputDir(cfg.PlotsDir, cfg.InputFile)
	if err != nil {
		return err
	}

	if err := charts.SaveModeHistogram(analysis, filepath.Join(outDir, "room_modes.png")); err != nil {
		return err
	}
	if err := charts.SaveDecayCurve(analysis, filepath.Join(outDir, "decay_curve.png")); err != nil {
		return err
	}

	if !cfg.Quiet {
		fmt.Fprintf(os.Stderr, "Plots: %s\n", outDir)
	}
	return nil
}

func persistAnalysis(dbPath string, analysis *analyzer.RoomAnalysis) error {
	database, err := db.NewDB(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if err := database.InsertAnalysis(analysis); err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}
