package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/acoustics.report/internal/acoustics"
	"github.com/banshee-data/acoustics.report/internal/analyzer"
	"github.com/banshee-data/acoustics.report/internal/charts"
	"github.com/banshee-data/acoustics.report/internal/config"
	"github.com/banshee-data/acoustics.report/internal/db"
	"github.com/banshee-data/acoustics.report/internal/room"
	"github.com/banshee-data/acoustics.report/internal/units"
	"github.com/banshee-data/acoustics.report/internal/version"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// convertSummaryUnits converts the length and volume fields of a summary row
// from the stored meters into the server's display units.
func (s *Server) convertSummaryUnits(sum db.AnalysisSummary) db.AnalysisSummary {
	sum.Width = units.ConvertLength(sum.Width, s.units)
	sum.Length = units.ConvertLength(sum.Length, s.units)
	sum.Height = units.ConvertLength(sum.Height, s.units)
	sum.Volume = units.ConvertVolume(sum.Volume, s.units)
	return sum
}

type Server struct {
	db       *db.DB
	analyzer *analyzer.Analyzer
	units    string
	tuning   *config.TuningConfig
}

func NewServer(database *db.DB, a *analyzer.Analyzer, displayUnits string, tuning *config.TuningConfig) *Server {
	if tuning == nil {
		tuning = config.EmptyTuningConfig()
	}
	return &Server{
		db:       database,
		analyzer: a,
		units:    displayUnits,
		tuning:   tuning,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400 && statusCode < 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyses", s.handleAnalyses)
	mux.HandleFunc("/api/analyses/", s.handleAnalysisByID)
	mux.HandleFunc("/api/materials", s.listMaterials)
	mux.HandleFunc("/api/config", s.showConfig)
	return mux
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// handleAnalyses handles list and create operations.
func (s *Server) handleAnalyses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listAnalyses(w, r)
	case http.MethodPost:
		s.createAnalysis(w, r)
	default:
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// createAnalysis runs a full analysis on the posted room description and
// stores the result. Responds with the complete analysis document.
func (s *Server) createAnalysis(w http.ResponseWriter, r *http.Request) {
	var data room.Data
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	if err := data.Validate(); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	analysis, err := s.analyzer.Analyze(data, nil)
	if err != nil {
		if acoustics.IsDegenerate(err) {
			s.writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("analysis failed: %v", err))
		return
	}

	if err := s.db.InsertAnalysis(analysis); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to store analysis: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(analysis)
}

func (s *Server) listAnalyses(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit := 0 // ListAnalyses substitutes its default
	if l := r.URL.Query().Get("limit"); l != "" {
		parsedLimit, err := strconv.Atoi(l)
		if err != nil || parsedLimit < 1 {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
		limit = parsedLimit
	}

	summaries, err := s.db.ListAnalyses(limit)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve analyses: %v", err))
		return
	}

	// Apply unit conversion to all dimension values
	for i := range summaries {
		summaries[i] = s.convertSummaryUnits(summaries[i])
	}

	if err := json.NewEncoder(w).Encode(summaries); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write analyses")
		return
	}
}

// handleAnalysisByID routes get, delete, and chart requests for one analysis.
// Paths: /api/analyses/{id}, /api/analyses/{id}/charts/{modes|scores}
func (s *Server) handleAnalysisByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/analyses/")
	parts := strings.Split(strings.TrimSpace(path), "/")

	id := parts[0]
	if id == "" {
		s.writeJSONError(w, http.StatusBadRequest, "analysis id is required")
		return
	}

	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			s.getAnalysis(w, r, id)
		case http.MethodDelete:
			s.deleteAnalysis(w, r, id)
		default:
			s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	case len(parts) == 3 && parts[1] == "charts":
		if r.Method != http.MethodGet {
			s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.renderChart(w, r, id, parts[2])
	default:
		s.writeJSONError(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) getAnalysis(w http.ResponseWriter, r *http.Request, id string) {
	analysis, err := s.db.GetAnalysis(id)
	if errors.Is(err, db.ErrAnalysisNotFound) {
		s.writeJSONError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load analysis: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(analysis)
}

func (s *Server) deleteAnalysis(w http.ResponseWriter, r *http.Request, id string) {
	err := s.db.DeleteAnalysis(id)
	if errors.Is(err, db.ErrAnalysisNotFound) {
		s.writeJSONError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("delete failed: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "deleted",
		"id":     id,
	})
}

// renderChart serves an HTML chart for a stored analysis. Charts are rendered
// into a buffer first so failures still produce a JSON error response.
func (s *Server) renderChart(w http.ResponseWriter, r *http.Request, id, kind string) {
	analysis, err := s.db.GetAnalysis(id)
	if errors.Is(err, db.ErrAnalysisNotFound) {
		s.writeJSONError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load analysis: %v", err))
		return
	}

	var buf bytes.Buffer
	switch kind {
	case "modes":
		err = charts.RenderModeSpectrum(&buf, analysis)
	case "scores":
		err = charts.RenderScoreComparison(&buf, analysis)
	default:
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown chart %q", kind))
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) listMaterials(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := json.NewEncoder(w).Encode(room.Materials()); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write materials")
		return
	}
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	config := map[string]interface{}{
		"units":                     s.units,
		"version":                   version.Version,
		"speed_of_sound_mps":        s.tuning.GetSpeedOfSoundMps(),
		"max_mode_order":            s.tuning.GetMaxModeOrder(),
		"absorption_floor":          s.tuning.GetAbsorptionFloor(),
		"background_noise_db":       s.tuning.GetBackgroundNoiseDB(),
		"empty_geometry_confidence": s.tuning.GetEmptyGeometryConfidence(),
	}

	if err := json.NewEncoder(w).Encode(config); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write config")
		return
	}
}
