package db

import (
	"compress/gzip"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"

	"github.com/banshee-data/acoustics.report/internal/analyzer"
)

type DB struct {
	*sql.DB
}

// NewDB opens the analysis store at path, creating the file and the base
// schema if needed. Use OpenDB instead when migrations manage the schema.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS analyses (
			id                 TEXT PRIMARY KEY,
			created_at         TIMESTAMP NOT NULL,
			width              DOUBLE NOT NULL,
			length             DOUBLE NOT NULL,
			height             DOUBLE NOT NULL,
			volume             DOUBLE NOT NULL,
			reverberation_time DOUBLE NOT NULL,
			best_configuration TEXT NOT NULL,
			issue_count        BIGINT NOT NULL,
			top_score          DOUBLE NOT NULL DEFAULT 0,
			analysis_json      TEXT NOT NULL
		);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// OpenDB opens the database without touching the schema. The migrate
// subcommand uses this so migrations stay the only writer of schema changes.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

// ErrAnalysisNotFound is returned when no stored analysis matches the
// requested id.
var ErrAnalysisNotFound = errors.New("analysis not found")

// InsertAnalysis stores a completed analysis. The full result is kept as a
// JSON document; a handful of columns are duplicated for listing and for ad
// hoc queries against the store.
func (db *DB) InsertAnalysis(a *analyzer.RoomAnalysis) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	topScore := 0.0
	if len(a.SpeakerSystems) > 0 {
		topScore = a.SpeakerSystems[0].OverallScore
	}

	_, err = db.Exec(
		`INSERT INTO analyses (
			id, created_at, width, length, height, volume,
			reverberation_time, best_configuration, issue_count, top_score,
			analysis_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.CreatedAt.UTC().Format(time.RFC3339Nano),
		a.Room.Dimensions.Width,
		a.Room.Dimensions.Length,
		a.Room.Dimensions.Height,
		a.Room.Dimensions.Volume(),
		a.Acoustics.ReverberationTime,
		string(a.BestConfiguration),
		len(a.Issues),
		topScore,
		string(payload),
	)
	if err != nil {
		return err
	}
	return nil
}

// GetAnalysis loads the full stored analysis for id.
func (db *DB) GetAnalysis(id string) (*analyzer.RoomAnalysis, error) {
	var payload string
	err := db.QueryRow(`SELECT analysis_json FROM analyses WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAnalysisNotFound
	}
	if err != nil {
		return nil, err
	}

	var a analyzer.RoomAnalysis
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, fmt.Errorf("failed to decode analysis %s: %w", id, err)
	}
	return &a, nil
}

// AnalysisSummary is the listing row for a stored analysis: enough to render
// an index without decoding the full JSON document.
type AnalysisSummary struct {
	ID                string    `json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	Width             float64   `json:"width"`
	Length            float64   `json:"length"`
	Height            float64   `json:"height"`
	Volume            float64   `json:"volume"`
	ReverberationTime float64   `json:"reverberation_time"`
	BestConfiguration string    `json:"best_configuration"`
	IssueCount        int       `json:"issue_count"`
	TopScore          float64   `json:"top_score"`
}

func (s *AnalysisSummary) String() string {
	return fmt.Sprintf(
		"ID: %s, CreatedAt: %s, Volume: %.1f, RT60: %.3f, Best: %s, Issues: %d, TopScore: %.1f",
		s.ID,
		s.CreatedAt.Format(time.RFC3339),
		s.Volume,
		s.ReverberationTime,
		s.BestConfiguration,
		s.IssueCount,
		s.TopScore,
	)
}

// ListAnalyses returns summaries of the most recent analyses, newest first.
// A non-positive limit falls back to 100.
func (db *DB) ListAnalyses(limit int) ([]AnalysisSummary, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.Query(
		`SELECT id, created_at, width, length, height, volume,
			reverberation_time, best_configuration, issue_count, top_score
		FROM analyses ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []AnalysisSummary
	for rows.Next() {
		var (
			s         AnalysisSummary
			createdAt string
		)
		if err := rows.Scan(
			&s.ID,
			&createdAt,
			&s.Width,
			&s.Length,
			&s.Height,
			&s.Volume,
			&s.ReverberationTime,
			&s.BestConfiguration,
			&s.IssueCount,
			&s.TopScore,
		); err != nil {
			return nil, err
		}
		s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for %s: %w", s.ID, err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

// DeleteAnalysis removes a stored analysis. Returns ErrAnalysisNotFound when
// the id has no row.
func (db *DB) DeleteAnalysis(id string) error {
	res, err := db.Exec(`DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAnalysisNotFound
	}
	return nil
}

func (db *DB) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)
	// create a tailSQL instance and point it to our DB
	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://acoustics.db", db.DB, &tailsql.DBOptions{
		Label: "Acoustics DB",
	})

	// mount the tailSQL server on the debug /tailsql path
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("backup", "Create and download a backup of the database now", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		unixTime := time.Now().Unix()
		backupPath := fmt.Sprintf("backup-%d.db", unixTime)
		if _, err := db.DB.Exec("VACUUM INTO ?", backupPath); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", backupPath))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Encoding", "gzip")

		// Send the backup file to the client
		backupFile, err := os.Open(backupPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
			return
		}

		// close the backup file after sending it
		// and remove it from the filesystem
		defer func() {
			backupFile.Close()
			if err := os.Remove(backupPath); err != nil {
				log.Printf("Failed to remove backup file: %v", err)
			}
		}()

		gzipWriter := gzip.NewWriter(w)
		defer gzipWriter.Close()
		if _, err := gzipWriter.Write([]byte{}); err != nil {
			// Need to write something to initialize the gzip header
			http.Error(w, fmt.Sprintf("Failed to initialize gzip writer: %v", err), http.StatusInternalServerError)
			return
		}

		// Copy the backup file content to the gzip writer
		if _, err := io.Copy(gzipWriter, backupFile); err != nil {
			http.Error(w, fmt.Sprintf("Failed to write backup file: %v", err), http.StatusInternalServerError)
			return
		}
	}))
}
