package db

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/acoustics.report/internal/analyzer"
	"github.com/banshee-data/acoustics.report/internal/room"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	fname := t.Name() + ".db"
	_ = os.Remove(fname)

	db, err := NewDB(fname)
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}
	return db
}

func cleanupTestDB(t *testing.T, db *DB) {
	t.Helper()
	fname := t.Name() + ".db"
	db.Close()
	_ = os.Remove(fname)
	_ = os.Remove(fname + "-shm")
	_ = os.Remove(fname + "-wal")
}

// sampleAnalysis runs a real analysis over a small fixture room so stored
// rows look like production data.
func sampleAnalysis(t *testing.T) *analyzer.RoomAnalysis {
	t.Helper()

	drywall, _ := room.MaterialByName("drywall")
	carpet, _ := room.MaterialByName("carpet")
	data := room.Data{
		Dimensions: room.Dimensions{Width: 5, Length: 6, Height: 2.8},
		Surfaces: []room.Surface{
			room.NewSurface(room.SurfaceWall, 28, drywall, room.Vector3{}),
			room.NewSurface(room.SurfaceFloor, 30, carpet, room.Vector3{}),
		},
	}

	a, err := analyzer.New(analyzer.Config{}).Analyze(data, nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	return a
}

func TestInsertAndGetAnalysis(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	want := sampleAnalysis(t)
	if err := db.InsertAnalysis(want); err != nil {
		t.Fatalf("InsertAnalysis failed: %v", err)
	}

	got, err := db.GetAnalysis(want.ID)
	if err != nil {
		t.Fatalf("GetAnalysis failed: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Stored analysis mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertAnalysisSummaryColumns(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	a := sampleAnalysis(t)
	if err := db.InsertAnalysis(a); err != nil {
		t.Fatalf("InsertAnalysis failed: %v", err)
	}

	var (
		volume   float64
		rt       float64
		best     string
		issues   int
		topScore float64
	)
	err := db.QueryRow(
		`SELECT volume, reverberation_time, best_configuration, issue_count, top_score
		FROM analyses WHERE id = ?`, a.ID,
	).Scan(&volume, &rt, &best, &issues, &topScore)
	if err != nil {
		t.Fatalf("Failed to query summary columns: %v", err)
	}

	if volume != a.Room.Dimensions.Volume() {
		t.Errorf("volume = %f, want %f", volume, a.Room.Dimensions.Volume())
	}
	if rt != a.Acoustics.ReverberationTime {
		t.Errorf("reverberation_time = %f, want %f", rt, a.Acoustics.ReverberationTime)
	}
	if best != string(a.BestConfiguration) {
		t.Errorf("best_configuration = %q, want %q", best, a.BestConfiguration)
	}
	if issues != len(a.Issues) {
		t.Errorf("issue_count = %d, want %d", issues, len(a.Issues))
	}
	if topScore != a.SpeakerSystems[0].OverallScore {
		t.Errorf("top_score = %f, want %f", topScore, a.SpeakerSystems[0].OverallScore)
	}
}

func TestGetAnalysisNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	_, err := db.GetAnalysis("no-such-id")
	if !errors.Is(err, ErrAnalysisNotFound) {
		t.Errorf("Expected ErrAnalysisNotFound, got %v", err)
	}
}

func TestDeleteAnalysis(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	a := sampleAnalysis(t)
	if err := db.InsertAnalysis(a); err != nil {
		t.Fatalf("InsertAnalysis failed: %v", err)
	}

	if err := db.DeleteAnalysis(a.ID); err != nil {
		t.Fatalf("DeleteAnalysis failed: %v", err)
	}

	if _, err := db.GetAnalysis(a.ID); !errors.Is(err, ErrAnalysisNotFound) {
		t.Errorf("Expected ErrAnalysisNotFound after delete, got %v", err)
	}

	// Deleting again reports not found.
	if err := db.DeleteAnalysis(a.ID); !errors.Is(err, ErrAnalysisNotFound) {
		t.Errorf("Expected ErrAnalysisNotFound on second delete, got %v", err)
	}
}

func TestListAnalysesOrdering(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		a := sampleAnalysis(t)
		a.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := db.InsertAnalysis(a); err != nil {
			t.Fatalf("InsertAnalysis failed: %v", err)
		}
		ids = append(ids, a.ID)
	}

	summaries, err := db.ListAnalyses(2)
	if err != nil {
		t.Fatalf("ListAnalyses failed: %v", err)
	}

	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}
	// Newest first.
	if summaries[0].ID != ids[2] {
		t.Errorf("summaries[0].ID = %s, want %s", summaries[0].ID, ids[2])
	}
	if summaries[1].ID != ids[1] {
		t.Errorf("summaries[1].ID = %s, want %s", summaries[1].ID, ids[1])
	}
	if !summaries[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("summaries[0].CreatedAt = %v, want %v", summaries[0].CreatedAt, base.Add(2*time.Minute))
	}
}

func TestListAnalysesDefaultLimit(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	a := sampleAnalysis(t)
	if err := db.InsertAnalysis(a); err != nil {
		t.Fatalf("InsertAnalysis failed: %v", err)
	}

	summaries, err := db.ListAnalyses(0)
	if err != nil {
		t.Fatalf("ListAnalyses failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Errorf("Expected 1 summary, got %d", len(summaries))
	}
	if summaries[0].BestConfiguration != string(a.BestConfiguration) {
		t.Errorf("BestConfiguration = %q, want %q", summaries[0].BestConfiguration, a.BestConfiguration)
	}
}

func TestOpenDBDoesNotCreateSchema(t *testing.T) {
	fname := t.Name() + ".db"
	_ = os.Remove(fname)
	defer os.Remove(fname)

	db, err := OpenDB(fname)
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer db.Close()

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='analyses'`).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query sqlite_master: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no analyses table from OpenDB, found %d", count)
	}
}
