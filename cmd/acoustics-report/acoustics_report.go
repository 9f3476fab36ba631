// Command acoustics-report runs the room-acoustics analysis service: an HTTP
// API for running and browsing analyses, backed by a SQLite store, plus a
// migrate subcommand for schema management.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/acoustics.report/internal/analyzer"
	"github.com/banshee-data/acoustics.report/internal/api"
	"github.com/banshee-data/acoustics.report/internal/config"
	"github.com/banshee-data/acoustics.report/internal/db"
	"github.com/banshee-data/acoustics.report/internal/room"
	"github.com/banshee-data/acoustics.report/internal/units"
	"github.com/banshee-data/acoustics.report/internal/version"
)

var (
	listen        = flag.String("listen", ":8080", "HTTP listen address")
	dbFile        = flag.String("db", "acoustics_data.db", "Path to the SQLite database file")
	displayUnits  = flag.String("units", units.Metric, "Display units for room dimensions (metric, imperial)")
	tuningFile    = flag.String("tuning", "", "Path to a tuning config JSON file (optional)")
	migrationsDir = flag.String("migrations", "migrations", "Path to the schema migrations directory")
	devMode       = flag.Bool("dev", false, "Run in dev mode (seed an empty store with a demo analysis)")
	showVersion   = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("acoustics-report %s (%s, built %s)\n",
			version.Version, version.GitSHA, version.BuildTime)
		return
	}

	// Subcommands run before any server setup
	if args := flag.Args(); len(args) > 0 {
		switch args[0] {
		case "migrate":
			db.RunMigrateCommand(args[1:], *dbFile, *migrationsDir)
			return
		default:
			log.Fatalf("Unknown command: %s (did you mean 'migrate'?)", args[0])
		}
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	if !units.IsValid(*displayUnits) {
		log.Fatalf("Invalid units %q, valid values are: %s", *displayUnits, units.GetValidUnitsString())
	}

	tuning := config.EmptyTuningConfig()
	if *tuningFile != "" {
		var err error
		tuning, err = config.LoadTuningConfig(*tuningFile)
		if err != nil {
			log.Fatalf("Failed to load tuning config: %v", err)
		}
		log.Printf("Loaded tuning config from %s", *tuningFile)
	}

	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Databases managed by 'migrate up' must be at the latest version before
	// serving. Databases created fresh by NewDB already carry the current
	// schema and are not migration-managed.
	if status, err := database.GetMigrationStatus(*migrationsDir); err == nil {
		if managed, _ := status["schema_migrations_exists"].(bool); managed {
			if needed, err := database.CheckAndPromptMigrations(*migrationsDir); needed {
				log.Fatalf("Migration check failed: %v", err)
			}
		}
	}

	engine := analyzer.New(tuning.AnalyzerConfig())

	if *devMode {
		if err := seedDemoAnalysis(database, engine); err != nil {
			log.Fatalf("Failed to seed demo analysis: %v", err)
		}
	}

	// Create a wait group for the HTTP server routine
	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		// mount the API handlers and the admin debugging routes (tsweb
		// limits /debug to local and tailnet callers)
		mux := api.NewServer(database, engine, *displayUnits, tuning).ServeMux()
		database.AttachAdminRoutes(mux)

		// Health check endpoint
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"status": "ok", "service": "acoustics-report", "timestamp": "%s"}`,
				time.Now().UTC().Format(time.RFC3339))
		})

		// Basic info endpoint
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/html")

			fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head><title>Acoustics Report</title></head>
<body>
	<h1>Acoustics Report</h1>
	<p>HTTP server running on %s, display units: %s</p>
	<ul>
		<li><a href="/health">Health check</a></li>
		<li><a href="/api/analyses">Stored analyses</a></li>
		<li><a href="/api/materials">Material catalog</a></li>
		<li><a href="/api/config">Engine configuration</a></li>
	</ul>
</body>
</html>`, *listen, *displayUnits)
		})

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			log.Printf("Starting HTTP server on %s", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		// Create a shutdown context with a shorter timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			// Force close the server if graceful shutdown fails
			if err := server.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}

		log.Printf("HTTP server routine stopped")
	}()

	// Wait for all goroutines to finish
	wg.Wait()
	log.Printf("Graceful shutdown complete")
}

// seedDemoAnalysis analyzes a sample living room and stores the result, so a
// fresh dev server has data behind /api/analyses and the chart routes. Stores
// that already hold analyses are left alone.
func seedDemoAnalysis(database *db.DB, engine *analyzer.Analyzer) error {
	existing, err := database.ListAnalyses(1)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	drywall, _ := room.MaterialByName("drywall")
	carpet, _ := room.MaterialByName("carpet")
	glass, _ := room.MaterialByName("glass")
	demo := room.Data{
		Dimensions: room.Dimensions{Width: 5, Length: 6, Height: 2.8},
		Surfaces: []room.Surface{
			room.NewSurface(room.SurfaceWall, 28, drywall, room.Vector3{X: 2.5, Y: 1.4}),
			room.NewSurface(room.SurfaceFloor, 30, carpet, room.Vector3{X: 2.5, Z: 3}),
			room.NewSurface(room.SurfaceWindow, 4, glass, room.Vector3{Y: 1.5, Z: 3}),
		},
		Obstacles: []room.Obstacle{
			{
				Type:     room.ObstacleFurniture,
				Position: room.Vector3{X: 2.5, Y: 0.4, Z: 3.5},
				Size:     room.Vector3{X: 2, Y: 0.8, Z: 0.9},
			},
		},
	}

	analysis, err := engine.Analyze(demo, nil)
	if err != nil {
		return err
	}
	if err := database.InsertAnalysis(analysis); err != nil {
		return err
	}
	log.Printf("dev mode: seeded demo analysis %s", analysis.ID)
	return nil
}
