// Command stcluster clusters spatio-temporal observations: points with
// both a map position and an attached time series. It reads coordinate
// and series CSVs, runs density-rescaled DBSCAN with band-constrained
// DTW distances, and writes labels to CSV, sqlite, and an HTML report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/banshee-data/trajectory.report/internal/config"
	"github.com/banshee-data/trajectory.report/internal/db"
	"github.com/banshee-data/trajectory.report/internal/report"
	"github.com/banshee-data/trajectory.report/internal/stdbscan"
	"github.com/banshee-data/trajectory.report/internal/store"
	"github.com/banshee-data/trajectory.report/internal/trajio"
	"github.com/banshee-data/trajectory.report/internal/version"
)

var (
	coordsPath  = flag.String("coords", "", "Coordinates CSV (lon,lat per row)")
	seriesPath  = flag.String("series", "", "Series CSV (one trajectory per row)")
	configPath  = flag.String("config", "", "Tuning config JSON (optional)")
	dbPath      = flag.String("db", "stcluster.db", "Sqlite database for run history (empty to skip)")
	outPath     = flag.String("out", "", "Labels CSV output path (optional)")
	reportPath  = flag.String("report", "", "Cluster scatter HTML output path (optional)")
	migrateCmd  = flag.String("migrate", "", "Run a migration command (up, down, version) and exit")
	migrations  = flag.String("migrations", "migrations", "Migrations directory")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("stcluster %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if *migrateCmd != "" {
		if err := runMigrate(*migrateCmd); err != nil {
			log.Fatalf("migrate %s failed: %v", *migrateCmd, err)
		}
		return
	}

	if *coordsPath == "" || *seriesPath == "" {
		log.Fatal("both -coords and -series are required")
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	coords, err := trajio.LoadCoordinates(*coordsPath)
	if err != nil {
		log.Fatalf("failed to load coordinates: %v", err)
	}
	series, err := trajio.LoadSeries(*seriesPath)
	if err != nil {
		log.Fatalf("failed to load series: %v", err)
	}
	log.Printf("loaded %d points, series length %d", len(coords), seriesLen(series))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	params := cfg.Params()
	engine := stdbscan.NewEngine(params)
	labels, err := engine.Cluster(ctx, coords, series)
	if err != nil {
		log.Fatalf("clustering failed: %v", err)
	}

	clusters, noise := summarise(labels)
	log.Printf("clustered %d points into %d clusters (%d noise)", len(labels), clusters, noise)

	if *dbPath != "" {
		runID, err := persist(params, coords, labels)
		if err != nil {
			log.Fatalf("failed to persist run: %v", err)
		}
		log.Printf("saved run %s to %s", runID, *dbPath)
	}

	if *outPath != "" {
		if err := trajio.WriteLabels(*outPath, coords, labels); err != nil {
			log.Fatalf("failed to write labels: %v", err)
		}
		log.Printf("wrote labels to %s", *outPath)
	}

	if *reportPath != "" {
		title := fmt.Sprintf("%d clusters over %d points", clusters, len(labels))
		if err := report.WriteClusterScatter(*reportPath, title, coords, labels); err != nil {
			log.Fatalf("failed to write report: %v", err)
		}
		log.Printf("wrote report to %s", *reportPath)
	}
}

func runMigrate(cmd string) error {
	database, err := db.NewDB(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	switch cmd {
	case "up":
		return database.MigrateUp(*migrations)
	case "down":
		return database.MigrateDown(*migrations)
	case "version":
		v, dirty, err := database.MigrateVersion(*migrations)
		if err != nil {
			return err
		}
		log.Printf("database %s at version %d (dirty=%v)", *dbPath, v, dirty)
		return nil
	default:
		return fmt.Errorf("unknown migrate command %q (want up, down, or version)", cmd)
	}
}

func persist(params stdbscan.Params, coords [][2]float64, labels []int) (string, error) {
	database, err := db.NewDB(*dbPath)
	if err != nil {
		return "", err
	}
	defer database.Close()

	if err := database.CheckMigrations(*migrations); err != nil {
		return "", err
	}
	return store.NewRunStore(database).SaveRun(params, coords, labels)
}

func seriesLen(series [][]float64) int {
	if len(series) == 0 {
		return 0
	}
	return len(series[0])
}

func summarise(labels []int) (clusters, noise int) {
	maxID := -1
	for _, l := range labels {
		if l == stdbscan.Noise {
			noise++
		} else if l > maxID {
			maxID = l
		}
	}
	return maxID + 1, noise
}
