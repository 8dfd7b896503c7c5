package store

import (
	"path/filepath"
	"testing"

	"github.com/banshee-data/trajectory.report/internal/db"
	"github.com/banshee-data/trajectory.report/internal/stdbscan"
)

func testStore(t *testing.T) *RunStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	database, err := db.NewDB(path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := database.MigrateUp("../../migrations"); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewRunStore(database)
}

func testParams() stdbscan.Params {
	return stdbscan.Params{
		SpatialLimit:     1.5,
		TemporalLimit:    2.0,
		Steepness:        1.0,
		MinimumNeighbors: 3,
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := testStore(t)
	coords := [][2]float64{{0, 0}, {0.1, 0}, {10, 10}}
	labels := []int{0, 0, -1}

	runID, err := s.SaveRun(testParams(), coords, labels)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	run, err := s.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run.Points != 3 {
		t.Errorf("Points = %d, want 3", run.Points)
	}
	if run.Clusters != 1 {
		t.Errorf("Clusters = %d, want 1", run.Clusters)
	}
	if run.NoisePoints != 1 {
		t.Errorf("NoisePoints = %d, want 1", run.NoisePoints)
	}
	if run.SpatialLimit != 1.5 || run.TemporalLimit != 2.0 {
		t.Errorf("limits = %g/%g, want 1.5/2", run.SpatialLimit, run.TemporalLimit)
	}
	if run.Window != nil {
		t.Errorf("Window = %v, want nil for auto", *run.Window)
	}
}

func TestSaveRun_ExplicitWindow(t *testing.T) {
	s := testStore(t)
	params := testParams()
	w := 4
	params.Window = &w
	params.Bandwidth = 0.25

	runID, err := s.SaveRun(params, [][2]float64{{1, 1}}, []int{-1})
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	run, err := s.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run.Window == nil || *run.Window != 4 {
		t.Errorf("Window = %v, want 4", run.Window)
	}
	if run.Bandwidth != 0.25 {
		t.Errorf("Bandwidth = %g, want 0.25", run.Bandwidth)
	}
}

func TestGetLabels(t *testing.T) {
	s := testStore(t)
	coords := [][2]float64{{0, 0}, {1, 1}, {2, 2}}
	labels := []int{1, 0, -1}

	runID, err := s.SaveRun(testParams(), coords, labels)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	got, err := s.GetLabels(runID)
	if err != nil {
		t.Fatalf("GetLabels failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d labels, want 3", len(got))
	}
	for i, l := range got {
		if l.PointIndex != i {
			t.Errorf("label %d out of order: index %d", i, l.PointIndex)
		}
		if l.Cluster != labels[i] {
			t.Errorf("label %d cluster = %d, want %d", i, l.Cluster, labels[i])
		}
		if l.Lon != coords[i][0] || l.Lat != coords[i][1] {
			t.Errorf("label %d coords = (%g,%g), want (%g,%g)", i, l.Lon, l.Lat, coords[i][0], coords[i][1])
		}
	}
}

func TestSaveRun_LengthMismatch(t *testing.T) {
	s := testStore(t)
	if _, err := s.SaveRun(testParams(), [][2]float64{{0, 0}}, []int{0, 1}); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

func TestListRuns(t *testing.T) {
	s := testStore(t)
	ids := make(map[string]bool)
	for i := 0; i < 3; i++ {
		id, err := s.SaveRun(testParams(), [][2]float64{{float64(i), 0}}, []int{-1})
		if err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
		ids[id] = true
	}

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	for _, r := range runs {
		if !ids[r.RunID] {
			t.Errorf("unexpected run id %s", r.RunID)
		}
	}

	limited, err := s.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d runs with limit 2", len(limited))
	}
}

func TestGetRun_Missing(t *testing.T) {
	s := testStore(t)
	if _, err := s.GetRun("does-not-exist"); err == nil {
		t.Fatal("expected error for missing run")
	}
}
