// Package store persists clustering runs and their per-point labels.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/banshee-data/trajectory.report/internal/db"
	"github.com/banshee-data/trajectory.report/internal/stdbscan"
)

// Run is a persisted clustering run: the parameters it ran with and
// summary counts over its labels.
type Run struct {
	RunID            string
	SpatialLimit     float64
	TemporalLimit    float64
	Steepness        float64
	MinimumNeighbors int
	Window           *int
	Bandwidth        float64
	Points           int
	Clusters         int
	NoisePoints      int
	CreatedAt        string
}

// Label is one point's cluster assignment within a run.
type Label struct {
	PointIndex int
	Lon        float64
	Lat        float64
	Cluster    int
}

type RunStore struct {
	db *db.DB
}

func NewRunStore(database *db.DB) *RunStore {
	return &RunStore{db: database}
}

// SaveRun records a completed run and its labels in one transaction
// and returns the generated run id.
func (s *RunStore) SaveRun(params stdbscan.Params, coords [][2]float64, labels []int) (string, error) {
	if len(coords) != len(labels) {
		return "", fmt.Errorf("%d coordinates but %d labels", len(coords), len(labels))
	}

	runID := uuid.NewString()
	clusters, noise := summarise(labels)

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var window sql.NullInt64
	if params.Window != nil {
		window = sql.NullInt64{Int64: int64(*params.Window), Valid: true}
	}
	var bandwidth sql.NullFloat64
	if params.Bandwidth > 0 {
		bandwidth = sql.NullFloat64{Float64: params.Bandwidth, Valid: true}
	}

	_, err = tx.Exec(
		`INSERT INTO runs (
			run_id, s_limit, t_limit, steepness, minimum_neighbors,
			window, bandwidth, points, clusters, noise_points
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, params.SpatialLimit, params.TemporalLimit, params.Steepness,
		params.MinimumNeighbors, window, bandwidth,
		len(labels), clusters, noise,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	insert, err := tx.Prepare(
		`INSERT INTO run_labels (run_id, point_index, lon, lat, cluster) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare label insert: %w", err)
	}
	defer insert.Close()

	for i, c := range coords {
		if _, err := insert.Exec(runID, i, c[0], c[1], labels[i]); err != nil {
			return "", fmt.Errorf("failed to insert label %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// GetRun fetches a single run by id.
func (s *RunStore) GetRun(runID string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT run_id, s_limit, t_limit, steepness, minimum_neighbors,
			window, bandwidth, points, clusters, noise_points, created_at
		FROM runs WHERE run_id = ?`, runID)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// GetLabels fetches a run's labels in point-index order.
func (s *RunStore) GetLabels(runID string) ([]Label, error) {
	rows, err := s.db.Query(
		`SELECT point_index, lon, lat, cluster FROM run_labels
		WHERE run_id = ? ORDER BY point_index`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []Label
	for rows.Next() {
		var l Label
		if err := rows.Scan(&l.PointIndex, &l.Lon, &l.Lat, &l.Cluster); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return labels, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *RunStore) ListRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT run_id, s_limit, t_limit, steepness, minimum_neighbors,
			window, bandwidth, points, clusters, noise_points, created_at
		FROM runs ORDER BY created_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run       Run
		window    sql.NullInt64
		bandwidth sql.NullFloat64
	)
	err := row.Scan(
		&run.RunID, &run.SpatialLimit, &run.TemporalLimit, &run.Steepness,
		&run.MinimumNeighbors, &window, &bandwidth,
		&run.Points, &run.Clusters, &run.NoisePoints, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if window.Valid {
		w := int(window.Int64)
		run.Window = &w
	}
	if bandwidth.Valid {
		run.Bandwidth = bandwidth.Float64
	}
	return &run, nil
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
