package stdbscan

import (
	"context"
	"math"
	"runtime"
)

// Params configures one clustering invocation.
type Params struct {
	// SpatialLimit is the neighbourhood radius over rescaled spatial
	// distance. Must be positive.
	SpatialLimit float64
	// TemporalLimit is the neighbourhood radius over DTW distance.
	// Must be positive.
	TemporalLimit float64
	// Steepness controls the logistic density rescale. Must be positive.
	Steepness float64
	// MinimumNeighbors is the core-point cardinality threshold, counting
	// the point itself. Must be at least one.
	MinimumNeighbors int
	// Window is the optional DTW band half-width. Nil selects
	// DefaultWindow for the series length.
	Window *int
	// Bandwidth is the optional KDE bandwidth. Zero selects
	// ScottBandwidth over the coordinate spread.
	Bandwidth float64
	// Workers bounds the goroutines used for pairwise matrix fills.
	// Zero selects runtime.NumCPU.
	Workers int
}

// Engine clusters spatio-temporal entities. It is stateless between
// invocations; every call to Cluster is an independent batch computation.
type Engine struct {
	params Params
}

// NewEngine creates an engine with the given parameters.
func NewEngine(params Params) *Engine {
	return &Engine{params: params}
}

// Params returns the engine's current parameters.
func (e *Engine) Params() Params {
	return e.params
}

// SetParams replaces the engine's parameters.
func (e *Engine) SetParams(params Params) {
	e.params = params
}

// Cluster runs the full pipeline: density-rescaled spatial distances,
// band-constrained DTW temporal distances, neighbour graph, and
// density-reachability expansion. It returns one label per point, a
// cluster id ≥ 0 or Noise.
//
// coords is N×2 (longitude, latitude); series is N×M with a fixed M.
// The context is observed at coarse checkpoints between pipeline phases,
// not inside the numeric inner loops.
func (e *Engine) Cluster(ctx context.Context, coords [][2]float64, series [][]float64) ([]int, error) {
	if err := e.validate(coords, series); err != nil {
		return nil, err
	}
	n := len(coords)
	if n == 0 {
		return []int{}, nil
	}
	m := len(series[0])

	w := DefaultWindow(m)
	if e.params.Window != nil {
		w = *e.params.Window
	}
	if err := (band{w: w, m: m}).validate(); err != nil {
		return nil, err
	}

	workers := e.params.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	raw := spatialDistances(coords, workers)
	h := e.params.Bandwidth
	if h <= 0 {
		h = ScottBandwidth(coords)
	}
	density := kernelDensity(raw, h, workers)
	spatial := rescaleDistances(raw, density, e.params.Steepness, workers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	temporal, err := temporalDistances(series, w, workers)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	graph := BuildNeighborGraph(spatial, temporal, e.params.SpatialLimit, e.params.TemporalLimit)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return ExpandClusters(graph, e.params.MinimumNeighbors)
}

// validate fails fast on malformed shapes, bad parameters, or
// non-finite values, before any heavy computation begins.
func (e *Engine) validate(coords [][2]float64, series [][]float64) error {
	if len(coords) != len(series) {
		return validationErrorf("spatial rows (%d) and temporal rows (%d) differ", len(coords), len(series))
	}
	if e.params.SpatialLimit <= 0 {
		return validationErrorf("s_limit must be positive, got %g", e.params.SpatialLimit)
	}
	if e.params.TemporalLimit <= 0 {
		return validationErrorf("t_limit must be positive, got %g", e.params.TemporalLimit)
	}
	if e.params.Steepness <= 0 {
		return validationErrorf("steepness must be positive, got %g", e.params.Steepness)
	}
	if e.params.MinimumNeighbors < 1 {
		return validationErrorf("minimum_neighbors must be >= 1, got %d", e.params.MinimumNeighbors)
	}
	if len(series) == 0 {
		return nil
	}
	m := len(series[0])
	if m == 0 {
		return validationErrorf("series length must be >= 1")
	}
	for i, row := range series {
		if len(row) != m {
			return validationErrorf("ragged temporal rows: row %d has length %d, want %d", i, len(row), m)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return validationErrorf("non-finite value in series %d at index %d", i, j)
			}
		}
	}
	for i, c := range coords {
		for axis := 0; axis < 2; axis++ {
			if math.IsNaN(c[axis]) || math.IsInf(c[axis], 0) {
				return validationErrorf("non-finite coordinate for point %d", i)
			}
		}
	}
	return nil
}
