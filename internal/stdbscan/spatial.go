package stdbscan

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MinBandwidth is the floor applied when the rule-of-thumb bandwidth
// degenerates to zero or NaN (all points coincident, or N == 1).
const MinBandwidth = 1e-9

const invSqrt2Pi = 0.3989422804014327

// SpatialDistances computes the symmetric N×N Euclidean distance matrix
// over (longitude, latitude) pairs. Coordinates are treated as planar.
func SpatialDistances(coords [][2]float64) [][]float64 {
	return spatialDistances(coords, 1)
}

func spatialDistances(coords [][2]float64, workers int) [][]float64 {
	n := len(coords)
	d := newMatrix(n)
	// Each worker owns rows [lo,hi) of the upper triangle plus the
	// mirrored cells, so no two workers write the same cell.
	parallelRows(n, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			for j := i + 1; j < n; j++ {
				dx := coords[i][0] - coords[j][0]
				dy := coords[i][1] - coords[j][1]
				v := math.Hypot(dx, dy)
				d[i][j] = v
				d[j][i] = v
			}
		}
	})
	return d
}

// ScottBandwidth derives a kernel bandwidth from the spread of the
// spatial coordinates using Scott's rule for two dimensions,
// h = σ · N^(-1/6), with σ the mean of the per-axis standard deviations.
// The result is floored at MinBandwidth so coincident inputs stay usable.
func ScottBandwidth(coords [][2]float64) float64 {
	n := len(coords)
	if n < 2 {
		return MinBandwidth
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, c := range coords {
		xs[i] = c[0]
		ys[i] = c[1]
	}
	sigma := (stat.StdDev(xs, nil) + stat.StdDev(ys, nil)) / 2
	h := sigma * math.Pow(float64(n), -1.0/6.0)
	if math.IsNaN(h) || h < MinBandwidth {
		return MinBandwidth
	}
	return h
}

// KernelDensity estimates a per-point density from the raw spatial
// distance matrix using a Gaussian kernel with bandwidth h, normalised
// by N. The self term is included, so every density is strictly positive.
func KernelDensity(raw [][]float64, h float64) []float64 {
	return kernelDensity(raw, h, 1)
}

func kernelDensity(raw [][]float64, h float64, workers int) []float64 {
	n := len(raw)
	if h < MinBandwidth {
		h = MinBandwidth
	}
	rho := make([]float64, n)
	norm := invSqrt2Pi / (float64(n) * h)
	parallelRows(n, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			var sum float64
			for j := 0; j < n; j++ {
				u := raw[i][j] / h
				sum += math.Exp(-0.5 * u * u)
			}
			rho[i] = norm * sum
		}
	})
	return rho
}

// RescaleDistances applies the density-modulated logistic transform to
// the raw spatial distance matrix:
//
//	d'[i][j] = d[i][j] · σ(k, ρi, ρj)
//	σ       = 2 / (1 + exp(k · ρ̄ / ρmax)),  ρ̄ = (ρi + ρj) / 2
//
// σ is 1 when the pair density is zero, decreases monotonically as the
// pair density grows, and never exceeds 1, so rescaled distances shrink
// in dense neighbourhoods and are left unchanged in sparse ones. The
// normalisation by the maximum density keeps the steepness k scale-free.
func RescaleDistances(raw [][]float64, density []float64, steepness float64) [][]float64 {
	return rescaleDistances(raw, density, steepness, 1)
}

func rescaleDistances(raw [][]float64, density []float64, steepness float64, workers int) [][]float64 {
	n := len(raw)
	var rhoMax float64
	if len(density) > 0 {
		rhoMax = floats.Max(density)
	}
	out := newMatrix(n)
	if rhoMax <= 0 {
		// Degenerate density estimate: leave distances untouched.
		for i := range raw {
			copy(out[i], raw[i])
		}
		return out
	}
	parallelRows(n, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			for j := i + 1; j < n; j++ {
				mean := (density[i] + density[j]) / 2
				sigma := 2 / (1 + math.Exp(steepness*mean/rhoMax))
				v := raw[i][j] * sigma
				out[i][j] = v
				out[j][i] = v
			}
		}
	})
	return out
}

func newMatrix(n int) [][]float64 {
	backing := make([]float64, n*n)
	m := make([][]float64, n)
	for i := range m {
		m[i] = backing[i*n : (i+1)*n : (i+1)*n]
	}
	return m
}
