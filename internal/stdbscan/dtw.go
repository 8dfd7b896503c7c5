package stdbscan

import "math"

// DefaultWindow returns the rule-of-thumb Sakoe-Chiba half-width for
// series of length m: ten percent of the length, and at least one.
func DefaultWindow(m int) int {
	w := (m + 9) / 10
	if w < 1 {
		w = 1
	}
	return w
}

// band describes the admissible region for a warping path: a Sakoe-Chiba
// band of base half-width w, widened along the diagonal by a
// Paliwal-style position-dependent adjustment. The effective half-width
// at row a is
//
//	w_eff(a) = w + ceil(w · a / (m-1))
//
// which grows monotonically toward the far boundary, keeps the region
// connected, and always admits the corners (0,0) and (m-1,m-1).
type band struct {
	w int
	m int
}

func (bd band) halfWidth(a int) int {
	if bd.m < 2 {
		return bd.w
	}
	return bd.w + int(math.Ceil(float64(bd.w)*float64(a)/float64(bd.m-1)))
}

// bounds returns the inclusive admissible column range for row a.
func (bd band) bounds(a int) (lo, hi int) {
	we := bd.halfWidth(a)
	lo = a - we
	hi = a + we
	if lo < 0 {
		lo = 0
	}
	if hi > bd.m-1 {
		hi = bd.m - 1
	}
	return lo, hi
}

// validate rejects bands that cannot admit any warping path. A
// zero-width band on series of length two or more degenerates to
// lock-step comparison, which is not a warping path.
func (bd band) validate() error {
	if bd.m >= 2 && bd.w < 1 {
		return configurationErrorf("window %d admits no warping path for series length %d", bd.w, bd.m)
	}
	return nil
}

// DTW computes the band-constrained dynamic-time-warping distance
// between two equal-length series using half-width w. The elementwise
// cost is the absolute difference. Complexity is O(m·w) in time and
// O(m) in memory; cells outside the band are never visited.
func DTW(x, y []float64, w int) (float64, error) {
	bd := band{w: w, m: len(x)}
	if err := bd.validate(); err != nil {
		return 0, err
	}
	prev := make([]float64, len(x))
	curr := make([]float64, len(x))
	return dtwWithScratch(x, y, bd, prev, curr), nil
}

// dtwWithScratch runs the banded DP recurrence using caller-owned row
// buffers so pairwise sweeps can reuse allocations. Reads outside the
// previous row's admissible interval are treated as infinite cost.
func dtwWithScratch(x, y []float64, bd band, prev, curr []float64) float64 {
	m := len(x)
	if m == 0 {
		return 0
	}

	lo, hi := bd.bounds(0)
	prev[0] = math.Abs(x[0] - y[0])
	for b := lo + 1; b <= hi; b++ {
		prev[b] = prev[b-1] + math.Abs(x[0]-y[b])
	}
	prevLo, prevHi := lo, hi

	for a := 1; a < m; a++ {
		lo, hi = bd.bounds(a)
		for b := lo; b <= hi; b++ {
			best := math.Inf(1)
			if b >= prevLo && b <= prevHi {
				best = prev[b]
			}
			if b-1 >= prevLo && b-1 <= prevHi && prev[b-1] < best {
				best = prev[b-1]
			}
			if b-1 >= lo && curr[b-1] < best {
				best = curr[b-1]
			}
			curr[b] = math.Abs(x[a]-y[b]) + best
		}
		prev, curr = curr, prev
		prevLo, prevHi = lo, hi
	}

	return prev[m-1]
}

// TemporalDistances computes the symmetric N×N DTW distance matrix for
// the given series with band half-width w.
func TemporalDistances(series [][]float64, w int) ([][]float64, error) {
	return temporalDistances(series, w, 1)
}

func temporalDistances(series [][]float64, w int, workers int) ([][]float64, error) {
	n := len(series)
	m := 0
	if n > 0 {
		m = len(series[0])
	}
	bd := band{w: w, m: m}
	if err := bd.validate(); err != nil {
		return nil, err
	}
	d := newMatrix(n)
	parallelRows(n, workers, func(lo, hi int) {
		prev := make([]float64, m)
		curr := make([]float64, m)
		for i := lo; i < hi; i++ {
			for j := i + 1; j < n; j++ {
				v := dtwWithScratch(series[i], series[j], bd, prev, curr)
				d[i][j] = v
				d[j][i] = v
			}
		}
	})
	return d, nil
}
