package stdbscan

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/banshee-data/trajectory.report/internal/testutil"
)

// stepSeries returns a length-m series that is 0 before the step index
// and 1 from it onward.
func stepSeries(m, step int) []float64 {
	s := make([]float64, m)
	for i := step; i < m; i++ {
		s[i] = 1
	}
	return s
}

func TestDefaultWindow(t *testing.T) {
	cases := []struct {
		m    int
		want int
	}{
		{1, 1},
		{5, 1},
		{10, 1},
		{11, 2},
		{100, 10},
		{101, 11},
	}
	for _, tc := range cases {
		if got := DefaultWindow(tc.m); got != tc.want {
			t.Errorf("DefaultWindow(%d) = %d, want %d", tc.m, got, tc.want)
		}
	}
}

func TestDTW_SelfDistanceZero(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	s := make([]float64, 40)
	for i := range s {
		s[i] = rng.NormFloat64()
	}

	d, err := DTW(s, s, 4)
	if err != nil {
		t.Fatalf("DTW failed: %v", err)
	}
	if d != 0 {
		t.Errorf("self distance = %g, want 0", d)
	}
}

func TestDTW_ZeroWindowRejected(t *testing.T) {
	x := []float64{1, 2, 3}
	_, err := DTW(x, x, 0)
	if err == nil {
		t.Fatal("expected error for zero window")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("error type = %T, want *ConfigurationError", err)
	}
}

func TestDTW_SingleElementSeries(t *testing.T) {
	d, err := DTW([]float64{3}, []float64{7}, 1)
	if err != nil {
		t.Fatalf("DTW failed: %v", err)
	}
	if d != 4 {
		t.Errorf("distance = %g, want 4", d)
	}
}

func TestDTW_ShiftWithinBandAbsorbed(t *testing.T) {
	// A step shifted by four positions aligns perfectly when the band is
	// wide enough to absorb the shift.
	x := stepSeries(12, 6)
	y := stepSeries(12, 2)

	d, err := DTW(x, y, 6)
	if err != nil {
		t.Fatalf("DTW failed: %v", err)
	}
	if d != 0 {
		t.Errorf("distance = %g, want 0 for shift within band", d)
	}
}

func TestDTW_ShiftBeyondBandPenalised(t *testing.T) {
	// The same shift with a narrow band forces mismatched alignments,
	// so the distance must become strictly positive.
	x := stepSeries(12, 6)
	y := stepSeries(12, 2)

	d, err := DTW(x, y, 1)
	if err != nil {
		t.Fatalf("DTW failed: %v", err)
	}
	if d <= 0 {
		t.Errorf("distance = %g, want > 0 for shift beyond band", d)
	}
}

func TestDTW_MatchesFullDPForWideBand(t *testing.T) {
	// With the band covering the whole matrix the banded recurrence must
	// reproduce the unconstrained DTW value.
	rng := rand.New(rand.NewPCG(11, 11))
	m := 16
	x := make([]float64, m)
	y := make([]float64, m)
	for i := 0; i < m; i++ {
		x[i] = rng.NormFloat64()
		y[i] = rng.NormFloat64()
	}

	got, err := DTW(x, y, m)
	if err != nil {
		t.Fatalf("DTW failed: %v", err)
	}
	want := fullDTW(x, y)
	if diff := got - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("banded DTW = %g, unconstrained = %g", got, want)
	}
}

// fullDTW is a reference O(m²) implementation used only by tests.
func fullDTW(x, y []float64) float64 {
	m := len(x)
	D := make([][]float64, m)
	for a := range D {
		D[a] = make([]float64, m)
	}
	abs := func(v float64) float64 {
		if v < 0 {
			return -v
		}
		return v
	}
	for a := 0; a < m; a++ {
		for b := 0; b < m; b++ {
			cost := abs(x[a] - y[b])
			switch {
			case a == 0 && b == 0:
				D[a][b] = cost
			case a == 0:
				D[a][b] = cost + D[a][b-1]
			case b == 0:
				D[a][b] = cost + D[a-1][b]
			default:
				best := D[a-1][b-1]
				if D[a-1][b] < best {
					best = D[a-1][b]
				}
				if D[a][b-1] < best {
					best = D[a][b-1]
				}
				D[a][b] = cost + best
			}
		}
	}
	return D[m-1][m-1]
}

func TestTemporalDistances_SymmetricZeroDiagonal(t *testing.T) {
	rng := rand.New(rand.NewPCG(13, 13))
	series := make([][]float64, 12)
	for i := range series {
		series[i] = make([]float64, 30)
		for j := range series[i] {
			series[i][j] = rng.NormFloat64()
		}
	}

	d, err := TemporalDistances(series, 3)
	if err != nil {
		t.Fatalf("TemporalDistances failed: %v", err)
	}
	testutil.AssertSymmetric(t, d)
}

func TestTemporalDistances_ParallelMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 17))
	series := make([][]float64, 15)
	for i := range series {
		series[i] = make([]float64, 25)
		for j := range series[i] {
			series[i][j] = rng.Float64()
		}
	}

	serial, err := temporalDistances(series, 3, 1)
	if err != nil {
		t.Fatalf("serial failed: %v", err)
	}
	parallel, err := temporalDistances(series, 3, 4)
	if err != nil {
		t.Fatalf("parallel failed: %v", err)
	}
	for i := range serial {
		for j := range serial {
			if serial[i][j] != parallel[i][j] {
				t.Fatalf("worker count changed d[%d][%d]", i, j)
			}
		}
	}
}

func TestBandBounds_CornersAlwaysAdmissible(t *testing.T) {
	for _, m := range []int{2, 5, 20, 101} {
		for _, w := range []int{1, 2, 7} {
			bd := band{w: w, m: m}
			lo, hi := bd.bounds(0)
			if lo > 0 || hi < 0 {
				t.Errorf("m=%d w=%d: (0,0) not admissible", m, w)
			}
			lo, hi = bd.bounds(m - 1)
			if lo > m-1 || hi < m-1 {
				t.Errorf("m=%d w=%d: (m-1,m-1) not admissible", m, w)
			}
		}
	}
}

func TestBandBounds_Monotone(t *testing.T) {
	bd := band{w: 3, m: 50}
	prevLo, prevHi := bd.bounds(0)
	for a := 1; a < 50; a++ {
		lo, hi := bd.bounds(a)
		if hi < prevLo {
			t.Fatalf("band disconnected at row %d", a)
		}
		if hi < prevHi {
			t.Errorf("upper bound regressed at row %d: %d < %d", a, hi, prevHi)
		}
		prevLo, prevHi = lo, hi
	}
}
