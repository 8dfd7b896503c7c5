// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertInDelta checks that got is within delta of want.
func AssertInDelta(t *testing.T, got, want, delta float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > delta {
		t.Errorf("value = %g, want %g (±%g)", got, want, delta)
	}
}

// AssertSymmetric checks that a square distance matrix is symmetric
// with a zero diagonal.
func AssertSymmetric(t *testing.T, m [][]float64) {
	t.Helper()
	for i := range m {
		if m[i][i] != 0 {
			t.Errorf("diagonal [%d][%d] = %g, want 0", i, i, m[i][i])
		}
		for j := i + 1; j < len(m); j++ {
			if m[i][j] != m[j][i] {
				t.Errorf("matrix asymmetric at [%d][%d]: %g vs %g", i, j, m[i][j], m[j][i])
			}
		}
	}
}
