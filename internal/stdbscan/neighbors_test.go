package stdbscan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildNeighborGraph_BothThresholdsRequired(t *testing.T) {
	// Point pairs qualify only when spatial AND temporal distances are
	// both within their limits.
	spatial := [][]float64{
		{0, 1, 1, 9},
		{1, 0, 9, 1},
		{1, 9, 0, 9},
		{9, 1, 9, 0},
	}
	temporal := [][]float64{
		{0, 1, 9, 1},
		{1, 0, 1, 1},
		{9, 1, 0, 9},
		{1, 1, 9, 0},
	}

	got := BuildNeighborGraph(spatial, temporal, 2, 2)
	want := [][]int{
		{1},    // 0-1: both ok; 0-2 temporal too far; 0-3 spatial too far
		{0, 3}, // 1-2 spatial too far
		nil,
		{1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("neighbour graph mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildNeighborGraph_Symmetric(t *testing.T) {
	coords := randomCoords(20, 5)
	spatial := SpatialDistances(coords)
	graph := BuildNeighborGraph(spatial, spatial, 30, 30)

	for i, adj := range graph {
		for _, j := range adj {
			found := false
			for _, back := range graph[j] {
				if back == i {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("%d lists %d but not vice versa", i, j)
			}
		}
	}
}

func TestBuildNeighborGraph_SelfExcluded(t *testing.T) {
	spatial := [][]float64{{0, 1}, {1, 0}}
	graph := BuildNeighborGraph(spatial, spatial, 10, 10)
	for i, adj := range graph {
		for _, j := range adj {
			if j == i {
				t.Errorf("point %d lists itself as neighbour", i)
			}
		}
	}
}
