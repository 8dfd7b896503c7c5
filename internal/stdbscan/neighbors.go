package stdbscan

// BuildNeighborGraph combines the rescaled spatial and temporal distance
// matrices into an undirected adjacency structure: j is a neighbour of i
// (i ≠ j) when both distances are within their respective limits. Lists
// are in ascending index order. Self is excluded here; the core-point
// cardinality test in ExpandClusters counts it separately.
func BuildNeighborGraph(spatial, temporal [][]float64, spatialLimit, temporalLimit float64) [][]int {
	n := len(spatial)
	neighbors := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if spatial[i][j] <= spatialLimit && temporal[i][j] <= temporalLimit {
				neighbors[i] = append(neighbors[i], j)
				neighbors[j] = append(neighbors[j], i)
			}
		}
	}
	return neighbors
}
