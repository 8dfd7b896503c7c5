package stdbscan

// Noise is the label assigned to points that belong to no cluster.
const Noise = -1

// labelUnvisited marks points the scan has not reached yet. It never
// appears in the returned labels: every point ends as Noise or a
// cluster id.
const labelUnvisited = -2

// ExpandClusters performs density-reachability expansion over the
// neighbour graph and returns one label per point: a cluster id ≥ 0 or
// Noise. Points are scanned in index order and cluster ids are allocated
// monotonically from zero, so the labelling is deterministic.
//
// A point is core when it has at least one neighbour and its neighbour
// count plus itself reaches minNeighbors; a point with no neighbours is
// Noise even at minNeighbors of one, so isolated points never form
// singleton clusters. Expansion is an iterative frontier traversal
// rather than recursion; a point provisionally marked Noise is upgraded
// to a border point when a later core point reaches it, but a point
// assigned to a cluster is never reassigned (first cluster wins).
func ExpandClusters(neighbors [][]int, minNeighbors int) ([]int, error) {
	if minNeighbors < 1 {
		return nil, validationErrorf("minimum_neighbors must be >= 1, got %d", minNeighbors)
	}

	n := len(neighbors)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = labelUnvisited
	}

	nextID := 0
	for p := 0; p < n; p++ {
		if labels[p] != labelUnvisited {
			continue
		}
		if len(neighbors[p]) == 0 || len(neighbors[p])+1 < minNeighbors {
			labels[p] = Noise
			continue
		}

		id := nextID
		nextID++
		labels[p] = id

		frontier := append([]int(nil), neighbors[p]...)
		for k := 0; k < len(frontier); k++ {
			q := frontier[k]
			if labels[q] >= 0 {
				continue
			}
			labels[q] = id
			if len(neighbors[q])+1 >= minNeighbors {
				for _, r := range neighbors[q] {
					if labels[r] < 0 {
						frontier = append(frontier, r)
					}
				}
			}
		}
	}

	return labels, nil
}
