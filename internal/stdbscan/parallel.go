package stdbscan

import "sync"

// parallelRows splits [0,n) into contiguous chunks, one per worker, and
// runs fn on each chunk. Workers own disjoint output cells so no
// synchronisation beyond the final join is needed. workers < 2 or tiny
// inputs run inline.
func parallelRows(n, workers int, fn func(lo, hi int)) {
	if workers > n {
		workers = n
	}
	if workers < 2 {
		fn(0, n)
		return
	}
	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
