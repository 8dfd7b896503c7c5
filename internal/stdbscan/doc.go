// Package stdbscan implements density-based clustering of entities that
// carry both a spatial position and a time series.
//
// The pipeline has four stages: a kernel-density-corrected spatial
// distance matrix, a band-constrained DTW temporal distance matrix, a
// neighbour graph combining both under per-dimension thresholds, and a
// DBSCAN-style density-reachability expansion that emits integer cluster
// labels (-1 for noise).
//
// Stages one and two are independent and parallelised across disjoint
// row ranges; expansion is sequential so that labels are deterministic
// for a given input regardless of worker count.
package stdbscan
