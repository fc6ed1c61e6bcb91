// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package query implements the array core's query kernel: equality,
// inequality, greater, less, min, max, sum, count, find-first, find-all
// and callback-driven iteration over a bit-packed integer array leaf,
// dispatched on predicate and element width, with a word-parallel
// bithack fast path and a feature-gated wide-lane fast path standing in
// for the source design's SSE2/SSE4.2 path.
//
// Find is the single entry point; everything else in this package is
// in service of it. Callers pass a Leaf — satisfied by
// *github.com/coredb/bparray.Accessor without either package importing
// the other — plus a Predicate and a QueryState.
package query
