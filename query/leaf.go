// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package query

// Leaf is the minimum surface the query kernel needs from an array
// node. *bparray.Accessor satisfies it structurally — this package
// never imports bparray, avoiding an import cycle with query's own
// callers.
type Leaf interface {
	// Width returns the element width in bits (0,1,2,4,8,16,32,64).
	Width() uint8

	// Size returns the element count.
	Size() int

	// Get returns the element at index i.
	Get(i int) int64

	// RawPayload returns the packed payload bytes, for the bithack and
	// wide-lane fast paths that specialize directly on width.
	RawPayload() []byte

	// Bounds returns the inclusive [lbound, ubound] range representable
	// at the node's current width, for can_match/will_match pruning.
	Bounds() (lo, hi int64)
}
