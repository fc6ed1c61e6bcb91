// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package query

// LowerBoundInt returns the first index in [0, n) whose element is not
// less than target, or n if every element is less than target. leaf
// must be sorted ascending over [0, n).
func LowerBoundInt(leaf Leaf, target int64, n int) int {
	lo, hi := 0, n
	for lo < hi {
		mid := lo + (hi-lo)/2
		if leaf.Get(mid) < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// UpperBoundInt returns the first index in [0, n) whose element is
// greater than target, or n if no element is greater than target.
// leaf must be sorted ascending over [0, n).
func UpperBoundInt(leaf Leaf, target int64, n int) int {
	lo, hi := 0, n
	for lo < hi {
		mid := lo + (hi-lo)/2
		if leaf.Get(mid) <= target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// FindGTE searches an ascending sequence for the first index at or
// after start whose value is >= target. When order is non-nil, it
// supplies the sorted permutation: order[k] names the leaf index for
// the k'th position in ascending order, letting a column be indexed
// without physically resorting it (spec.md §4.E "optionally via an
// indirection array"). It returns -1 if no such index exists.
func FindGTE(leaf Leaf, target int64, start int, order []int) int {
	if order == nil {
		n := leaf.Size()
		idx := LowerBoundInt(sliceView{leaf, start, n - start}, target, n-start) + start
		if idx >= n {
			return -1
		}
		return idx
	}
	lo, hi := start, len(order)
	for lo < hi {
		mid := lo + (hi-lo)/2
		if leaf.Get(order[mid]) < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo >= len(order) {
		return -1
	}
	return order[lo]
}

// sliceView offsets Get by a base index so LowerBoundInt can search a
// suffix of leaf without a separate windowed binary search.
type sliceView struct {
	leaf Leaf
	base int
	size int
}

func (s sliceView) Width() uint8      { return s.leaf.Width() }
func (s sliceView) Size() int         { return s.size }
func (s sliceView) Get(i int) int64   { return s.leaf.Get(s.base + i) }
func (s sliceView) RawPayload() []byte { return s.leaf.RawPayload() }
func (s sliceView) Bounds() (int64, int64) { return s.leaf.Bounds() }
