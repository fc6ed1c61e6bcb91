// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package query

// scalarScan walks [start, end) one element at a time, testing each
// against cond via leaf.Get, and calls state.Match on a hit. It is the
// prefix handler (step 1), the equality fallback for widths the
// bithack paths don't decode (0, 1, 2, 4, 64), the tail of findGtLt,
// and the unaligned tail after the chunk loops.
//
// It returns the index to resume scanning at (end, if the scan ran to
// completion) and whether the caller should keep searching.
func scalarScan(leaf Leaf, cond Predicate, target int64, start, end, baseindex int, state *QueryState) (next int, keepGoing bool) {
	for i := start; i < end; i++ {
		if cond.Match(leaf.Get(i), target) {
			if !state.Match(baseindex+i, leaf.Get(i)) {
				return i + 1, false
			}
		}
	}
	return end, true
}

// findGtLt is the scalar unrolled fallback for ordered comparisons
// that the less-than-in-word bithack can't service directly: widths 32
// and 64 (per spec.md §4.E, "For widths 32 and 64 use direct scalar
// comparison in a tight unrolled loop"), and any chunk where the
// bithack's high-bit-clear precondition doesn't hold.
func findGtLt(leaf Leaf, cond Predicate, target int64, start, end, baseindex int, state *QueryState) (next int, keepGoing bool) {
	i := start
	for ; i+4 <= end; i += 4 {
		v0, v1, v2, v3 := leaf.Get(i), leaf.Get(i+1), leaf.Get(i+2), leaf.Get(i+3)
		if cond.Match(v0, target) {
			if !state.Match(baseindex+i, v0) {
				return i + 1, false
			}
		}
		if cond.Match(v1, target) {
			if !state.Match(baseindex+i+1, v1) {
				return i + 2, false
			}
		}
		if cond.Match(v2, target) {
			if !state.Match(baseindex+i+2, v2) {
				return i + 3, false
			}
		}
		if cond.Match(v3, target) {
			if !state.Match(baseindex+i+3, v3) {
				return i + 4, false
			}
		}
	}
	return scalarScan(leaf, cond, target, i, end, baseindex, state)
}

// bulkApply runs the fast path for a window that will_match has
// already proven matches entirely (step 3): it still calls state.Match
// once per element, because every element in this window carries its
// own distinct value (unlike wordEquality's dense chunk, where a whole
// chunk shares one value and can use MatchUniform instead) — there is
// no single representative value bulkApply could report once for the
// whole window.
func bulkApply(leaf Leaf, start, end, baseindex int, state *QueryState) (next int, keepGoing bool) {
	for i := start; i < end; i++ {
		if !state.Match(baseindex+i, leaf.Get(i)) {
			return i + 1, false
		}
	}
	return end, true
}
