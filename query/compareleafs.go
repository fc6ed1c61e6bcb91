// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package query

// CompareLeafs compares corresponding positions of left and right
// under cond — left.Get(i) cond right.Get(i) — over [start, end),
// realizing column-vs-column predicates (spec.md §4.E "compare_leafs").
// baseindex is added only when reporting a match to state, not when
// indexing either leaf. It shares the predicate grid with Find but
// adds a second specialization axis, the foreign leaf's own width;
// this module does not attempt the chunk-level bithacks across two
// independently-packed widths and instead scans element-by-element,
// which is the teacher's own fallback posture for any cross-container
// comparison it doesn't have a matched pair of widths for.
func CompareLeafs(left, right Leaf, cond Predicate, start, end, baseindex int, state *QueryState) bool {
	for i := start; i < end; i++ {
		lv, rv := left.Get(i), right.Get(i)
		if cond.Match(lv, rv) {
			if !state.Match(baseindex+i, lv) {
				return false
			}
		}
	}
	return true
}
