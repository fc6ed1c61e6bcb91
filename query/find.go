// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package query

// bithackEligible reports the packed widths the chunk-level bithacks in
// chunk.go know how to decode directly out of RawPayload. Width 64
// holds a single element per 64-bit word, so a scalar loop is already
// optimal for it; widths 1, 2, and 4 are sub-byte packed fields the
// bithacks don't attempt to decode (falling straight to scalarScan).
func bithackEligible(w uint8) bool {
	switch w {
	case 8, 16, 32:
		return true
	default:
		return false
	}
}

// Find is the query kernel's single entry point (spec.md §4.E
// "find_optimized"). It scans leaf's elements in [start, end), testing
// each against cond with target, and drives state with every match.
// baseindex is added to every reported index, letting a B+-tree layer
// above a leaf report global row ids. Find returns true if the caller
// should keep searching at a higher level (the window was exhausted
// without state asking to stop), or false if state's own stop
// condition (ReturnFirst, a Limit, a callback declining to continue)
// was reached.
//
// Find's own bounds and attachment preconditions are undefined if
// violated, per spec.md §4.E's "Failure semantics": Find does not
// validate start/end against leaf.Size() itself.
func Find(leaf Leaf, cond Predicate, target int64, start, end, baseindex int, state *QueryState) bool {
	if start >= end {
		return true
	}

	// Step 1: scalar prefix, so short queries incur no setup cost.
	prefixEnd := start + 4
	if prefixEnd > end {
		prefixEnd = end
	}
	next, keepGoing := scalarScan(leaf, cond, target, start, prefixEnd, baseindex, state)
	if !keepGoing {
		return false
	}
	start = next
	if start >= end {
		return true
	}

	lo, hi := leaf.Bounds()

	// Step 2: can_match pruning over the remaining window.
	if !cond.CanMatch(target, lo, hi) {
		return true
	}

	// Step 3: will_match bulk application.
	if cond.WillMatch(target, lo, hi) {
		_, keepGoing = bulkApply(leaf, start, end, baseindex, state)
		return keepGoing
	}

	w := leaf.Width()

	// Step 4 (plus step 5's wide-lane widening, folded into
	// equalitySearch below via laneWords; relationSearch is not
	// widened): specialized per-width search.
	switch cond.Name() {
	case "Equal", "NotEqual":
		next, keepGoing = equalitySearch(leaf, cond, target, w, start, end, baseindex, state)
	default:
		if w <= 16 && target >= 0 {
			next, keepGoing = relationSearch(leaf, cond, target, w, start, end, baseindex, state)
		} else {
			next, keepGoing = findGtLt(leaf, cond, target, start, end, baseindex, state)
		}
	}
	if !keepGoing {
		return false
	}
	// equalitySearch/relationSearch/findGtLt each run through to end
	// themselves (falling back to scalarScan for any remainder), so
	// reaching here means the whole window was tested without state
	// asking to stop.
	return true
}

// equalitySearch drives wordEquality (optionally two words at a time
// via the wide-lane path) across [start, end), falling back to
// scalarScan for the trailing elements that don't fill a whole 64-bit
// chunk and for widths the bithack doesn't decode.
func equalitySearch(leaf Leaf, cond Predicate, target int64, w uint8, start, end, baseindex int, state *QueryState) (int, bool) {
	if !bithackEligible(w) {
		return scalarScan(leaf, cond, target, start, end, baseindex, state)
	}
	m := masksByWidth[w]
	payload := leaf.RawPayload()
	byteLen := len(payload)
	laneWords := 1
	if wideLaneEnabled && (end-start) >= m.fields*4 {
		laneWords = 2
	}

	i := start
	for i+m.fields*laneWords <= end && (i+m.fields*laneWords)*int(w)/8 <= byteLen {
		for lane := 0; lane < laneWords; lane++ {
			consumed, keepGoing := wordEquality(leaf, cond, target, w, i, baseindex, state)
			if !keepGoing {
				return i + consumed, false
			}
			i += consumed
		}
	}
	return scalarScan(leaf, cond, target, i, end, baseindex, state)
}

// relationSearch drives wordRelation across [start, end) for widths 8
// and 16, falling back to findGtLt whenever a chunk's own precondition
// (no field with its top bit set) fails, and to scalarScan for a
// partial trailing chunk.
func relationSearch(leaf Leaf, cond Predicate, target int64, w uint8, start, end, baseindex int, state *QueryState) (int, bool) {
	if !bithackEligible(w) || w == 32 {
		return findGtLt(leaf, cond, target, start, end, baseindex, state)
	}
	m := masksByWidth[w]
	if uint64(target) > m.maxField/2 {
		// Outside the magic constant's safe range; the scalar fallback
		// is always correct regardless of target's magnitude.
		return findGtLt(leaf, cond, target, start, end, baseindex, state)
	}
	payload := leaf.RawPayload()
	byteLen := len(payload)

	i := start
	for i+m.fields <= end && (i+m.fields)*int(w)/8 <= byteLen {
		consumed, keepGoing, ok := wordRelation(leaf, cond, target, w, i, baseindex, state)
		if !ok {
			next, kg := findGtLt(leaf, cond, target, i, i+m.fields, baseindex, state)
			if !kg {
				return next, false
			}
			i = next
			continue
		}
		if !keepGoing {
			return i + consumed, false
		}
		i += consumed
	}
	return scalarScan(leaf, cond, target, i, end, baseindex, state)
}
