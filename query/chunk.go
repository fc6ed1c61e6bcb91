// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"encoding/binary"
	"math/bits"
)

// wordEquality tests one 64-bit chunk of packed elements (fields of
// width w starting at element index i) against target via the
// has-zero-byte-generalized bithack. It requires w to be one of
// {8,16,32} and enough payload bytes to remain for a full chunk;
// callers fall back to scalarScan otherwise. Returns the number of
// elements consumed and whether the caller should keep scanning.
func wordEquality(leaf Leaf, cond Predicate, target int64, w uint8, i, baseindex int, state *QueryState) (consumed int, keepGoing bool) {
	m := masksByWidth[w]
	payload := leaf.RawPayload()
	byteOff := i * int(w) / 8
	x := binary.LittleEndian.Uint64(payload[byteOff:])

	mask := replicate(uint64(target)&m.maxField, m)
	zeros := hasZeroField(x^mask, m)
	equal := cond.Name() == "Equal"

	// zeros can flag a field holding 1 directly above a zero field (the
	// borrow of the subtraction), so "every field flagged" is confirmed
	// against the whole word before it is treated as an all-equal chunk.
	if allFieldsUniform(zeros, m) && (zeros == 0 || x == mask) {
		// Dense case: every field (or no field) is zero, so there is no
		// per-field branching left to do. When every field equals target
		// (allEqual with an Equal predicate), every matched field also
		// carries the same value (target), so the whole chunk is reported
		// with one MatchUniform call instead of one Match call per field
		// (spec.md §4.E/GLOSSARY "pattern match").
		allEqual := zeros != 0
		if allEqual == equal {
			if !state.MatchUniform(baseindex+i, m.fields, target) {
				return m.fields, false
			}
			return m.fields, true
		}
		return m.fields, true
	}

	if equal {
		// Sparse case: isolate each zero field's high bit in turn via
		// firstSetBit64 and consume it, exactly as spec.md §4.E
		// describes for compare_equality.
		remaining := zeros
		for remaining != 0 {
			bitIdx := firstSetBit64(remaining)
			k := bitIdx / int(w)
			v := fieldValue(x, k, w)
			remaining &^= 1 << uint(bitIdx)
			if v != target {
				// Borrow false positive from the field below.
				continue
			}
			if !state.Match(baseindex+i+k, v) {
				return k + 1, false
			}
		}
		return m.fields, true
	}

	for k := 0; k < m.fields; k++ {
		v := fieldValue(x, k, w)
		if v != target {
			if !state.Match(baseindex+i+k, v) {
				return k + 1, false
			}
		}
	}
	return m.fields, true
}

// wordRelation tests one 64-bit chunk against target for Less/Greater/
// LessEqual/GreaterEqual via the less-than-in-word magic-constant
// trick. It only handles w in {8,16} and non-negative target in range
// (spec.md §4.E); callers fall back to findGtLt when the chunk's high
// bits come back set (ambiguous fields present).
func wordRelation(leaf Leaf, cond Predicate, target int64, w uint8, i, baseindex int, state *QueryState) (consumed int, keepGoing, ok bool) {
	m := masksByWidth[w]
	payload := leaf.RawPayload()
	byteOff := i * int(w) / 8
	x := binary.LittleEndian.Uint64(payload[byteOff:])

	// A field whose own top bit is set can overflow the magic-constant
	// add in a way that no longer reflects "< target"; bail to the
	// scalar fallback for that whole word rather than risk a wrong
	// answer (spec.md §4.E: "if any high bit is set, fall back").
	if x&m.h != 0 {
		return 0, true, false
	}
	if cond.Name() == "Less" && lessThanInWord(x, target, m) == 0 {
		// No field is < target: Less can't match anywhere in this word.
		return m.fields, true, true
	}

	for k := 0; k < m.fields; k++ {
		v := fieldValue(x, k, w)
		if cond.Match(v, target) {
			if !state.Match(baseindex+i+k, v) {
				return k + 1, false, true
			}
		}
	}
	return m.fields, true, true
}

// replicate copies a field-sized value into every field position of a
// 64-bit word.
func replicate(v uint64, m fieldMasks) uint64 {
	return v * m.l
}

// fieldValue extracts the k'th field of width w from a 64-bit chunk,
// as an unsigned packed value (widths 8/16/32 here are always stored
// unsigned-in-chunk for the bithack; the caller's Predicate compares
// against target using the same unsigned-vs-signed convention the
// node's own width establishes — widths 8/16/32 are two's-complement
// signed per SPEC_FULL.md §3, so this module's bithack paths are only
// exact for non-negative target/value ranges, matching spec.md §4.E's
// "non-negative targets in range" precondition for the relation path,
// and is always exact for equality regardless of sign since XOR-based
// zero detection does not depend on sign).
func fieldValue(x uint64, k int, w uint8) int64 {
	shift := uint(k) * uint(w)
	raw := (x >> shift) & ((1 << w) - 1)
	switch w {
	case 8:
		return int64(int8(raw))
	case 16:
		return int64(int16(raw))
	case 32:
		return int64(int32(raw))
	default:
		return int64(raw)
	}
}

// allFieldsUniform reports whether zeros (the hasZeroField result)
// indicates either every field or no field was zero — the two dense
// cases worth reporting as a single pattern.
func allFieldsUniform(zeros uint64, m fieldMasks) bool {
	return zeros == 0 || bits.OnesCount64(zeros) == m.fields
}
