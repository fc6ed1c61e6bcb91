// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package query

import "math/bits"

// fieldMasks gives, for each packed width w the bithacks decode (8, 16,
// 32), the
// low-bit-per-field mask L = 0x01..01 and high-bit-per-field mask
// H = 0x80..80 used by hasZeroField, plus the field count per 64-bit
// chunk and the maximum unsigned value a field can hold (used by
// lessThanInWord's magic constant).
type fieldMasks struct {
	l, h     uint64
	fields   int
	maxField uint64
}

var masksByWidth = map[uint8]fieldMasks{
	8:  {l: 0x0101010101010101, h: 0x8080808080808080, fields: 8, maxField: 0xFF},
	16: {l: 0x0001000100010001, h: 0x8000800080008000, fields: 4, maxField: 0xFFFF},
	32: {l: 0x0000000100000001, h: 0x8000000080000000, fields: 2, maxField: 0xFFFFFFFF},
}

// hasZeroField applies the classic has-zero-byte bithack, generalized
// to the packed field width encoded in m. (x - L) & ~x & H sets the
// high bit of every field that underflowed from 0x00. The result is
// nonzero iff some field of x is zero, and its lowest set bit always
// marks a zero field; a higher set bit can also come from a field
// holding 1 that sits directly above a zero field, because the zero
// field's borrow propagates into it. Callers check the flagged field's
// value before treating it as zero.
func hasZeroField(x uint64, m fieldMasks) uint64 {
	return (x - m.l) & ^x & m.h
}

// firstSetBit64 returns the index of the lowest set bit of x. Callers
// guarantee x != 0.
func firstSetBit64(x uint64) int {
	return bits.TrailingZeros64(x)
}

// lessThanInWord implements the less-than-in-word bias trick for
// widths <= 16 (spec.md §4.E "Ordered comparison"): every field of x
// that is < v produces a set high bit at the same field position in
// the result, computed without any per-field branch.
//
// Precondition: every field of x has its own high bit clear (the
// caller bails to the scalar fallback otherwise, since the trick's
// borrow containment depends on it) and v <= maxField/2. Artificially
// setting each field's high bit (x|H) biases every field into the
// upper half of its range, so subtracting v (which is at most half
// the field's range) can never borrow into, or carry out of, the
// neighboring field: the result stays self-contained per field.
// Whether that subtraction's high bit then cleared indicates the
// field underflowed past the bias, i.e. the original field was < v;
// inverting and re-masking with H isolates exactly those fields.
func lessThanInWord(x uint64, v int64, m fieldMasks) uint64 {
	biased := x | m.h
	sub := biased - uint64(v)*m.l
	return ^sub & m.h
}
