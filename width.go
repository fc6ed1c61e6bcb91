// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bparray

import "encoding/binary"

// lbound returns the smallest value representable at width w.
func lbound(w uint8) int64 {
	switch w {
	case 0, 1, 2, 4:
		return 0
	case 8:
		return -1 << 7
	case 16:
		return -1 << 15
	case 32:
		return -1 << 31
	default: // 64
		return -1 << 63
	}
}

// ubound returns the largest value representable at width w.
func ubound(w uint8) int64 {
	switch w {
	case 0:
		return 0
	case 1:
		return 1<<1 - 1
	case 2:
		return 1<<2 - 1
	case 4:
		return 1<<4 - 1
	case 8:
		return 1<<7 - 1
	case 16:
		return 1<<15 - 1
	case 32:
		return 1<<31 - 1
	default: // 64
		return 1<<63 - 1
	}
}

// minimumWidth returns the smallest width in {0,1,2,4,8,16,32,64} such
// that lbound(w) <= v <= ubound(w).
func minimumWidth(v int64) uint8 {
	for _, w := range widths {
		if v >= lbound(w) && v <= ubound(w) {
			return w
		}
	}
	return 64 // unreachable: ubound(64)/lbound(64) cover all int64
}

// unpackValue reads the i'th element of width w from payload. Widths 1,
// 2, and 4 never straddle a byte boundary (8 is a multiple of each), so
// they are read as a masked unsigned field. Widths 8, 16, 32, 64 are
// read as little-endian two's complement, per SPEC_FULL.md §3.
func unpackValue(payload []byte, i int, w uint8) int64 {
	switch w {
	case 0:
		return 0
	case 1, 2, 4:
		bitPos := i * int(w)
		byteIdx := bitPos / 8
		shift := uint(bitPos % 8)
		mask := byte(1<<w - 1)
		return int64((payload[byteIdx] >> shift) & mask)
	case 8:
		return int64(int8(payload[i]))
	case 16:
		return int64(int16(binary.LittleEndian.Uint16(payload[i*2:])))
	case 32:
		return int64(int32(binary.LittleEndian.Uint32(payload[i*4:])))
	default: // 64
		return int64(binary.LittleEndian.Uint64(payload[i*8:]))
	}
}

// packValue writes v as the i'th element of width w into payload. The
// caller must have already ensured v is within [lbound(w), ubound(w)]
// (see ensureMinimumWidth); packValue itself performs no range check.
func packValue(payload []byte, i int, w uint8, v int64) {
	switch w {
	case 0:
		// every element is implicitly 0; nothing to store.
	case 1, 2, 4:
		bitPos := i * int(w)
		byteIdx := bitPos / 8
		shift := uint(bitPos % 8)
		mask := byte(1<<w - 1)
		payload[byteIdx] = payload[byteIdx]&^(mask<<shift) | (byte(v)&mask)<<shift
	case 8:
		payload[i] = byte(v)
	case 16:
		binary.LittleEndian.PutUint16(payload[i*2:], uint16(v))
	case 32:
		binary.LittleEndian.PutUint32(payload[i*4:], uint32(v))
	default: // 64
		binary.LittleEndian.PutUint64(payload[i*8:], uint64(v))
	}
}

// getFn/setFn form a per-width jump table indexed by widthIndex(w).
// The table is package-level and not cached on the Accessor: Get and
// Set compute widthIndex(a.width), a switch on the width, on every
// call. The
// query kernel (package query) does not go through this table — its
// inner loops are specialized directly on width for the no-indirect-
// call-per-element property spec.md §9 requires there.
type getFn func(payload []byte, i int) int64
type setFn func(payload []byte, i int, v int64)

var getTable [8]getFn
var setTable [8]setFn

func init() {
	for idx, w := range widths {
		w := w
		getTable[idx] = func(payload []byte, i int) int64 { return unpackValue(payload, i, w) }
		setTable[idx] = func(payload []byte, i int, v int64) { packValue(payload, i, w, v) }
	}
}

// GetChunk unpacks eight adjacent elements starting at i into out,
// which must have length 8. Used by B+-tree inner nodes that want to
// pull a cache line's worth of children at once.
func (a *Accessor) GetChunk(i int, out *[8]int64) {
	payload := a.payload()
	w := a.width
	for k := 0; k < 8; k++ {
		out[k] = unpackValue(payload, i+k, w)
	}
}

// GetTwo is a fused read of two adjacent elements, used by B+-tree
// inner nodes that store (child, key) pairs.
func (a *Accessor) GetTwo(i int) (v0, v1 int64) {
	payload := a.payload()
	w := a.width
	return unpackValue(payload, i, w), unpackValue(payload, i+1, w)
}

// GetThree is a fused read of three adjacent elements.
func (a *Accessor) GetThree(i int) (v0, v1, v2 int64) {
	payload := a.payload()
	w := a.width
	return unpackValue(payload, i, w), unpackValue(payload, i+1, w), unpackValue(payload, i+2, w)
}
