// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bparray

import (
	"encoding/binary"

	"github.com/coredb/bparray/internal/assert"
)

// WType names how a width's stored bits should be interpreted, mirrored
// from spec.md §3.
type WType uint8

const (
	WTypeIgnore   WType = 0 // every element is implicitly 0 (width 0)
	WTypeMultiply WType = 1 // unsigned packed fields, widths 1, 2, 4
	WTypeBits     WType = 2 // native two's-complement signed, widths 8, 16, 32, 64
)

// HeaderSize is the fixed byte length of the header prefix, per
// SPEC_FULL.md §3 ("Header wire format"). Multi-byte fields are
// encoded little-endian on every host (encoding/binary.LittleEndian).
const HeaderSize = 8

const (
	flagHasRefs            = 1 << 0
	flagContextFlag        = 1 << 1
	flagIsInnerBptreeNode  = 1 << 2
)

// widths lists the seven legal packed widths plus the implicit 0 width,
// in ascending order. widthIndex is the inverse lookup used to select a
// vtable slot without a branch ladder.
var widths = [8]uint8{0, 1, 2, 4, 8, 16, 32, 64}

func widthIndex(w uint8) int {
	switch w {
	case 0:
		return 0
	case 1:
		return 1
	case 2:
		return 2
	case 4:
		return 3
	case 8:
		return 4
	case 16:
		return 5
	case 32:
		return 6
	case 64:
		return 7
	default:
		return -1
	}
}

func wtypeOf(w uint8) WType {
	switch w {
	case 0:
		return WTypeIgnore
	case 1, 2, 4:
		return WTypeMultiply
	default:
		return WTypeBits
	}
}

// header is the fixed 8-byte prefix of every node. Field layout:
//
//	byte 0:    flags   (bit0 HasRefs, bit1 ContextFlag, bit2 IsInnerBptreeNode)
//	byte 1:    wtype
//	byte 2:    width   (literal bit count: 0,1,2,4,8,16,32,64)
//	byte 3:    reserved
//	bytes 4-5: size     (uint16 element count)
//	bytes 6-7: capacity (uint16, in 8-byte units)
type header []byte

func (h header) flags() uint8    { return h[0] }
func (h header) setFlags(f uint8) { h[0] = f }

// GetSize returns the element count encoded in the header.
func (h header) GetSize() int {
	return int(binary.LittleEndian.Uint16(h[4:6]))
}

// setSize stores n as the header's element count. Callers must have
// already checked n against the 0xFFFF ceiling (see ErrSizeOverflow);
// this only traps the violation in debug builds rather than checking
// it itself, since by the time a mutation reaches setSize it has
// already committed to a byte layout sized for n.
func (h header) setSize(n int) {
	assert.Assertf(n >= 0 && n <= 0xFFFF, "bparray: setSize(%d) exceeds uint16 size field", n)
	binary.LittleEndian.PutUint16(h[4:6], uint16(n))
}

// GetCapacity returns the payload byte capacity encoded in the header.
func (h header) GetCapacity() int {
	return int(binary.LittleEndian.Uint16(h[6:8])) * 8
}

func (h header) setCapacity(bytes int) {
	binary.LittleEndian.PutUint16(h[6:8], uint16(bytes/8))
}

// GetWidth returns the element width in bits.
func (h header) GetWidth() uint8 { return h[2] }

func (h header) setWidth(w uint8) {
	h[2] = w
	h[1] = byte(wtypeOf(w))
}

// GetWType returns the width class.
func (h header) GetWType() WType { return WType(h[1]) }

// HasRefs reports whether payload elements are RefOrTagged values
// rather than plain integers.
func (h header) HasRefs() bool { return h[0]&flagHasRefs != 0 }

func (h header) setHasRefs(v bool) { h.setFlagBit(flagHasRefs, v) }

// ContextFlag is a higher-layer interpretation bit the array core never
// reads; it only stores and round-trips it.
func (h header) ContextFlag() bool { return h[0]&flagContextFlag != 0 }

func (h header) setContextFlag(v bool) { h.setFlagBit(flagContextFlag, v) }

// IsInnerBptreeNode reports whether a B+-tree layer above this node
// treats it as an interior node (vs. a leaf).
func (h header) IsInnerBptreeNode() bool { return h[0]&flagIsInnerBptreeNode != 0 }

func (h header) setIsInnerBptreeNode(v bool) { h.setFlagBit(flagIsInnerBptreeNode, v) }

func (h header) setFlagBit(bit uint8, v bool) {
	if v {
		h[0] |= bit
	} else {
		h[0] &^= bit
	}
}

// calcAlignedByteSize rounds the payload of size elements at width w up
// to 8 bytes so SIMD loads never overrun, per spec.md §4.A.
func calcAlignedByteSize(size int, w uint8) int {
	bits := size * int(w)
	bytes := (bits + 7) / 8
	return (bytes + 7) &^ 7
}

// GetByteSize returns the header plus the aligned payload size for the
// node's current size and width.
func (h header) GetByteSize() int {
	return HeaderSize + calcAlignedByteSize(h.GetSize(), h.GetWidth())
}

// GetMaxByteSize returns the worst-case total byte size for n elements
// at the widest packing (64 bits each), per spec.md §4.A.
func GetMaxByteSize(n int) int {
	return HeaderSize + 8*n
}
