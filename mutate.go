// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bparray

import "github.com/coredb/bparray/internal/assert"

// Get returns the element at index i. i must satisfy 0 <= i < Size();
// violating that is a precondition violation (spec.md §7): undefined in
// release builds, a trap under -tags debug.
func (a *Accessor) Get(i int) int64 {
	assert.Assertf(i >= 0 && i < a.Size(), "bparray: Get(%d) out of range [0,%d)", i, a.Size())
	return getTable[widthIndex(a.width)](a.payload(), i)
}

// Set writes v at index i, growing the width first if v does not fit
// the current range, and copy-on-writing if the node is shared. Every
// mutation on an already-private node (IsReadOnly false) that fits the
// current width succeeds without allocating, per the no-throw
// guarantee in spec.md §4.C.
func (a *Accessor) Set(i int, v int64) error {
	if i < 0 || i >= a.Size() {
		return ErrOutOfRange
	}
	if err := a.ensureMinimumWidth(v); err != nil {
		return err
	}
	w := a.width
	return a.copyOnWrite(a.ByteSize(), func(oldRaw, newRaw []byte) {
		copyHeaderAndPayload(oldRaw, newRaw)
		setTable[widthIndex(w)](newRaw[HeaderSize:], i, v)
	})
}

// samePayload reports whether a and b share the same backing array, in
// which case a mutation is already operating in place.
func samePayload(a, b []byte) bool {
	return len(a) > 0 && len(b) > 0 && &a[0] == &b[0]
}

// copyHeaderAndPayload copies oldRaw into newRaw verbatim, unless they
// already share a backing array (the in-place, non-relocating case).
// Callers overwrite whichever header fields and payload elements their
// mutation changes afterward.
func copyHeaderAndPayload(oldRaw, newRaw []byte) {
	if !samePayload(oldRaw, newRaw) {
		copy(newRaw, oldRaw)
	}
}

// Add appends v to the end of the array; shorthand for Insert(Size(), v).
func (a *Accessor) Add(v int64) error {
	return a.Insert(a.Size(), v)
}

// Insert shifts elements [i, Size()) up by one position (at the
// possibly-expanded width needed for v), writes v at i, and increments
// Size().
func (a *Accessor) Insert(i int, v int64) error {
	size := a.Size()
	if i < 0 || i > size {
		return ErrOutOfRange
	}
	newSize := size + 1
	if newSize > 0xFFFF {
		return ErrSizeOverflow
	}
	if err := a.ensureMinimumWidth(v); err != nil {
		return err
	}
	w := a.width
	newByteSize := HeaderSize + calcAlignedByteSize(newSize, w)

	return a.copyOnWrite(newByteSize, func(oldRaw, newRaw []byte) {
		oldPayload := oldRaw[HeaderSize:]
		copy(newRaw[:HeaderSize], oldRaw[:HeaderSize])
		h := header(newRaw[:HeaderSize])
		newPayload := newRaw[HeaderSize:]
		for k := size - 1; k >= i; k-- {
			packValue(newPayload, k+1, w, unpackValue(oldPayload, k, w))
		}
		if !samePayload(oldRaw, newRaw) {
			for k := 0; k < i; k++ {
				packValue(newPayload, k, w, unpackValue(oldPayload, k, w))
			}
		}
		packValue(newPayload, i, w, v)
		h.setSize(newSize)
		h.setCapacity(calcAlignedByteSize(newSize, w))
	})
}

// Erase removes the single element at index i, shifting higher elements
// down. It does not recurse into child refs (use TruncateAndDestroyChildren
// or DestroyDeep for that).
func (a *Accessor) Erase(i int) error {
	return a.EraseRange(i, i+1)
}

// EraseRange removes elements [begin, end), shifting higher elements
// down. It does not recurse into child refs.
func (a *Accessor) EraseRange(begin, end int) error {
	size := a.Size()
	if begin < 0 || end > size || begin > end {
		return ErrOutOfRange
	}
	n := end - begin
	if n == 0 {
		return nil
	}
	w := a.width
	newSize := size - n
	newByteSize := HeaderSize + calcAlignedByteSize(newSize, w)

	return a.copyOnWrite(newByteSize, func(oldRaw, newRaw []byte) {
		oldPayload := oldRaw[HeaderSize:]
		copy(newRaw[:HeaderSize], oldRaw[:HeaderSize])
		h := header(newRaw[:HeaderSize])
		newPayload := newRaw[HeaderSize:]
		if !samePayload(oldRaw, newRaw) {
			for k := 0; k < begin; k++ {
				packValue(newPayload, k, w, unpackValue(oldPayload, k, w))
			}
		}
		for k := end; k < size; k++ {
			packValue(newPayload, k-n, w, unpackValue(oldPayload, k, w))
		}
		h.setSize(newSize)
		h.setCapacity(calcAlignedByteSize(newSize, w))
	})
}

// Truncate reduces Size to n. It does not free removed child refs.
func (a *Accessor) Truncate(n int) error {
	size := a.Size()
	if n < 0 || n > size {
		return ErrOutOfRange
	}
	if n == size {
		return nil
	}
	return a.EraseRange(n, size)
}

// TruncateAndDestroyChildren reduces Size to n, first recursively
// freeing every removed child ref if HasRefs is set.
func (a *Accessor) TruncateAndDestroyChildren(n int) error {
	size := a.Size()
	if n < 0 || n > size {
		return ErrOutOfRange
	}
	if a.HasRefs() {
		for i := n; i < size; i++ {
			rt := RefOrTagged(a.Get(i))
			if rt.IsTagged() {
				continue
			}
			ref := rt.AsRef()
			if !ref.IsValid() {
				continue
			}
			child, err := InitFromRef(a.alloc, ref)
			if err != nil {
				return err
			}
			if err := child.DestroyDeep(); err != nil {
				return err
			}
		}
	}
	return a.Truncate(n)
}

// Clear removes all elements without freeing children.
func (a *Accessor) Clear() error { return a.Truncate(0) }

// ClearAndDestroyChildren removes all elements, freeing children first.
func (a *Accessor) ClearAndDestroyChildren() error { return a.TruncateAndDestroyChildren(0) }

// Move copies elements [begin, end) to start at destBegin, as a
// non-overlapping forward block copy. The caller must ensure the
// ranges do not overlap in a direction that would corrupt the copy.
func (a *Accessor) Move(begin, end, destBegin int) error {
	return a.copyRange(begin, end, destBegin, false)
}

// MoveBackward copies elements [begin, end) so the range ends at
// destEnd, copying from the high end down. Use this when the
// destination overlaps the source and lies at a higher index.
func (a *Accessor) MoveBackward(begin, end, destEnd int) error {
	return a.copyRange(begin, end, destEnd-(end-begin), true)
}

func (a *Accessor) copyRange(begin, end, destBegin int, backward bool) error {
	size := a.Size()
	n := end - begin
	if begin < 0 || end > size || begin > end || destBegin < 0 || destBegin+n > size {
		return ErrOutOfRange
	}
	if n == 0 {
		return nil
	}
	w := a.width
	return a.copyOnWrite(a.ByteSize(), func(oldRaw, newRaw []byte) {
		oldPayload := oldRaw[HeaderSize:]
		copyHeaderAndPayload(oldRaw, newRaw)
		newPayload := newRaw[HeaderSize:]
		if backward {
			for k := n - 1; k >= 0; k-- {
				packValue(newPayload, destBegin+k, w, unpackValue(oldPayload, begin+k, w))
			}
		} else {
			for k := 0; k < n; k++ {
				packValue(newPayload, destBegin+k, w, unpackValue(oldPayload, begin+k, w))
			}
		}
	})
}

// MoveRotate relocates the n elements starting at from to instead start
// at to, shifting the interior elements by n positions in the
// opposite direction. Cost is O(|from - to|).
func (a *Accessor) MoveRotate(from, to, n int) error {
	size := a.Size()
	if from < 0 || to < 0 || n < 0 || from+n > size || to+n > size {
		return ErrOutOfRange
	}
	if from == to || n == 0 {
		return nil
	}
	w := a.width

	var interiorBegin, interiorEnd, interiorDest int
	if to < from {
		interiorBegin, interiorEnd = to, from
		interiorDest = to + n
	} else {
		interiorBegin, interiorEnd = from+n, to+n
		interiorDest = from
	}

	return a.copyOnWrite(a.ByteSize(), func(oldRaw, newRaw []byte) {
		oldPayload := oldRaw[HeaderSize:]
		copyHeaderAndPayload(oldRaw, newRaw)
		newPayload := newRaw[HeaderSize:]
		// oldPayload and newPayload share a backing array when the node
		// is private, so the moved elements are read out first and the
		// interior is copied in the direction that never reads a slot
		// already overwritten.
		moved := make([]int64, n)
		for k := 0; k < n; k++ {
			moved[k] = unpackValue(oldPayload, from+k, w)
		}
		interiorLen := interiorEnd - interiorBegin
		if interiorDest > interiorBegin {
			for k := interiorLen - 1; k >= 0; k-- {
				packValue(newPayload, interiorDest+k, w, unpackValue(oldPayload, interiorBegin+k, w))
			}
		} else {
			for k := 0; k < interiorLen; k++ {
				packValue(newPayload, interiorDest+k, w, unpackValue(oldPayload, interiorBegin+k, w))
			}
		}
		for k := 0; k < n; k++ {
			packValue(newPayload, to+k, w, moved[k])
		}
	})
}

// Adjust adds d to the element at index i, growing the width if needed.
// Overflow past ubound(64) is a precondition violation (spec.md §9 open
// question): undefined in release builds, a trap under -tags debug.
func (a *Accessor) Adjust(i int, d int64) error {
	old := a.Get(i)
	v := old + d
	assert.Assertf((d >= 0) == (v >= old), "bparray: Adjust(%d, %d) overflowed int64", i, d)
	return a.Set(i, v)
}

// AdjustRange adds d to every element in [begin, end).
func (a *Accessor) AdjustRange(begin, end int, d int64) error {
	size := a.Size()
	if begin < 0 || end > size || begin > end {
		return ErrOutOfRange
	}
	for i := begin; i < end; i++ {
		if err := a.Adjust(i, d); err != nil {
			return err
		}
	}
	return nil
}

// AdjustGE adds d to every element whose current value is >= limit.
// Overflow past ubound(64) is undefined (spec.md §9 open question).
func (a *Accessor) AdjustGE(limit, d int64) error {
	for i := 0; i < a.Size(); i++ {
		if a.Get(i) >= limit {
			if err := a.Adjust(i, d); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetAllToZero resets every element to 0 and collapses the width to 0.
func (a *Accessor) SetAllToZero() error {
	size := a.Size()
	newByteSize := HeaderSize + calcAlignedByteSize(size, 0)
	flags := a.header().flags()
	err := a.copyOnWrite(newByteSize, func(_, newRaw []byte) {
		h := header(newRaw[:HeaderSize])
		h.setFlags(flags)
		h.setWidth(0)
		h.setSize(size)
		h.setCapacity(calcAlignedByteSize(size, 0))
	})
	if err != nil {
		return err
	}
	a.width = 0
	return nil
}
