// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bparray

// copyOnWrite implements the protocol spec.md §4.C requires of every
// mutation: check Allocator.IsReadOnly on the current ref; if the node
// is shared, allocate a private region of newByteSize, let fill copy
// the old contents into it, swap the Accessor over to the new ref, and
// notify the parent so the relocation is visible from the root. If the
// node is already private and newByteSize equals its current size,
// fill runs in place with no allocator call. If it is private and the
// size changes, the region is resized with Realloc, and the parent is
// notified only if Realloc returns a different ref.
//
// This mirrors the "stage the new state, then commit and swap" shape
// of the teacher's atom.Ref.Swap / atom.Embed.Swap, inlined directly
// here rather than factored through a generic swap type: the array
// core's copy-on-write is synchronous within one mutation call and has
// no rollback phase, so the teacher's async checkpoint/rollback
// machinery (built for cross-transaction swap-with-retry) does not fit
// and is not carried over (see DESIGN.md).
//
// fill receives oldRaw (a snapshot taken before any allocator call, so
// it stays readable even if Realloc/Alloc invalidates the Accessor's
// previous Translate slice) and newRaw (the destination, already sized
// to newByteSize — identical to oldRaw's backing array when the node
// was private and did not change size).
func (a *Accessor) copyOnWrite(newByteSize int, fill func(oldRaw, newRaw []byte)) error {
	if !a.Attached() {
		return ErrDetached
	}

	shared := a.alloc.IsReadOnly(a.ref)
	if !shared && newByteSize == len(a.raw) {
		fill(a.raw, a.raw)
		return nil
	}

	oldRaw := append([]byte(nil), a.raw...)
	oldRef := a.ref
	var newRef Ref
	var err error
	if shared {
		newRef, err = a.alloc.Alloc(newByteSize)
	} else {
		newRef, err = a.alloc.Realloc(a.ref, newByteSize)
	}
	if err != nil {
		return ErrOutOfMemory
	}
	newRaw, err := a.alloc.Translate(newRef)
	if err != nil {
		return err
	}
	newRaw = newRaw[:newByteSize]
	fill(oldRaw, newRaw)
	a.ref, a.raw = newRef, newRaw

	if newRef != oldRef && a.parent != nil {
		if err := a.parent.UpdateChildRef(a.parentIndex, newRef); err != nil {
			return err
		}
	}
	return nil
}

// ensureMinimumWidth grows the node's width in place (via
// copyOnWrite) if v does not already fit within [lbound(w), ubound(w)]
// for the current width w. Width never shrinks automatically, per
// spec.md §4.B.
func (a *Accessor) ensureMinimumWidth(v int64) error {
	w := a.width
	if v >= lbound(w) && v <= ubound(w) {
		return nil
	}
	return a.rewidth(minimumWidth(v))
}

// rewidth copies every existing element into a freshly sized payload
// packed at newWidth and installs it, via the same copyOnWrite path
// every other mutation uses.
func (a *Accessor) rewidth(newWidth uint8) error {
	size := a.Size()
	oldPayload := a.payload()
	oldWidth := a.width
	flags := a.header().flags()
	values := make([]int64, size)
	for i := 0; i < size; i++ {
		values[i] = unpackValue(oldPayload, i, oldWidth)
	}

	newByteSize := HeaderSize + calcAlignedByteSize(size, newWidth)
	err := a.copyOnWrite(newByteSize, func(_, newRaw []byte) {
		h := header(newRaw[:HeaderSize])
		h.setFlags(flags)
		newPayload := newRaw[HeaderSize:]
		for i, v := range values {
			packValue(newPayload, i, newWidth, v)
		}
		h.setWidth(newWidth)
		h.setSize(size)
		h.setCapacity(calcAlignedByteSize(size, newWidth))
	})
	if err != nil {
		return err
	}
	a.width = newWidth
	return nil
}
