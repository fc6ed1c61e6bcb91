// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bparray

// Ref is an opaque integer identifier assigned by an Allocator to a
// memory region. A valid Ref is always even; the low bit is reserved so
// a RefOrTagged slot can distinguish a ref from a tagged integer.
type Ref int64

// IsValid reports whether r could name a real region: refs below 2 are
// reserved (0 means "no ref", 1 is never issued so callers can use it
// as a sentinel without colliding with IsValid checks elsewhere).
func (r Ref) IsValid() bool {
	return r >= 2 && r&1 == 0
}

// Allocator is the minimum interface the array core requires from the
// slab allocator. The allocator itself — free-list management, crash
// recovery, checkpoint recycling — is an external collaborator and out
// of scope for this module (see spec.md §1).
type Allocator interface {
	// Alloc reserves a new region of at least size bytes and returns
	// its Ref. The region's contents are unspecified.
	Alloc(size int) (Ref, error)

	// Realloc grows or shrinks the region named by ref to size bytes,
	// preserving its leading min(oldSize, size) bytes, and returns the
	// (possibly unchanged) Ref of the result. Realloc must not be
	// called on a read-only ref; callers allocate a fresh region and
	// copy instead. Accessor mutations do not read a slice returned by
	// an earlier Translate(ref) after calling Realloc: they copy the old
	// bytes before the call.
	Realloc(ref Ref, size int) (Ref, error)

	// Free releases the region named by ref. Freeing an already-freed
	// or read-only ref is a precondition violation.
	Free(ref Ref) error

	// Translate returns the current byte slice backing ref. The slice
	// is valid until the next mutating Allocator call on any ref that
	// could relocate it (e.g. Realloc of a different region in the same
	// arena).
	Translate(ref Ref) ([]byte, error)

	// IsReadOnly reports whether ref is shared with a committed
	// snapshot and must not be mutated in place. A mutation that finds
	// IsReadOnly true must copy-on-write instead.
	IsReadOnly(ref Ref) bool
}

// Writer is the minimum interface the array core requires from the
// group writer used for deep serialization. Write appends p to a
// sequential output and returns the Ref (stream offset) at which it
// was written.
type Writer interface {
	Write(p []byte) (Ref, error)
}

// ArrayParent is both implemented and consumed by Accessor: array nodes
// can be parents of other array nodes, so a child's writeback call
// lands on its parent Accessor's UpdateChildRef, which for an array
// parent is simply Set(index, int64(ref)).
type ArrayParent interface {
	// UpdateChildRef is called by a child Accessor after copy-on-write
	// relocates it, so the parent's slot at index is kept current.
	UpdateChildRef(index int, ref Ref) error

	// GetChildRef returns the Ref currently stored at index in the
	// parent's payload.
	GetChildRef(index int) (Ref, error)
}
