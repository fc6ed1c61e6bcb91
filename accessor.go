// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bparray

// Options configures a freshly created node. It mirrors the small,
// caller-supplied option interface the teacher uses for its own
// heap/block creation (see block.HeapOption in the teacher repo).
type Options struct {
	HasRefs           bool
	ContextFlag       bool
	IsInnerBptreeNode bool
}

// Accessor is the transient, non-owning handle to an array node. It is
// bound to a Ref by CreateArray, InitFromRef or InitFromMem, unbound
// by Detach or Destroy, and, independently, may carry a
// parent link that survives detach/reattach (spec.md §4.D). Accessors
// are not safe for concurrent use; each goroutine constructs its own.
type Accessor struct {
	alloc Allocator
	ref   Ref
	raw   []byte // header + payload, as returned by Allocator.Translate
	width uint8

	parent      ArrayParent
	parentIndex int
}

// Attached reports whether the Accessor currently names a Ref.
func (a *Accessor) Attached() bool { return a.alloc != nil && a.raw != nil }

// Ref returns the Accessor's current Ref. It is only meaningful while
// Attached.
func (a *Accessor) Ref() Ref { return a.ref }

// Allocator returns the Allocator the Accessor is attached through.
func (a *Accessor) Allocator() Allocator { return a.alloc }

func (a *Accessor) header() header { return header(a.raw[:HeaderSize]) }

func (a *Accessor) payload() []byte { return a.raw[HeaderSize:] }

// Size returns the element count.
func (a *Accessor) Size() int { return a.header().GetSize() }

// Width returns the current element width in bits.
func (a *Accessor) Width() uint8 { return a.width }

// WType returns the current width class.
func (a *Accessor) WType() WType { return a.header().GetWType() }

// HasRefs reports whether payload elements are RefOrTagged values.
func (a *Accessor) HasRefs() bool { return a.header().HasRefs() }

// SetHasRefs updates the HasRefs flag. Changing it does not reinterpret
// existing payload bytes; callers flip it only on an empty node or
// immediately after populating refs.
func (a *Accessor) SetHasRefs(v bool) { a.header().setHasRefs(v) }

// ContextFlag returns the higher-layer interpretation bit. The array
// core never reads it itself.
func (a *Accessor) ContextFlag() bool { return a.header().ContextFlag() }

// SetContextFlag updates the context bit.
func (a *Accessor) SetContextFlag(v bool) { a.header().setContextFlag(v) }

// IsInnerBptreeNode reports the B+-tree inner-node bit.
func (a *Accessor) IsInnerBptreeNode() bool { return a.header().IsInnerBptreeNode() }

// SetIsInnerBptreeNode updates the B+-tree inner-node bit.
func (a *Accessor) SetIsInnerBptreeNode(v bool) { a.header().setIsInnerBptreeNode(v) }

// ByteSize returns the header plus aligned payload size for the node's
// current size and width.
func (a *Accessor) ByteSize() int { return a.header().GetByteSize() }

// RawPayload exposes the packed payload bytes for the query kernel
// (package query), which specializes directly on width rather than
// going through Get/Set per element (spec.md §9's no-indirect-call-
// per-element requirement).
func (a *Accessor) RawPayload() []byte { return a.payload() }

// Bounds returns the inclusive [lbound, ubound] range representable at
// the node's current width, used by the query kernel's can_match /
// will_match pruning.
func (a *Accessor) Bounds() (lo, hi int64) { return lbound(a.width), ubound(a.width) }

// Parent returns the current parent link, or (nil, 0) if none is set.
func (a *Accessor) Parent() (ArrayParent, int) { return a.parent, a.parentIndex }

// SetParent installs the parent link. It is preserved across
// Detach/re-Attach (spec.md §4.D).
func (a *Accessor) SetParent(parent ArrayParent, index int) {
	a.parent, a.parentIndex = parent, index
}

// ClearParent removes the parent link.
func (a *Accessor) ClearParent() { a.parent, a.parentIndex = nil, 0 }

// UpdateChildRef implements ArrayParent for an Accessor acting as the
// parent of another array node: a child slot simply stores the child's
// Ref, so updating it after the child's copy-on-write relocation is a
// Set call at the child's index.
func (a *Accessor) UpdateChildRef(index int, ref Ref) error {
	return a.Set(index, int64(ref))
}

// GetChildRef implements ArrayParent: reads the Ref stored at index.
func (a *Accessor) GetChildRef(index int) (Ref, error) {
	if index < 0 || index >= a.Size() {
		return 0, ErrOutOfRange
	}
	return Ref(a.Get(index)), nil
}

// CreateArray allocates a fresh, empty node through alloc and returns
// an attached Accessor for it. The node starts at width 0 with size 0.
func CreateArray(alloc Allocator, opts Options) (*Accessor, error) {
	size := HeaderSize + calcAlignedByteSize(0, 0)
	ref, err := alloc.Alloc(size)
	if err != nil {
		return nil, ErrOutOfMemory
	}
	raw, err := alloc.Translate(ref)
	if err != nil {
		return nil, err
	}
	h := header(raw[:HeaderSize])
	h.setFlags(0)
	h.setHasRefs(opts.HasRefs)
	h.setContextFlag(opts.ContextFlag)
	h.setIsInnerBptreeNode(opts.IsInnerBptreeNode)
	h.setWidth(0)
	h.setSize(0)
	h.setCapacity(calcAlignedByteSize(0, 0))
	return &Accessor{alloc: alloc, ref: ref, raw: raw[:size], width: 0}, nil
}

// InitFromRef attaches a new Accessor to an existing node named by ref,
// read through alloc. There is no API for rebinding an existing
// Accessor to a different Allocator; cross-allocator reattachment is
// forbidden by construction rather than by a runtime check, since every
// Accessor is always built fresh from the Allocator it will use.
func InitFromRef(alloc Allocator, ref Ref) (*Accessor, error) {
	raw, err := alloc.Translate(ref)
	if err != nil {
		return nil, err
	}
	return initFromMem(alloc, ref, raw)
}

// InitFromMem attaches a new Accessor directly to an in-memory node
// image, bypassing the allocator for reads (but not for any subsequent
// mutation, which still requires alloc). Useful for inspecting a node
// that has been read off a stream by a caller that owns the bytes.
func InitFromMem(alloc Allocator, raw []byte) (*Accessor, error) {
	return initFromMem(alloc, 0, raw)
}

func initFromMem(alloc Allocator, ref Ref, raw []byte) (*Accessor, error) {
	if len(raw) < HeaderSize {
		return nil, ErrInvalidWidth
	}
	h := header(raw[:HeaderSize])
	w := h.GetWidth()
	if widthIndex(w) < 0 {
		return nil, ErrInvalidWidth
	}
	byteSize := HeaderSize + calcAlignedByteSize(h.GetSize(), w)
	if len(raw) < byteSize {
		return nil, ErrInvalidWidth
	}
	return &Accessor{alloc: alloc, ref: ref, raw: raw[:byteSize], width: w}, nil
}

// Detach clears the Accessor's attachment. The parent link, if any,
// survives. Detaching never frees the node.
func (a *Accessor) Detach() {
	a.alloc, a.ref, a.raw, a.width = nil, 0, nil, 0
}

// Destroy frees the node itself (but not its children, if any) and
// detaches the Accessor.
func (a *Accessor) Destroy() error {
	if !a.Attached() {
		return ErrDetached
	}
	err := a.alloc.Free(a.ref)
	a.Detach()
	return err
}

// DestroyDeep frees the node and, if HasRefs is set, recursively frees
// every child ref first.
func (a *Accessor) DestroyDeep() error {
	if !a.Attached() {
		return ErrDetached
	}
	if a.HasRefs() {
		for i := 0; i < a.Size(); i++ {
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
	return a.Destroy()
}
