// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bparray

// Write serializes the node to out. If onlyIfModified and the node's
// current ref is read-only (i.e. unchanged since it was last
// committed), the original ref is returned unchanged and nothing is
// written — this is the sharing case from spec.md §4.D. Otherwise the
// node's bytes are appended to out and the resulting Ref (the stream
// offset out.Write returns) is returned. If deep and HasRefs, every
// child ref is recursively written first, in post-order, and the
// written copy's payload holds the children's new refs rather than the
// live ones.
func (a *Accessor) Write(out Writer, deep, onlyIfModified bool) (Ref, error) {
	if !a.Attached() {
		return 0, ErrDetached
	}
	if onlyIfModified && a.alloc.IsReadOnly(a.ref) {
		return a.ref, nil
	}

	buf := append([]byte(nil), a.raw...)
	if deep && a.HasRefs() {
		payload := buf[HeaderSize:]
		w := a.width
		for i := 0; i < a.Size(); i++ {
			rt := RefOrTagged(unpackValue(payload, i, w))
			if rt.IsTagged() {
				continue
			}
			ref := rt.AsRef()
			if !ref.IsValid() {
				continue
			}
			child, err := InitFromRef(a.alloc, ref)
			if err != nil {
				return 0, err
			}
			newRef, err := child.Write(out, deep, onlyIfModified)
			if err != nil {
				return 0, err
			}
			packValue(payload, i, w, int64(newRef))
		}
	}

	return out.Write(buf)
}

// CloneDeep performs the same post-order recursion as Write(deep=true)
// but materializes the result into target rather than a stream,
// returning an attached Accessor for the clone's root.
func (a *Accessor) CloneDeep(target Allocator) (*Accessor, error) {
	if !a.Attached() {
		return nil, ErrDetached
	}

	size := a.Size()
	w := a.width
	newByteSize := HeaderSize + calcAlignedByteSize(size, w)
	ref, err := target.Alloc(newByteSize)
	if err != nil {
		return nil, ErrOutOfMemory
	}
	newRaw, err := target.Translate(ref)
	if err != nil {
		return nil, err
	}
	newRaw = newRaw[:newByteSize]
	copy(newRaw, a.raw)

	clone := &Accessor{alloc: target, ref: ref, raw: newRaw, width: w}

	if a.HasRefs() {
		payload := newRaw[HeaderSize:]
		for i := 0; i < size; i++ {
			rt := RefOrTagged(unpackValue(payload, i, w))
			if rt.IsTagged() {
				continue
			}
			childRef := rt.AsRef()
			if !childRef.IsValid() {
				continue
			}
			child, err := InitFromRef(a.alloc, childRef)
			if err != nil {
				return nil, err
			}
			clonedChild, err := child.CloneDeep(target)
			if err != nil {
				return nil, err
			}
			packValue(payload, i, w, int64(clonedChild.ref))
		}
	}

	return clone, nil
}
