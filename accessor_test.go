// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bparray

import "testing"

// fakeAllocator is a minimal in-package Allocator for unit tests that
// don't need memalloc's checkpoint machinery.
type fakeAllocator struct {
	arena    map[Ref][]byte
	next     int64
	readOnly map[Ref]bool
}

func newFakeAllocator() *fakeAllocator {
	return &fakeAllocator{arena: make(map[Ref][]byte), next: 2, readOnly: make(map[Ref]bool)}
}

func (f *fakeAllocator) Alloc(size int) (Ref, error) {
	ref := Ref(f.next)
	f.next += 2
	f.arena[ref] = make([]byte, size)
	return ref, nil
}

func (f *fakeAllocator) Realloc(ref Ref, size int) (Ref, error) {
	if f.readOnly[ref] {
		return 0, ErrReadOnly
	}
	old := f.arena[ref]
	buf := make([]byte, size)
	copy(buf, old)
	f.arena[ref] = buf
	return ref, nil
}

func (f *fakeAllocator) Free(ref Ref) error {
	delete(f.arena, ref)
	return nil
}

func (f *fakeAllocator) Translate(ref Ref) ([]byte, error) {
	buf, ok := f.arena[ref]
	if !ok {
		return nil, ErrOutOfRange
	}
	return buf, nil
}

func (f *fakeAllocator) IsReadOnly(ref Ref) bool { return f.readOnly[ref] }

func (f *fakeAllocator) freeze(ref Ref) { f.readOnly[ref] = true }

func TestCreateArrayEmpty(t *testing.T) {
	alloc := newFakeAllocator()
	a, err := CreateArray(alloc, Options{})
	if err != nil {
		t.Fatalf("CreateArray: %v", err)
	}
	if a.Size() != 0 {
		t.Errorf("Size() = %d, want 0", a.Size())
	}
	if a.Width() != 0 {
		t.Errorf("Width() = %d, want 0", a.Width())
	}
}

func TestAddAndGetGrowsWidth(t *testing.T) {
	alloc := newFakeAllocator()
	a, err := CreateArray(alloc, Options{})
	if err != nil {
		t.Fatalf("CreateArray: %v", err)
	}
	values := []int64{0, 1, 2, 300, -5, 1 << 40}
	for _, v := range values {
		if err := a.Add(v); err != nil {
			t.Fatalf("Add(%d): %v", v, err)
		}
	}
	if a.Size() != len(values) {
		t.Fatalf("Size() = %d, want %d", a.Size(), len(values))
	}
	for i, v := range values {
		if got := a.Get(i); got != v {
			t.Errorf("Get(%d) = %d, want %d", i, got, v)
		}
	}
	if a.Width() < 64 {
		// 1<<40 exceeds the 32-bit range, so the final width must be 64
		// (-5 alone would only need the signed range of width 8).
		t.Errorf("Width() = %d, want 64", a.Width())
	}
}

func TestSetTriggersCopyOnWriteWhenShared(t *testing.T) {
	alloc := newFakeAllocator()
	a, err := CreateArray(alloc, Options{})
	if err != nil {
		t.Fatalf("CreateArray: %v", err)
	}
	for _, v := range []int64{1, 2, 3} {
		if err := a.Add(v); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	oldRef := a.Ref()
	alloc.freeze(oldRef)

	if err := a.Set(0, 42); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if a.Ref() == oldRef {
		t.Errorf("Set on a read-only ref did not relocate")
	}
	if got := a.Get(0); got != 42 {
		t.Errorf("Get(0) = %d, want 42", got)
	}
	// The old region is untouched.
	old, err := alloc.Translate(oldRef)
	if err != nil {
		t.Fatalf("Translate(oldRef): %v", err)
	}
	oldAccessor, err := InitFromMem(alloc, old)
	if err != nil {
		t.Fatalf("InitFromMem: %v", err)
	}
	if got := oldAccessor.Get(0); got != 1 {
		t.Errorf("old region Get(0) = %d, want unchanged 1", got)
	}
}

func TestCopyOnWriteNotifiesParent(t *testing.T) {
	alloc := newFakeAllocator()
	parent, err := CreateArray(alloc, Options{HasRefs: true})
	if err != nil {
		t.Fatalf("CreateArray parent: %v", err)
	}
	child, err := CreateArray(alloc, Options{})
	if err != nil {
		t.Fatalf("CreateArray child: %v", err)
	}
	if err := parent.Add(int64(child.Ref())); err != nil {
		t.Fatalf("parent.Add: %v", err)
	}
	child.SetParent(parent, 0)

	alloc.freeze(child.Ref())
	oldChildRef := child.Ref()
	if err := child.Add(7); err != nil {
		t.Fatalf("child.Add: %v", err)
	}
	if child.Ref() == oldChildRef {
		t.Fatalf("child did not relocate despite being frozen")
	}
	got, err := parent.GetChildRef(0)
	if err != nil {
		t.Fatalf("GetChildRef: %v", err)
	}
	if got != child.Ref() {
		t.Errorf("parent slot = %d, want updated ref %d", got, child.Ref())
	}
}

func TestInsertAndErase(t *testing.T) {
	alloc := newFakeAllocator()
	a, err := CreateArray(alloc, Options{})
	if err != nil {
		t.Fatalf("CreateArray: %v", err)
	}
	for _, v := range []int64{10, 20, 30} {
		if err := a.Add(v); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := a.Insert(1, 99); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	want := []int64{10, 99, 20, 30}
	for i, v := range want {
		if got := a.Get(i); got != v {
			t.Errorf("after Insert, Get(%d) = %d, want %d", i, got, v)
		}
	}

	if err := a.Erase(1); err != nil {
		t.Fatalf("Erase: %v", err)
	}
	want = []int64{10, 20, 30}
	for i, v := range want {
		if got := a.Get(i); got != v {
			t.Errorf("after Erase, Get(%d) = %d, want %d", i, got, v)
		}
	}
}

func TestMoveRotate(t *testing.T) {
	alloc := newFakeAllocator()
	a, err := CreateArray(alloc, Options{})
	if err != nil {
		t.Fatalf("CreateArray: %v", err)
	}
	for _, v := range []int64{0, 1, 2, 3, 4} {
		if err := a.Add(v); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	// Move the single element at index 4 to index 1: [0,1,2,3,4] -> [0,4,1,2,3]
	if err := a.MoveRotate(4, 1, 1); err != nil {
		t.Fatalf("MoveRotate: %v", err)
	}
	want := []int64{0, 4, 1, 2, 3}
	for i, v := range want {
		if got := a.Get(i); got != v {
			t.Errorf("Get(%d) = %d, want %d", i, got, v)
		}
	}
}

func TestAdjustGE(t *testing.T) {
	alloc := newFakeAllocator()
	a, err := CreateArray(alloc, Options{})
	if err != nil {
		t.Fatalf("CreateArray: %v", err)
	}
	for _, v := range []int64{1, 5, 10, 15} {
		if err := a.Add(v); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := a.AdjustGE(10, 100); err != nil {
		t.Fatalf("AdjustGE: %v", err)
	}
	want := []int64{1, 5, 110, 115}
	for i, v := range want {
		if got := a.Get(i); got != v {
			t.Errorf("Get(%d) = %d, want %d", i, got, v)
		}
	}
}

func TestDestroyDeep(t *testing.T) {
	alloc := newFakeAllocator()
	parent, err := CreateArray(alloc, Options{HasRefs: true})
	if err != nil {
		t.Fatalf("CreateArray parent: %v", err)
	}
	child, err := CreateArray(alloc, Options{})
	if err != nil {
		t.Fatalf("CreateArray child: %v", err)
	}
	childRef := child.Ref()
	if err := parent.Add(int64(childRef)); err != nil {
		t.Fatalf("parent.Add: %v", err)
	}

	if err := parent.DestroyDeep(); err != nil {
		t.Fatalf("DestroyDeep: %v", err)
	}
	if _, err := alloc.Translate(childRef); err == nil {
		t.Errorf("child ref still resolves after DestroyDeep")
	}
}

func TestInsertSizeOverflow(t *testing.T) {
	alloc := newFakeAllocator()
	w := uint8(8)
	size := 0xFFFF
	byteSize := HeaderSize + calcAlignedByteSize(size, w)
	ref, err := alloc.Alloc(byteSize)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	raw, err := alloc.Translate(ref)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	h := header(raw[:HeaderSize])
	h.setFlags(0)
	h.setWidth(w)
	h.setSize(size)
	h.setCapacity(calcAlignedByteSize(size, w))

	a, err := InitFromRef(alloc, ref)
	if err != nil {
		t.Fatalf("InitFromRef: %v", err)
	}
	if got := a.Size(); got != size {
		t.Fatalf("Size() = %d, want %d", got, size)
	}
	if err := a.Add(1); err != ErrSizeOverflow {
		t.Errorf("Add at max size: got %v, want ErrSizeOverflow", err)
	}
	if got := a.Size(); got != size {
		t.Errorf("Size() after failed Add = %d, want unchanged %d", got, size)
	}
}

func TestTaggedRoundTrip(t *testing.T) {
	tagged, err := NewTagged(123)
	if err != nil {
		t.Fatalf("NewTagged: %v", err)
	}
	if !tagged.IsTagged() || tagged.IsRef() {
		t.Fatalf("tagged classification wrong")
	}
	if got := tagged.AsInt(); got != 123 {
		t.Errorf("AsInt() = %d, want 123", got)
	}

	ref := NewRef(Ref(8))
	if !ref.IsRef() || ref.IsTagged() {
		t.Fatalf("ref classification wrong")
	}
	if got := ref.AsRef(); got != Ref(8) {
		t.Errorf("AsRef() = %d, want 8", got)
	}

	if _, err := NewTagged(uint64(1) << 63); err != ErrTaggedOverflow {
		t.Errorf("NewTagged overflow: got %v, want ErrTaggedOverflow", err)
	}
}
