// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bparray

import "testing"

func TestEraseRangeMultiple(t *testing.T) {
	alloc := newFakeAllocator()
	a, err := CreateArray(alloc, Options{})
	if err != nil {
		t.Fatalf("CreateArray: %v", err)
	}
	for _, v := range []int64{0, 1, 2, 3, 4, 5} {
		if err := a.Add(v); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := a.EraseRange(1, 4); err != nil {
		t.Fatalf("EraseRange: %v", err)
	}
	want := []int64{0, 4, 5}
	if a.Size() != len(want) {
		t.Fatalf("Size() = %d, want %d", a.Size(), len(want))
	}
	for i, v := range want {
		if got := a.Get(i); got != v {
			t.Errorf("Get(%d) = %d, want %d", i, got, v)
		}
	}
}

func TestMove(t *testing.T) {
	alloc := newFakeAllocator()
	a, err := CreateArray(alloc, Options{})
	if err != nil {
		t.Fatalf("CreateArray: %v", err)
	}
	for _, v := range []int64{0, 1, 2, 3, 4, 5} {
		if err := a.Add(v); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	// Copy [0,2) (values 0,1) to start at 4: [0,1,2,3,4,5] -> [0,1,2,3,0,1]
	if err := a.Move(0, 2, 4); err != nil {
		t.Fatalf("Move: %v", err)
	}
	want := []int64{0, 1, 2, 3, 0, 1}
	for i, v := range want {
		if got := a.Get(i); got != v {
			t.Errorf("Get(%d) = %d, want %d", i, got, v)
		}
	}
}

func TestMoveBackward(t *testing.T) {
	alloc := newFakeAllocator()
	a, err := CreateArray(alloc, Options{})
	if err != nil {
		t.Fatalf("CreateArray: %v", err)
	}
	for _, v := range []int64{0, 1, 2, 3, 4, 5} {
		if err := a.Add(v); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	// Copy [2,4) (values 2,3) so the range ends at 6:
	// [0,1,2,3,4,5] -> [0,1,2,3,2,3]
	if err := a.MoveBackward(2, 4, 6); err != nil {
		t.Fatalf("MoveBackward: %v", err)
	}
	want := []int64{0, 1, 2, 3, 2, 3}
	for i, v := range want {
		if got := a.Get(i); got != v {
			t.Errorf("Get(%d) = %d, want %d", i, got, v)
		}
	}
}

func TestAdjustRange(t *testing.T) {
	alloc := newFakeAllocator()
	a, err := CreateArray(alloc, Options{})
	if err != nil {
		t.Fatalf("CreateArray: %v", err)
	}
	for _, v := range []int64{1, 2, 3, 4} {
		if err := a.Add(v); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := a.AdjustRange(1, 3, 10); err != nil {
		t.Fatalf("AdjustRange: %v", err)
	}
	want := []int64{1, 12, 13, 4}
	for i, v := range want {
		if got := a.Get(i); got != v {
			t.Errorf("Get(%d) = %d, want %d", i, got, v)
		}
	}
}

func TestSetAllToZero(t *testing.T) {
	alloc := newFakeAllocator()
	a, err := CreateArray(alloc, Options{})
	if err != nil {
		t.Fatalf("CreateArray: %v", err)
	}
	for _, v := range []int64{100, -200, 1 << 40} {
		if err := a.Add(v); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if a.Width() == 0 {
		t.Fatalf("Width() = 0 before SetAllToZero, setup is wrong")
	}
	if err := a.SetAllToZero(); err != nil {
		t.Fatalf("SetAllToZero: %v", err)
	}
	if a.Width() != 0 {
		t.Errorf("Width() = %d after SetAllToZero, want 0", a.Width())
	}
	if a.Size() != 3 {
		t.Fatalf("Size() = %d after SetAllToZero, want 3", a.Size())
	}
	for i := 0; i < a.Size(); i++ {
		if got := a.Get(i); got != 0 {
			t.Errorf("Get(%d) = %d after SetAllToZero, want 0", i, got)
		}
	}
}

func TestTruncateAndDestroyChildren(t *testing.T) {
	alloc := newFakeAllocator()
	parent, err := CreateArray(alloc, Options{HasRefs: true})
	if err != nil {
		t.Fatalf("CreateArray parent: %v", err)
	}
	var childRefs []Ref
	for i := 0; i < 3; i++ {
		child, err := CreateArray(alloc, Options{})
		if err != nil {
			t.Fatalf("CreateArray child: %v", err)
		}
		childRefs = append(childRefs, child.Ref())
		if err := parent.Add(int64(NewRef(child.Ref()))); err != nil {
			t.Fatalf("parent.Add: %v", err)
		}
	}

	if err := parent.TruncateAndDestroyChildren(1); err != nil {
		t.Fatalf("TruncateAndDestroyChildren: %v", err)
	}
	if parent.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", parent.Size())
	}
	if _, err := alloc.Translate(childRefs[0]); err != nil {
		t.Errorf("surviving child ref no longer resolves: %v", err)
	}
	for _, ref := range childRefs[1:] {
		if _, err := alloc.Translate(ref); err == nil {
			t.Errorf("truncated child ref %d still resolves", ref)
		}
	}
}

func TestClearAndDestroyChildren(t *testing.T) {
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
	if err := parent.Add(int64(NewRef(childRef))); err != nil {
		t.Fatalf("parent.Add: %v", err)
	}

	if err := parent.ClearAndDestroyChildren(); err != nil {
		t.Fatalf("ClearAndDestroyChildren: %v", err)
	}
	if parent.Size() != 0 {
		t.Errorf("Size() = %d after ClearAndDestroyChildren, want 0", parent.Size())
	}
	if _, err := alloc.Translate(childRef); err == nil {
		t.Errorf("child ref still resolves after ClearAndDestroyChildren")
	}
}

func TestGetChunkTwoThree(t *testing.T) {
	alloc := newFakeAllocator()
	a, err := CreateArray(alloc, Options{})
	if err != nil {
		t.Fatalf("CreateArray: %v", err)
	}
	values := []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	for _, v := range values {
		if err := a.Add(v); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	var chunk [8]int64
	a.GetChunk(0, &chunk)
	for i := 0; i < 8; i++ {
		if chunk[i] != values[i] {
			t.Errorf("GetChunk(0)[%d] = %d, want %d", i, chunk[i], values[i])
		}
	}

	if v0, v1 := a.GetTwo(3); v0 != 3 || v1 != 4 {
		t.Errorf("GetTwo(3) = (%d, %d), want (3, 4)", v0, v1)
	}

	if v0, v1, v2 := a.GetThree(7); v0 != 7 || v1 != 8 || v2 != 9 {
		t.Errorf("GetThree(7) = (%d, %d, %d), want (7, 8, 9)", v0, v1, v2)
	}
}
