// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package memalloc

import (
	"sync"

	"github.com/coredb/bparray"
)

// Store is an in-memory arena keyed by bparray.Ref, safe for
// concurrent use (one writer, many readers, per spec.md §5). Refs
// below the current checkpoint's watermark are read-only; Commit
// advances the watermark to freeze everything allocated so far,
// exactly the role the teacher's heap.checkpoint plays for its own
// block allocator.
type Store struct {
	mu    sync.RWMutex
	arena map[bparray.Ref][]byte
	next  int64
	head  *checkpoint
}

// New returns an empty Store. Refs start at 2 (0 and 1 are reserved:
// spec.md §3's RefOrTagged union treats any even value >= 2 as a
// ref, odd values as tagged integers, and 0 as invalid).
func New() *Store {
	return &Store{arena: make(map[bparray.Ref][]byte), next: 2}
}

var _ bparray.Allocator = (*Store)(nil)
var _ bparray.Writer = (*Store)(nil)

func (s *Store) isReadOnlyLocked(ref bparray.Ref) bool {
	return s.head != nil && int64(ref) < s.head.watermark
}

// Alloc reserves size fresh bytes and returns their ref.
func (s *Store) Alloc(size int) (bparray.Ref, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := bparray.Ref(s.next)
	s.next += 2
	s.arena[ref] = make([]byte, size)
	return ref, nil
}

// Realloc resizes the buffer behind ref in place, preserving its
// existing ref. It fails with bparray.ErrReadOnly if ref has been
// frozen by a Commit; callers (Accessor.copyOnWrite) are expected to
// check IsReadOnly and call Alloc instead in that case.
func (s *Store) Realloc(ref bparray.Ref, size int) (bparray.Ref, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isReadOnlyLocked(ref) {
		return 0, bparray.ErrReadOnly
	}
	old, ok := s.arena[ref]
	if !ok {
		return 0, bparray.ErrOutOfRange
	}
	buf := make([]byte, size)
	copy(buf, old)
	s.arena[ref] = buf
	return ref, nil
}

// Free releases the buffer behind ref. Freeing a ref that some
// checkpoint still references is the caller's mistake: this store
// does not defer reclamation past an outstanding Checkpoint (that
// bookkeeping belongs to the slab allocator spec.md §1 excludes).
func (s *Store) Free(ref bparray.Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.arena[ref]; !ok {
		return bparray.ErrOutOfRange
	}
	delete(s.arena, ref)
	return nil
}

// Translate returns the live byte slice behind ref.
func (s *Store) Translate(ref bparray.Ref) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	buf, ok := s.arena[ref]
	if !ok {
		return nil, bparray.ErrOutOfRange
	}
	return buf, nil
}

// IsReadOnly reports whether ref was allocated before the most recent
// Commit and must therefore be copy-on-write relocated rather than
// mutated in place.
func (s *Store) IsReadOnly(ref bparray.Ref) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isReadOnlyLocked(ref)
}

// Write implements bparray.Writer by allocating a fresh ref and
// copying p into it, the same shape Accessor.Write and CloneDeep drive
// when serializing a node tree out to a destination store.
func (s *Store) Write(p []byte) (bparray.Ref, error) {
	ref, err := s.Alloc(len(p))
	if err != nil {
		return 0, err
	}
	buf, err := s.Translate(ref)
	if err != nil {
		return 0, err
	}
	copy(buf, p)
	return ref, nil
}

// Commit freezes every ref allocated so far as read-only and returns a
// Checkpoint the caller must Release once no reader needs that
// snapshot anymore. It is the store-level half of the copy-on-write
// protocol spec.md §4.C describes: after Commit, the next mutation
// through any Accessor still attached to a pre-commit ref relocates
// instead of mutating in place.
func (s *Store) Commit() Checkpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	ck := &checkpoint{store: s, watermark: s.next, prev: s.head}
	ck.ref.Store(1)
	s.head = ck
	return ck
}
