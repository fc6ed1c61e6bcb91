// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package memalloc is a minimal in-memory implementation of
// github.com/coredb/bparray.Allocator and bparray.Writer, for tests
// and standalone use of the array core without a real backing store.
//
// It is not the slab allocator spec.md §1 lists as an external
// collaborator out of scope for this module: there is no free-list
// reuse of freed refs, no crash recovery, and no on-disk persistence.
// What it does model faithfully is the copy-on-write boundary: Commit
// freezes every ref allocated so far as read-only, matching the
// teacher's own checkpoint/watermark pattern (internal/heap.checkpoint
// in the teacher repo), so Accessor.Set and friends exercise the same
// COW relocation path they would against a real store.
package memalloc
