// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package bparray implements the bit-packed integer array node used as
// both the universal leaf and the universal interior node of every
// on-disk tree in a persistent object database: integer columns,
// B+-tree offsets, string indexes, reference arrays, and free-space
// maps.
//
// An array node packs size elements at a width of 0, 1, 2, 4, 8, 16, 32,
// or 64 bits each. The width adapts automatically as values are written
// (Accessor.Set grows the width when needed; it never shrinks on its
// own). Nodes may hold plain signed integers or, when HasRefs is set,
// a mix of child Refs and tagged inline integers (see RefOrTagged).
//
// Accessor is the transient handle used to read and mutate a node. It
// is not safe for concurrent use: callers construct one Accessor per
// goroutine from a Ref and an Allocator. Mutation is copy-on-write —
// see Accessor.Set and the copyOnWrite method in cow.go for the
// protocol that keeps a persistent tree consistent as nodes relocate.
//
// The query kernel lives in the sibling package
// github.com/coredb/bparray/query.
package bparray
