// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package query

// Predicate is one of the six comparison conditions the kernel
// specializes on. can_match and will_match let find_optimized prune an
// entire leaf (or confirm the whole window matches) before touching
// individual elements.
type Predicate interface {
	// Name identifies the predicate for dispatch tables that key on it
	// rather than on a type switch (find.go, chunk.go).
	Name() string

	// Match reports whether v satisfies the predicate against target.
	Match(v, target int64) bool

	// CanMatch reports whether any value in [lo, hi] could satisfy the
	// predicate against target. false lets the caller skip the node
	// entirely.
	CanMatch(target, lo, hi int64) bool

	// WillMatch reports whether every value in [lo, hi] satisfies the
	// predicate against target. true lets the caller run the bulk
	// action over the whole window without per-element testing.
	WillMatch(target, lo, hi int64) bool
}

type equalPredicate struct{}
type notEqualPredicate struct{}
type greaterPredicate struct{}
type lessPredicate struct{}
type greaterEqualPredicate struct{}
type lessEqualPredicate struct{}

// Equal is the "==" predicate.
var Equal Predicate = equalPredicate{}

// NotEqual is the "!=" predicate.
var NotEqual Predicate = notEqualPredicate{}

// Greater is the ">" predicate.
var Greater Predicate = greaterPredicate{}

// Less is the "<" predicate.
var Less Predicate = lessPredicate{}

// GreaterEqual is the ">=" predicate.
var GreaterEqual Predicate = greaterEqualPredicate{}

// LessEqual is the "<=" predicate.
var LessEqual Predicate = lessEqualPredicate{}

func (equalPredicate) Name() string { return "Equal" }
func (equalPredicate) Match(v, target int64) bool { return v == target }
func (equalPredicate) CanMatch(target, lo, hi int64) bool { return target >= lo && target <= hi }
func (equalPredicate) WillMatch(target, lo, hi int64) bool { return lo == hi && lo == target }

func (notEqualPredicate) Name() string { return "NotEqual" }
func (notEqualPredicate) Match(v, target int64) bool { return v != target }
func (notEqualPredicate) CanMatch(target, lo, hi int64) bool { return !(lo == hi && lo == target) }
func (notEqualPredicate) WillMatch(target, lo, hi int64) bool { return target < lo || target > hi }

func (greaterPredicate) Name() string { return "Greater" }
func (greaterPredicate) Match(v, target int64) bool { return v > target }
func (greaterPredicate) CanMatch(target, lo, hi int64) bool { return hi > target }
func (greaterPredicate) WillMatch(target, lo, hi int64) bool { return lo > target }

func (lessPredicate) Name() string { return "Less" }
func (lessPredicate) Match(v, target int64) bool { return v < target }
func (lessPredicate) CanMatch(target, lo, hi int64) bool { return lo < target }
func (lessPredicate) WillMatch(target, lo, hi int64) bool { return hi < target }

func (greaterEqualPredicate) Name() string { return "GreaterEqual" }
func (greaterEqualPredicate) Match(v, target int64) bool { return v >= target }
func (greaterEqualPredicate) CanMatch(target, lo, hi int64) bool { return hi >= target }
func (greaterEqualPredicate) WillMatch(target, lo, hi int64) bool { return lo >= target }

func (lessEqualPredicate) Name() string { return "LessEqual" }
func (lessEqualPredicate) Match(v, target int64) bool { return v <= target }
func (lessEqualPredicate) CanMatch(target, lo, hi int64) bool { return lo <= target }
func (lessEqualPredicate) WillMatch(target, lo, hi int64) bool { return hi <= target }
