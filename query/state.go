// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package query

import "math"

// Action selects which QueryState variant Find drives.
type Action int

const (
	ReturnFirst Action = iota
	Sum
	Max
	Min
	Count
	FindAll
	CallbackIdx
	CallbackVal
	CallbackNone
	CallbackBoth
	Average
)

// IndexSink receives matched indexes from a FindAll action. SliceSink
// and RoaringSink (sink.go) are the two implementations this module
// ships.
type IndexSink interface {
	Add(index int)
}

// QueryState is the tagged accumulator the kernel calls back into once
// per match (spec.md §4.E). The kernel never branches on Action itself;
// it only calls Match, so adding a new action never touches find.go.
type QueryState struct {
	Action Action
	Limit  int // 0 means unlimited

	matchCount int
	minmaxIdx  int
	firstIdx   int

	sum int64
	min int64
	max int64

	sink IndexSink

	onIdx  func(index int) bool
	onVal  func(value int64) bool
	onNone func() bool
	onBoth func(index int, value int64) bool
}

// NewReturnFirst builds a state that stops at the first match and
// records its index (FirstIndex()).
func NewReturnFirst() *QueryState {
	return &QueryState{Action: ReturnFirst, Limit: 1, firstIdx: -1}
}

// NewSum builds a state that accumulates the sum of every match.
func NewSum() *QueryState { return &QueryState{Action: Sum} }

// NewMax builds a state that tracks the maximum matched value and its
// index. An empty match set leaves MaxResult() at math.MinInt64.
func NewMax() *QueryState { return &QueryState{Action: Max, max: math.MinInt64, minmaxIdx: -1} }

// NewMin builds a state that tracks the minimum matched value and its
// index. An empty match set leaves MinResult() at math.MaxInt64.
func NewMin() *QueryState { return &QueryState{Action: Min, min: math.MaxInt64, minmaxIdx: -1} }

// NewCount builds a state that only counts matches.
func NewCount() *QueryState { return &QueryState{Action: Count} }

// NewAverage builds a state that accumulates Sum and Count to derive
// their ratio (Average() below). spec.md §4.E lists Average among the
// actions without describing it; this module defines it as Sum/Count
// over the matched elements, reusing the Sum/Count accumulator fields
// rather than carrying separate state.
func NewAverage() *QueryState { return &QueryState{Action: Average} }

// NewFindAll builds a state that deposits every matched index into
// sink, stopping once limit matches are found (0 = unlimited).
func NewFindAll(sink IndexSink, limit int) *QueryState {
	return &QueryState{Action: FindAll, Limit: limit, sink: sink}
}

// NewCallbackIdx builds a state that calls fn with each matched index.
// fn returns false to stop the search early.
func NewCallbackIdx(fn func(index int) bool) *QueryState {
	return &QueryState{Action: CallbackIdx, onIdx: fn}
}

// NewCallbackVal builds a state that calls fn with each matched value.
func NewCallbackVal(fn func(value int64) bool) *QueryState {
	return &QueryState{Action: CallbackVal, onVal: fn}
}

// NewCallbackNone builds a state that calls fn once per match with no
// argument, useful for plain existence/counting side effects.
func NewCallbackNone(fn func() bool) *QueryState {
	return &QueryState{Action: CallbackNone, onNone: fn}
}

// NewCallbackBoth builds a state that calls fn with each matched index
// and value.
func NewCallbackBoth(fn func(index int, value int64) bool) *QueryState {
	return &QueryState{Action: CallbackBoth, onBoth: fn}
}

// Match is called once per matched element. It returns false to stop
// the search: either the state's own terminal condition (ReturnFirst,
// Limit) or a callback asking to stop.
func (s *QueryState) Match(index int, value int64) bool {
	s.matchCount++
	cont := true
	switch s.Action {
	case ReturnFirst:
		if s.firstIdx < 0 {
			s.firstIdx = index
		}
		cont = false
	case Sum, Average:
		s.sum += value
	case Max:
		if value > s.max {
			s.max, s.minmaxIdx = value, index
		}
	case Min:
		if value < s.min {
			s.min, s.minmaxIdx = value, index
		}
	case Count:
		// matchCount already incremented above.
	case FindAll:
		s.sink.Add(index)
	case CallbackIdx:
		cont = s.onIdx(index)
	case CallbackVal:
		cont = s.onVal(value)
	case CallbackNone:
		cont = s.onNone()
	case CallbackBoth:
		cont = s.onBoth(index, value)
	}
	if !cont {
		return false
	}
	if s.Limit > 0 && s.matchCount >= s.Limit {
		return false
	}
	return true
}

// MatchUniform reports count consecutive matches, starting at
// baseIndex, that all carry the same value — the packed-chunk "pattern
// match" fast path from spec.md §4.E/GLOSSARY. wordEquality's dense
// case calls this once per matching chunk instead of calling Match once
// per field. Actions that only need an aggregate (Count, Sum, Average,
// Max, Min) update their accumulator in O(1) without visiting each
// index; ReturnFirst only needs the first one. Actions that must see
// every individual index (FindAll, the callback variants) still visit
// each one via Match, but without chunk.go having to re-decode a field
// value it already knows is uniform across the whole chunk.
func (s *QueryState) MatchUniform(baseIndex, count int, value int64) bool {
	if count <= 0 {
		return true
	}
	switch s.Action {
	case ReturnFirst:
		return s.Match(baseIndex, value)
	case Sum, Average:
		s.matchCount += count
		s.sum += value * int64(count)
	case Max:
		s.matchCount += count
		if value > s.max {
			s.max, s.minmaxIdx = value, baseIndex
		}
	case Min:
		s.matchCount += count
		if value < s.min {
			s.min, s.minmaxIdx = value, baseIndex
		}
	case Count:
		s.matchCount += count
	default:
		for k := 0; k < count; k++ {
			if !s.Match(baseIndex+k, value) {
				return false
			}
		}
		return true
	}
	if s.Limit > 0 && s.matchCount >= s.Limit {
		return false
	}
	return true
}

// MatchCount returns the number of matches seen so far.
func (s *QueryState) MatchCount() int { return s.matchCount }

// FirstIndex returns the index found by a ReturnFirst state, or -1 if
// none matched.
func (s *QueryState) FirstIndex() int { return s.firstIdx }

// SumResult returns the accumulated sum for a Sum state.
func (s *QueryState) SumResult() int64 { return s.sum }

// MaxResult returns the maximum matched value and its index for a Max
// state.
func (s *QueryState) MaxResult() (value int64, index int) { return s.max, s.minmaxIdx }

// MinResult returns the minimum matched value and its index for a Min
// state.
func (s *QueryState) MinResult() (value int64, index int) { return s.min, s.minmaxIdx }

// Average returns SumResult()/MatchCount() for an Average state. It returns 0 if
// nothing matched.
func (s *QueryState) Average() float64 {
	if s.matchCount == 0 {
		return 0
	}
	return float64(s.sum) / float64(s.matchCount)
}
