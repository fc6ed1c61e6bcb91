// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package query

// wideLaneEnabled reports whether the wide-lane fast path (find.go's
// stand-in for the source design's SSE2/SSE4.2 path, spec.md §4.E
// step 5) is available on this CPU. It is set from cpu.X86.HasSSE42 on
// amd64 (feature_amd64.go) and stays false everywhere else
// (feature_other.go).
var wideLaneEnabled bool
