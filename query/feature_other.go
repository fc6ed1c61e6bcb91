//go:build !amd64

// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package query

// wideLaneEnabled stays false: the wide-lane fast path's lane width
// was chosen to match x86's 128-bit SSE registers, so it is not
// offered as a fallback speedup on other architectures.
