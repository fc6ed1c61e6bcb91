//go:build amd64

// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package query

import "golang.org/x/sys/cpu"

func init() {
	wideLaneEnabled = cpu.X86.HasSSE42
}
