package runtime

import (
	_ "unsafe" // for go:linkname
)

// Uint32n returns a fast random uint32 value in [0, n).
// Tests use it to jitter goroutine interleavings.
//
//go:linkname Uint32n runtime.fastrandn
func Uint32n(n uint32) uint32
