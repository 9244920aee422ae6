package rwspinlock

import (
	_ "unsafe" // for linkname
)

// noCopy may be added to structs which must not be copied
// after the first use.
//
// See https://golang.org/issues/8005#issuecomment-190753527
// for details.
//
// Note that it must not be embedded, due to the Lock and Unlock methods.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// spinCycles is the argument to the processor spin-wait hint, matching
// the count the runtime itself uses for active spinning.
const spinCycles = 30

// procyield emits the architecture's spin-wait hint (PAUSE on x86) for
// the given number of cycles. It never involves the scheduler.
//
// nolint:all
//
//go:linkname procyield runtime.procyield
//goland:noinspection ALL
func procyield(cycles uint32)
