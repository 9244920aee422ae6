// Package rwspinlock implements a slim, unfair reader-writer spin lock.
//
// The entire state of a lock is one signed integer, so it can be embedded
// in arbitrary data structures or placed in process-shared memory. It is
// meant for many independent locks each protecting a critical section of
// a few instructions, not for a single heavily contended lock.
//
// Properties:
//   - Unfair: no FIFO ordering among contenders; writers can be starved
//     by a steady stream of readers and vice versa.
//   - Not reentrant: a holder re-acquiring exclusively deadlocks itself.
//   - Upgrade/downgrade between shared and exclusive without passing
//     through the unowned state.
//   - Adaptive waiting: busy spin, then scheduler yield, then ~1ms sleeps.
package rwspinlock

import (
	"github.com/tringi/rwspinlock/internal/opt"
)

// StateType is the set of widths the state cell may use. The width is a
// compile-time choice; every operation monomorphizes, there is no
// per-call dispatch.
type StateType interface {
	~int16 | ~int32 | ~int64
}

// Lock is a reader-writer spin lock occupying a single integer:
//
//	 0   unowned
//	-1   owned exclusively
//	 k   held by k readers (k >= 1)
//
// The zero value is an unlocked lock. A Lock must not be copied after
// first use, and must not be destroyed (freed, unmapped) while held.
//
// When placed in cross-process shared memory the cell must be naturally
// aligned for its width. The 32- and 64-bit widths use native atomics
// and are cross-process coherent; the 16-bit width is emulated on the
// containing 32-bit word and is coherent only between parties using the
// same emulation. On 32-bit platforms a 64-bit cell additionally needs
// 8-byte alignment.
type Lock[T StateType] struct {
	_     noCopy
	state T
}

// Width aliases. Lock32 is the usual choice; Lock16 packs tightest,
// Lock64 leaves headroom for pathological reader counts.
type (
	Lock16 = Lock[int16]
	Lock32 = Lock[int32]
	Lock64 = Lock[int64]
)

// exclusivelyOwned marks the state of a lock held by a single writer.
const exclusivelyOwned = -1

// TryLock attempts to acquire the lock exclusively without spinning.
//
// The initial plain load skips the bus-locked CAS when the lock is
// visibly taken; the CAS that follows is authoritative.
//
//go:nosplit
func (l *Lock[T]) TryLock() bool {
	return opt.LoadFast(&l.state) == 0 &&
		opt.Cas(&l.state, 0, exclusivelyOwned)
}

// TryRLock attempts to acquire one shared reference without spinning.
//
// A failure may be spurious: a concurrent reader changing the count
// between the load and the CAS reports as failure. The spinning
// wrappers retry; callers of the raw primitive must do the same if they
// care to distinguish.
//
//go:nosplit
func (l *Lock[T]) TryRLock() bool {
	s := opt.LoadFast(&l.state)
	return s != exclusivelyOwned && opt.Cas(&l.state, s, s+1)
}

// TryUpgrade attempts to convert a shared reference into exclusive
// ownership without spinning. It succeeds only when the caller is the
// sole reader.
//
// Call ONLY while holding exactly one shared reference; afterwards
// release with Unlock or Downgrade, not RUnlock. While this caller holds
// other shared references the count stays above one, so the upgrade
// never succeeds.
//
//go:nosplit
func (l *Lock[T]) TryUpgrade() bool {
	return opt.LoadFast(&l.state) == 1 &&
		opt.Cas(&l.state, 1, exclusivelyOwned)
}

// Unlock releases exclusive ownership.
//
//go:nosplit
func (l *Lock[T]) Unlock() {
	opt.Swap(&l.state, 0)
}

// RUnlock releases one shared reference.
//
//go:nosplit
func (l *Lock[T]) RUnlock() {
	opt.Dec(&l.state)
}

// Downgrade converts exclusive ownership into a single shared
// reference, without passing through the unowned state. Writes made
// while exclusive are visible to every reader that acquires afterwards.
// Call ONLY while holding the lock exclusively; release with RUnlock.
//
//go:nosplit
func (l *Lock[T]) Downgrade() {
	opt.Swap(&l.state, 1)
}

// ForceUnlock clears the lock regardless of ownership.
//
// Recovery only: use when the thread or process holding the lock
// exclusively has crashed and no other holder exists.
func (l *Lock[T]) ForceUnlock() {
	l.Unlock()
}

// IsLocked reports whether the lock is currently held, shared or
// exclusively. The snapshot is advisory; it may be stale by the time
// the call returns.
//
//go:nosplit
func (l *Lock[T]) IsLocked() bool {
	return opt.LoadFast(&l.state) != 0
}

// IsLockedExclusively reports whether the lock is currently held
// exclusively. Advisory, like IsLocked.
//
//go:nosplit
func (l *Lock[T]) IsLockedExclusively() bool {
	return opt.LoadFast(&l.state) == exclusivelyOwned
}
