package rwspinlock

import (
	"time"
)

// Scope guards bind an acquisition to a named handle whose release is
// deferred, so the guarded body cannot outlive the lock:
//
//	if g := l.ExclusivelyTimeout(time.Millisecond); g.Held() {
//		defer g.Release()
//		// guarded body
//	}
//
// Guards are created only by the lock. A guard whose acquisition failed
// is inert: Held reports false and every operation is a no-op, so
// Release may be deferred unconditionally. Guards are handles, not
// values; don't copy them (Shared has Clone for that).

// Exclusive guards exclusive ownership of a lock.
type Exclusive[T StateType] struct {
	lock   *Lock[T]
	rounds uint32
}

// Exclusively acquires the lock exclusively, spinning until it
// succeeds, and returns the guard bound to it.
func (l *Lock[T]) Exclusively() *Exclusive[T] {
	return &Exclusive[T]{lock: l, rounds: l.Lock()}
}

// ExclusivelyTimeout acquires the lock exclusively, giving up once the
// timeout elapses. Test the returned guard with Held.
func (l *Lock[T]) ExclusivelyTimeout(timeout time.Duration) *Exclusive[T] {
	rounds, ok := l.LockTimeout(timeout)
	g := &Exclusive[T]{rounds: rounds}
	if ok {
		g.lock = l
	}
	return g
}

// Held reports whether the guard still owns the lock.
func (g *Exclusive[T]) Held() bool {
	return g != nil && g.lock != nil
}

// Rounds reports how many backoff rounds the acquisition waited.
func (g *Exclusive[T]) Rounds() uint32 {
	return g.rounds
}

// Release releases the lock before the scope ends. No-op on a guard
// that is not held, so deferring it unconditionally is safe.
func (g *Exclusive[T]) Release() {
	if g.lock != nil {
		g.lock.Unlock()
		g.lock = nil
	}
}

// TemporarilyUnlock releases the lock immediately and returns a handle
// that re-acquires it exclusively:
//
//	func long(g *rwspinlock.Exclusive[int32]) {
//		defer g.TemporarilyUnlock().Relock()
//		// lock released here
//	}
//
// The parent guard stays responsible for the final Release after the
// re-acquisition.
func (g *Exclusive[T]) TemporarilyUnlock() *UnlockedExclusive[T] {
	if g.lock != nil {
		g.lock.Unlock()
	}
	return &UnlockedExclusive[T]{lock: g.lock}
}

// UnlockedExclusive restores exclusive ownership released by
// Exclusive.TemporarilyUnlock.
type UnlockedExclusive[T StateType] struct {
	lock *Lock[T]
}

// Relock re-acquires the lock exclusively, spinning until it succeeds,
// and returns the rounds waited. Second and later calls are no-ops.
func (u *UnlockedExclusive[T]) Relock() (rounds uint32) {
	if u.lock != nil {
		rounds = u.lock.Lock()
		u.lock = nil
	}
	return rounds
}

// Shared guards one shared reference to a lock.
type Shared[T StateType] struct {
	lock   *Lock[T]
	rounds uint32
}

// Share acquires one shared reference, spinning until it succeeds, and
// returns the guard bound to it.
func (l *Lock[T]) Share() *Shared[T] {
	return &Shared[T]{lock: l, rounds: l.RLock()}
}

// ShareTimeout acquires one shared reference, giving up once the
// timeout elapses. Test the returned guard with Held.
func (l *Lock[T]) ShareTimeout(timeout time.Duration) *Shared[T] {
	rounds, ok := l.RLockTimeout(timeout)
	g := &Shared[T]{rounds: rounds}
	if ok {
		g.lock = l
	}
	return g
}

// Held reports whether the guard still holds its shared reference.
func (g *Shared[T]) Held() bool {
	return g != nil && g.lock != nil
}

// Rounds reports how many backoff rounds the acquisition waited.
func (g *Shared[T]) Rounds() uint32 {
	return g.rounds
}

// Release drops the shared reference before the scope ends. No-op on a
// guard that is not held.
func (g *Shared[T]) Release() {
	if g.lock != nil {
		g.lock.RUnlock()
		g.lock = nil
	}
}

// Clone acquires one additional shared reference on the same lock and
// returns its own guard. It is the copy operation for shared guards;
// cloning spins until the reference is acquired. Cloning a guard that
// is not held yields another inert guard.
func (g *Shared[T]) Clone() *Shared[T] {
	if g.lock == nil {
		return &Shared[T]{}
	}
	return g.lock.Share()
}

// TryUpgrade attempts to convert this shared reference into exclusive
// ownership without spinning. It succeeds only when this guard holds
// the sole reference; on failure the shared reference is retained and
// the returned guard is inert.
//
// The guard must be the caller's only shared reference on the lock.
func (g *Shared[T]) TryUpgrade() *Upgraded[T] {
	if g.lock != nil && g.lock.TryUpgrade() {
		return &Upgraded[T]{lock: g.lock}
	}
	return &Upgraded[T]{}
}

// Upgrade converts this shared reference into exclusive ownership,
// giving up once the timeout elapses. On failure the shared reference
// is retained and the returned guard is inert.
func (g *Shared[T]) Upgrade(timeout time.Duration) *Upgraded[T] {
	if g.lock == nil {
		return &Upgraded[T]{}
	}
	rounds, ok := g.lock.Upgrade(timeout)
	u := &Upgraded[T]{rounds: rounds}
	if ok {
		u.lock = g.lock
	}
	return u
}

// TemporarilyUnlock drops the shared reference immediately and returns
// a handle that re-acquires it, mirroring Exclusive.TemporarilyUnlock.
func (g *Shared[T]) TemporarilyUnlock() *UnlockedShared[T] {
	if g.lock != nil {
		g.lock.RUnlock()
	}
	return &UnlockedShared[T]{lock: g.lock}
}

// UnlockedShared restores the shared reference released by
// Shared.TemporarilyUnlock.
type UnlockedShared[T StateType] struct {
	lock *Lock[T]
}

// Relock re-acquires one shared reference, spinning until it succeeds,
// and returns the rounds waited. Second and later calls are no-ops.
func (u *UnlockedShared[T]) Relock() (rounds uint32) {
	if u.lock != nil {
		rounds = u.lock.RLock()
		u.lock = nil
	}
	return rounds
}

// Upgraded guards exclusive ownership obtained by upgrading a shared
// guard. Releasing it downgrades back to shared; the parent Shared
// guard keeps its reference and performs the final release.
type Upgraded[T StateType] struct {
	lock   *Lock[T]
	rounds uint32
}

// Held reports whether the upgraded ownership is still active.
func (g *Upgraded[T]) Held() bool {
	return g != nil && g.lock != nil
}

// Rounds reports how many backoff rounds the upgrade waited.
func (g *Upgraded[T]) Rounds() uint32 {
	return g.rounds
}

// Release downgrades back to a single shared reference before the
// scope ends. No-op on a guard that is not held.
func (g *Upgraded[T]) Release() {
	if g.lock != nil {
		g.lock.Downgrade()
		g.lock = nil
	}
}
