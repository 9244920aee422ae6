package rwspinlock

import (
	"github.com/llxisdsh/pb"
)

// LockGroup provides reader-writer spin locking on arbitrary keys
// (string, int, struct, etc.). It dynamically manages the set of locks
// associated with live keys.
//
// Features:
//   - Infinite keys: no need to pre-allocate locks.
//   - Auto-cleanup: a lock is removed from memory once unlocked with no
//     one else holding or waiting on its key.
//
// Usage:
//
//	var group rwspinlock.LockGroup[string]
//
//	group.RLock("config")
//	read(config)
//	group.RUnlock("config")
//
//	group.Lock("config")
//	write(config)
//	group.Unlock("config")
//
// The per-key locks carry every property of Lock: unfair, not
// reentrant, meant for tiny critical sections.
//
// Implementation note: entries are reference counted; count maintenance
// is serialized per key by the map's ProcessEntry.
type LockGroup[K comparable] struct {
	_ noCopy
	m pb.MapOf[K, *groupEntry]
}

type groupEntry struct {
	mu  Lock32
	ref int32
}

func (g *LockGroup[K]) retain(k K) *groupEntry {
	e, _ := g.m.ProcessEntry(k,
		func(l *pb.EntryOf[K, *groupEntry]) (*pb.EntryOf[K, *groupEntry], *groupEntry, bool) {
			if l != nil {
				l.Value.ref++
				return l, l.Value, true
			}
			e := &groupEntry{ref: 1}
			return &pb.EntryOf[K, *groupEntry]{Value: e}, e, false
		},
	)
	return e
}

func (g *LockGroup[K]) release(k K) {
	g.m.ProcessEntry(k,
		func(l *pb.EntryOf[K, *groupEntry]) (*pb.EntryOf[K, *groupEntry], *groupEntry, bool) {
			if l == nil {
				return nil, nil, false
			}
			l.Value.ref--
			if l.Value.ref <= 0 {
				return nil, nil, true
			}
			return l, l.Value, true
		},
	)
}

// Lock acquires the key's lock exclusively, spinning until it succeeds.
func (g *LockGroup[K]) Lock(k K) {
	g.retain(k).mu.Lock()
}

// Unlock releases exclusive ownership of the key's lock.
func (g *LockGroup[K]) Unlock(k K) {
	e, ok := g.m.Load(k)
	if !ok {
		return
	}
	e.mu.Unlock()
	g.release(k)
}

// RLock acquires one shared reference on the key's lock, spinning until
// it succeeds.
func (g *LockGroup[K]) RLock(k K) {
	g.retain(k).mu.RLock()
}

// RUnlock releases one shared reference on the key's lock.
func (g *LockGroup[K]) RUnlock(k K) {
	e, ok := g.m.Load(k)
	if !ok {
		return
	}
	e.mu.RUnlock()
	g.release(k)
}

// TryLock attempts to acquire the key's lock exclusively without
// spinning. On failure no entry is retained.
func (g *LockGroup[K]) TryLock(k K) bool {
	if g.retain(k).mu.TryLock() {
		return true
	}
	g.release(k)
	return false
}

// TryRLock attempts to acquire one shared reference on the key's lock
// without spinning. Failures may be spurious under reader churn, like
// Lock.TryRLock. On failure no entry is retained.
func (g *LockGroup[K]) TryRLock(k K) bool {
	if g.retain(k).mu.TryRLock() {
		return true
	}
	g.release(k)
	return false
}
