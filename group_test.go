package rwspinlock

import (
	"sync"
	"testing"
	"time"
)

func TestLockGroup_Basic(t *testing.T) {
	var g LockGroup[string]
	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)

	// Concurrent readers on one key
	for range n {
		go func() {
			defer wg.Done()
			g.RLock("key")
			time.Sleep(time.Microsecond)
			g.RUnlock("key")
		}()
	}
	wg.Wait()

	// Writer exclusion
	g.Lock("key")
	done := make(chan struct{})
	go func() {
		g.RLock("key") // must block
		close(done)
		g.RUnlock("key")
	}()

	select {
	case <-done:
		t.Fatal("RLock acquired while Lock held")
	case <-time.After(10 * time.Millisecond):
	}
	g.Unlock("key")

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("RLock not acquired after Unlock")
	}
}

func TestLockGroup_RefCounting(t *testing.T) {
	var g LockGroup[int]

	g.RLock(1)
	if _, ok := g.m.Load(1); !ok {
		t.Fatal("entry should exist after RLock")
	}

	g.RUnlock(1)
	if _, ok := g.m.Load(1); ok {
		t.Fatal("entry should be auto-deleted after RUnlock (ref=0)")
	}
}

func TestLockGroup_IndependentKeys(t *testing.T) {
	var g LockGroup[string]

	g.Lock("a")
	done := make(chan struct{})
	go func() {
		g.Lock("b") // different key, must not block
		g.Unlock("b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("lock on key b blocked behind key a")
	}
	g.Unlock("a")
}

func TestLockGroup_Try(t *testing.T) {
	var g LockGroup[string]

	if !g.TryLock("k") {
		t.Fatal("TryLock failed on a fresh key")
	}
	if g.TryLock("k") {
		t.Fatal("TryLock succeeded on a held key")
	}
	if g.TryRLock("k") {
		t.Fatal("TryRLock succeeded on an exclusively held key")
	}
	g.Unlock("k")

	if _, ok := g.m.Load("k"); ok {
		t.Fatal("entry not cleaned up after Unlock")
	}

	if !g.TryRLock("k") {
		t.Fatal("TryRLock failed on a fresh key")
	}
	if g.TryLock("k") {
		t.Fatal("TryLock succeeded while key is read-held")
	}
	g.RUnlock("k")

	if _, ok := g.m.Load("k"); ok {
		t.Fatal("entry not cleaned up after failed attempts")
	}
}
