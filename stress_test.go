package rwspinlock

import (
	"math/rand/v2"
	"runtime"
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/tringi/rwspinlock/internal/opt"
)

// Randomized interleavings of every acquire/release path across
// GOMAXPROCS goroutines. The gauges encode the state invariants: at
// most one writer, never a writer and a reader together, reference
// counts always settle back to zero.
func TestLock_RandomizedStress(t *testing.T) {
	if testing.Short() {
		t.Skip("stress test")
	}

	var l Lock32
	var readers atomic.Int32
	var writers atomic.Int32

	enterWrite := func() {
		if writers.Add(1) != 1 {
			t.Error("two writers inside the lock")
		}
		if readers.Load() != 0 {
			t.Error("writer overlaps readers")
		}
		writers.Add(-1)
	}
	enterRead := func() {
		readers.Add(1)
		if writers.Load() != 0 {
			t.Error("reader overlaps a writer")
		}
		readers.Add(-1)
	}

	loops := 20000
	if opt.Race_ {
		loops = 2000
	}
	workers := runtime.GOMAXPROCS(0)

	var eg errgroup.Group
	for w := range workers {
		eg.Go(func() error {
			r := rand.New(rand.NewPCG(uint64(w), 0x9e3779b97f4a7c15))
			for range loops {
				switch r.IntN(10) {
				case 0, 1, 2:
					l.Lock()
					enterWrite()
					l.Unlock()

				case 3:
					if _, ok := l.LockTimeout(0); ok {
						enterWrite()
						l.Unlock()
					}

				case 4, 5, 6:
					l.RLock()
					enterRead()
					l.RUnlock()

				case 7: // may fail spuriously under reader churn
					if l.TryRLock() {
						enterRead()
						l.RUnlock()
					}

				case 8: // upgrade attempt from a shared hold
					l.RLock()
					enterRead()
					if l.TryUpgrade() {
						enterWrite()
						l.Downgrade()
					}
					l.RUnlock()

				case 9:
					l.Lock()
					enterWrite()
					l.Downgrade()
					enterRead()
					l.RUnlock()
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}

	if l.IsLocked() {
		t.Fatalf("settled state = %d, want 0", l.state)
	}
}
