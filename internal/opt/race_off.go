//go:build !race

package opt

const Race_ = false

// LoadFast performs a plain, non-atomic load of *addr.
// The lock uses it for optimistic short-circuits and advisory state
// queries where a stale value only costs an extra CAS attempt.
//
//go:nosplit
func LoadFast[T Int](addr *T) T {
	return *addr
}
