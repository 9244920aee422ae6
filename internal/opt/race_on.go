//go:build race

package opt

// Race_ reports whether the race detector is enabled.
const Race_ = true

// LoadFast conservative: atomic load to satisfy the race detector.
//
//go:nosplit
func LoadFast[T Int](addr *T) T {
	return Load(addr)
}
