//go:build rwspinlock_cachelinesize_128

package opt

// CacheLineSize_ is force-set to 128 bytes via the
// rwspinlock_cachelinesize_128 build tag.
// Use: go build -tags=rwspinlock_cachelinesize_128
const CacheLineSize_ = 128
