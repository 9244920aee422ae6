package rwspinlock

import (
	"unsafe"

	"github.com/tringi/rwspinlock/internal/opt"
)

// Padded32 is a Lock32 padded to a full cache line. Use it for dense
// arrays of locks (striped structures) where neighbouring locks would
// otherwise share a line and every acquisition would invalidate the
// neighbours' caches.
type Padded32 struct {
	Lock32
	_ [(opt.CacheLineSize_ - unsafe.Sizeof(Lock32{})%opt.CacheLineSize_) % opt.CacheLineSize_]byte
}

// Padded64 is a Lock64 padded to a full cache line.
type Padded64 struct {
	Lock64
	_ [(opt.CacheLineSize_ - unsafe.Sizeof(Lock64{})%opt.CacheLineSize_) % opt.CacheLineSize_]byte
}
