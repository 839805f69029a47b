package array

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// buffer is a reference-counted shared byte arena. Multiple Variable views
// (slices, transposes, bin ranges) may alias one buffer; Copy is the only
// operation that allocates a new arena.
type buffer struct {
	data     []byte
	refCount atomic.Int32
	mu       sync.Mutex // for safe deallocation
}

// newBuffer creates a new reference-counted arena with refCount = 1.
func newBuffer(size int) *buffer {
	b := &buffer{
		data: make([]byte, size),
	}
	b.refCount.Store(1)
	return b
}

// addRef increments the reference count (for view/clone operations).
func (b *buffer) addRef() {
	b.refCount.Add(1)
}

// release decrements the reference count and deallocates if it reaches 0.
func (b *buffer) release() {
	if b.refCount.Add(-1) == 0 {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.data = nil
	}
}

// isUnique returns true if this arena has only one reference.
func (b *buffer) isUnique() bool {
	return b.refCount.Load() == 1
}

// asFloat64 interprets the arena as []float64.
func asFloat64(data []byte, n int) []float64 {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), n)
}

// asFloat32 interprets the arena as []float32.
func asFloat32(data []byte, n int) []float32 {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), n)
}

// asInt64 interprets the arena as []int64.
func asInt64(data []byte, n int) []int64 {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(&data[0])), n)
}

// asInt32 interprets the arena as []int32.
func asInt32(data []byte, n int) []int32 {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&data[0])), n)
}

// asBool interprets the arena as []bool.
func asBool(data []byte, n int) []bool {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*bool)(unsafe.Pointer(&data[0])), n)
}
