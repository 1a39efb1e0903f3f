package go_ixicrypt

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// bufferPool manages reusable byte slices for secret material.
// Every buffer is zeroed before it goes back into a pool, so a buffer handed
// out by GetBuffer never carries bytes from a previous owner.
//
// Size classes:
//   - 16 bytes:    Keystream blocks
//   - 512 bytes:   Entropy pools (up to 8 groups of 64 bytes)
//   - 4096 bytes:  Large entropy pools
//   - 16384 bytes: Export scratch buffers
type bufferPool struct {
	pool16  sync.Pool
	pool512 sync.Pool
	pool4K  sync.Pool
	pool16K sync.Pool
	enabled bool
	mu      sync.RWMutex

	gets16        uint64
	gets512       uint64
	gets4K        uint64
	gets16K       uint64
	getsOversized uint64
	puts16        uint64
	puts512       uint64
	puts4K        uint64
	puts16K       uint64
}

func newSizedPool(size int) sync.Pool {
	return sync.Pool{
		New: func() interface{} {
			buf := make([]byte, 0, size)
			return &buf
		},
	}
}

// Global buffer pool instance
var globalBufferPool = &bufferPool{
	pool16:  newSizedPool(16),
	pool512: newSizedPool(512),
	pool4K:  newSizedPool(4096),
	pool16K: newSizedPool(16384),
	enabled: false,
}

// EnableBufferPool enables pooling of generator and export buffers.
func EnableBufferPool() {
	globalBufferPool.mu.Lock()
	globalBufferPool.enabled = true
	globalBufferPool.mu.Unlock()
}

// DisableBufferPool disables pooling. Released buffers are still zeroed.
func DisableBufferPool() {
	globalBufferPool.mu.Lock()
	globalBufferPool.enabled = false
	globalBufferPool.mu.Unlock()
}

// IsBufferPoolEnabled returns whether buffer pooling is currently enabled.
func IsBufferPoolEnabled() bool {
	globalBufferPool.mu.RLock()
	defer globalBufferPool.mu.RUnlock()
	return globalBufferPool.enabled
}

// GetBuffer returns a zeroed buffer of exactly size bytes.
// Its capacity may be larger when it comes from a pool.
func (bp *bufferPool) GetBuffer(size int) []byte {
	bp.mu.RLock()
	enabled := bp.enabled
	bp.mu.RUnlock()

	if !enabled {
		return make([]byte, size)
	}

	var bufPtr *[]byte
	switch {
	case size <= 16:
		atomic.AddUint64(&bp.gets16, 1)
		bufPtr = bp.pool16.Get().(*[]byte)
	case size <= 512:
		atomic.AddUint64(&bp.gets512, 1)
		bufPtr = bp.pool512.Get().(*[]byte)
	case size <= 4096:
		atomic.AddUint64(&bp.gets4K, 1)
		bufPtr = bp.pool4K.Get().(*[]byte)
	case size <= 16384:
		atomic.AddUint64(&bp.gets16K, 1)
		bufPtr = bp.pool16K.Get().(*[]byte)
	default:
		atomic.AddUint64(&bp.getsOversized, 1)
		return make([]byte, size)
	}

	// Pooled buffers were zeroed on Put
	return (*bufPtr)[:size]
}

// PutBuffer zeroes buf and, when pooling is enabled, returns it to its pool.
func (bp *bufferPool) PutBuffer(buf []byte) {
	if buf == nil {
		return
	}
	SecureZero(buf[:cap(buf)])

	bp.mu.RLock()
	enabled := bp.enabled
	bp.mu.RUnlock()

	if !enabled || cap(buf) > 16384 {
		return
	}

	buf = buf[:0]
	switch cap(buf) {
	case 16:
		atomic.AddUint64(&bp.puts16, 1)
		bp.pool16.Put(&buf)
	case 512:
		atomic.AddUint64(&bp.puts512, 1)
		bp.pool512.Put(&buf)
	case 4096:
		atomic.AddUint64(&bp.puts4K, 1)
		bp.pool4K.Put(&buf)
	case 16384:
		atomic.AddUint64(&bp.puts16K, 1)
		bp.pool16K.Put(&buf)
	default:
		// Non-standard capacity - let GC handle it
	}
}

// BufferPoolStats holds buffer pool usage counters.
type BufferPoolStats struct {
	Gets16        uint64
	Gets512       uint64
	Gets4K        uint64
	Gets16K       uint64
	GetsOversized uint64
	Puts16        uint64
	Puts512       uint64
	Puts4K        uint64
	Puts16K       uint64
}

// GetBufferPoolStats returns current buffer pool statistics.
// Returns nil if buffer pooling is disabled.
func GetBufferPoolStats() *BufferPoolStats {
	globalBufferPool.mu.RLock()
	defer globalBufferPool.mu.RUnlock()

	if !globalBufferPool.enabled {
		return nil
	}

	return &BufferPoolStats{
		Gets16:        atomic.LoadUint64(&globalBufferPool.gets16),
		Gets512:       atomic.LoadUint64(&globalBufferPool.gets512),
		Gets4K:        atomic.LoadUint64(&globalBufferPool.gets4K),
		Gets16K:       atomic.LoadUint64(&globalBufferPool.gets16K),
		GetsOversized: atomic.LoadUint64(&globalBufferPool.getsOversized),
		Puts16:        atomic.LoadUint64(&globalBufferPool.puts16),
		Puts512:       atomic.LoadUint64(&globalBufferPool.puts512),
		Puts4K:        atomic.LoadUint64(&globalBufferPool.puts4K),
		Puts16K:       atomic.LoadUint64(&globalBufferPool.puts16K),
	}
}

// SecureZero overwrites b with zeros.
func SecureZero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// secureBuffer is an exclusively owned buffer for secret bytes.
// Release zeroes the bytes and hands the storage back to the pool; it is
// safe to call more than once.
type secureBuffer struct {
	buf []byte
}

// newSecureBuffer allocates a zeroed secure buffer of size bytes.
func newSecureBuffer(size int) *secureBuffer {
	return &secureBuffer{buf: globalBufferPool.GetBuffer(size)}
}

// newSecureBufferFrom allocates a secure buffer holding a copy of src.
func newSecureBufferFrom(src []byte) *secureBuffer {
	sb := newSecureBuffer(len(src))
	copy(sb.buf, src)
	return sb
}

// Bytes returns the owned bytes, or nil after Release.
func (sb *secureBuffer) Bytes() []byte {
	if sb == nil {
		return nil
	}
	return sb.buf
}

// Len returns the buffer length, or 0 after Release.
func (sb *secureBuffer) Len() int {
	if sb == nil {
		return 0
	}
	return len(sb.buf)
}

// Released reports whether the buffer no longer owns memory.
func (sb *secureBuffer) Released() bool {
	return sb == nil || sb.buf == nil
}

// Release zeroes and gives up the owned bytes.
func (sb *secureBuffer) Release() {
	if sb == nil || sb.buf == nil {
		return
	}
	globalBufferPool.PutBuffer(sb.buf)
	sb.buf = nil
}
