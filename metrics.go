package go_ixicrypt

import (
	"sync"
	"sync/atomic"
	"time"
)

// MetricsCollector defines the interface for collecting key-generation metrics.
// Applications can plug in their own implementation (Prometheus, StatsD, ...).
//
// All methods are safe for concurrent use and should be non-blocking.
type MetricsCollector interface {
	// IncrementKeysGenerated counts a successfully exported key of the given size.
	IncrementKeysGenerated(keySizeBits int)

	// IncrementFailure counts a failed request by the stage that failed.
	IncrementFailure(stage KeyGenStage)

	// AddRandomBytes adds to the number of bytes drawn from generators.
	AddRandomBytes(bytes uint64)

	// AddBlocksGenerated adds to the number of keystream blocks produced.
	AddBlocksGenerated(blocks uint64)

	// RecordKeyGenLatency records the duration of a request for a key size.
	RecordKeyGenLatency(keySizeBits int, duration time.Duration)
}

// InMemoryMetrics provides a simple in-memory implementation of MetricsCollector.
// Suitable for development, testing, and applications that want basic metrics
// without external dependencies.
type InMemoryMetrics struct {
	keysMu     sync.RWMutex
	keysBySize map[int]uint64

	failuresMu      sync.RWMutex
	failuresByStage map[KeyGenStage]uint64

	latencyMu     sync.RWMutex
	latencyBySize map[int]*latencyStats

	randomBytes     uint64
	blocksGenerated uint64
}

// latencyStats tracks latency statistics for a key size
type latencyStats struct {
	count      uint64
	totalNanos uint64
	minNanos   uint64
	maxNanos   uint64
}

// NewInMemoryMetrics creates a new in-memory metrics collector.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		keysBySize:      make(map[int]uint64),
		failuresByStage: make(map[KeyGenStage]uint64),
		latencyBySize:   make(map[int]*latencyStats),
	}
}

// IncrementKeysGenerated increments the generated key counter for the size.
func (m *InMemoryMetrics) IncrementKeysGenerated(keySizeBits int) {
	m.keysMu.Lock()
	m.keysBySize[keySizeBits]++
	m.keysMu.Unlock()
}

// IncrementFailure increments the failure counter for the stage.
func (m *InMemoryMetrics) IncrementFailure(stage KeyGenStage) {
	m.failuresMu.Lock()
	m.failuresByStage[stage]++
	m.failuresMu.Unlock()
}

// AddRandomBytes adds to the random byte counter.
func (m *InMemoryMetrics) AddRandomBytes(bytes uint64) {
	atomic.AddUint64(&m.randomBytes, bytes)
}

// AddBlocksGenerated adds to the keystream block counter.
func (m *InMemoryMetrics) AddBlocksGenerated(blocks uint64) {
	atomic.AddUint64(&m.blocksGenerated, blocks)
}

// RecordKeyGenLatency records the latency for a key size.
func (m *InMemoryMetrics) RecordKeyGenLatency(keySizeBits int, duration time.Duration) {
	nanos := uint64(duration.Nanoseconds())

	m.latencyMu.Lock()
	defer m.latencyMu.Unlock()

	stats := m.latencyBySize[keySizeBits]
	if stats == nil {
		stats = &latencyStats{
			minNanos: nanos,
			maxNanos: nanos,
		}
		m.latencyBySize[keySizeBits] = stats
	}

	stats.count++
	stats.totalNanos += nanos

	if nanos < stats.minNanos {
		stats.minNanos = nanos
	}
	if nanos > stats.maxNanos {
		stats.maxNanos = nanos
	}
}

// Getter methods for programmatic access to metrics

// KeysGenerated returns the number of keys generated for a size.
func (m *InMemoryMetrics) KeysGenerated(keySizeBits int) uint64 {
	m.keysMu.RLock()
	defer m.keysMu.RUnlock()
	return m.keysBySize[keySizeBits]
}

// Failures returns the number of failures at a stage.
func (m *InMemoryMetrics) Failures(stage KeyGenStage) uint64 {
	m.failuresMu.RLock()
	defer m.failuresMu.RUnlock()
	return m.failuresByStage[stage]
}

// AllFailures returns a copy of all failure counts by stage.
func (m *InMemoryMetrics) AllFailures() map[KeyGenStage]uint64 {
	m.failuresMu.RLock()
	defer m.failuresMu.RUnlock()

	result := make(map[KeyGenStage]uint64, len(m.failuresByStage))
	for k, v := range m.failuresByStage {
		result[k] = v
	}
	return result
}

// RandomBytes returns the number of bytes drawn from generators.
func (m *InMemoryMetrics) RandomBytes() uint64 {
	return atomic.LoadUint64(&m.randomBytes)
}

// BlocksGenerated returns the number of keystream blocks produced.
func (m *InMemoryMetrics) BlocksGenerated() uint64 {
	return atomic.LoadUint64(&m.blocksGenerated)
}

// AvgLatency returns the average latency for a key size.
// Returns 0 if no measurements have been recorded.
func (m *InMemoryMetrics) AvgLatency(keySizeBits int) time.Duration {
	m.latencyMu.RLock()
	defer m.latencyMu.RUnlock()

	stats := m.latencyBySize[keySizeBits]
	if stats == nil || stats.count == 0 {
		return 0
	}

	return time.Duration(stats.totalNanos / stats.count)
}

// MinLatency returns the minimum latency for a key size.
func (m *InMemoryMetrics) MinLatency(keySizeBits int) time.Duration {
	m.latencyMu.RLock()
	defer m.latencyMu.RUnlock()

	stats := m.latencyBySize[keySizeBits]
	if stats == nil {
		return 0
	}

	return time.Duration(stats.minNanos)
}

// MaxLatency returns the maximum latency for a key size.
func (m *InMemoryMetrics) MaxLatency(keySizeBits int) time.Duration {
	m.latencyMu.RLock()
	defer m.latencyMu.RUnlock()

	stats := m.latencyBySize[keySizeBits]
	if stats == nil {
		return 0
	}

	return time.Duration(stats.maxNanos)
}

// Reset clears all metrics. Useful for testing.
func (m *InMemoryMetrics) Reset() {
	m.keysMu.Lock()
	m.keysBySize = make(map[int]uint64)
	m.keysMu.Unlock()

	m.failuresMu.Lock()
	m.failuresByStage = make(map[KeyGenStage]uint64)
	m.failuresMu.Unlock()

	m.latencyMu.Lock()
	m.latencyBySize = make(map[int]*latencyStats)
	m.latencyMu.Unlock()

	atomic.StoreUint64(&m.randomBytes, 0)
	atomic.StoreUint64(&m.blocksGenerated, 0)
}
