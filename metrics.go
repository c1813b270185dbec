package authgate

import "sync/atomic"

// MetricID identifies one of the in-process counters maintained by the
// service.
type MetricID uint8

const (
	// MetricLoginSuccess counts logins that issued a token pair.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts logins rejected by the credential verifier.
	MetricLoginFailure
	// MetricReissueSuccess counts completed refresh-token rotations.
	MetricReissueSuccess
	// MetricReissueFailure counts reissue attempts rejected before rotation.
	MetricReissueFailure
	// MetricRefreshReuseDetected counts presentations of a refresh token that
	// is valid but no longer tracked, the replay/theft signal.
	MetricRefreshReuseDetected
	// MetricLogout counts logout calls that reached the store.
	MetricLogout
	// MetricInterceptorReject counts requests the interceptor turned away
	// with an unauthenticated response.
	MetricInterceptorReject
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a fixed set of padded atomic counters. Incrementing is wait-free
// and safe from any number of goroutines; a nil *Metrics is a no-op sink.
type Metrics struct {
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Inc adds one to the counter. Unknown IDs are ignored.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value reads a single counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies all counters at once. The snapshot is not atomic across
// counters; individual reads are.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricIDCount)}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return snap
}
