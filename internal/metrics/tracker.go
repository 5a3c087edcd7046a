// Package metrics collects facade operation metrics and publishes them.
package metrics

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/LavishGent/kvfacade/internal/types"
)

const (
	defaultLatencyBufferSize = 10000
)

// Tracker keeps in-process counters for every facade operation. The facade
// always owns one so Health can report operation totals.
type Tracker struct {
	hits   atomic.Int64
	misses atomic.Int64

	readCount  atomic.Int64
	writeCount atomic.Int64
	errorCount atomic.Int64

	latencyMu     sync.RWMutex
	latencyBuffer []time.Duration
	latencyIndex  int
	latencyCount  int

	totalBytesWritten atomic.Int64

	lastErrMu   sync.RWMutex
	lastErr     string
	lastErrTime time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		latencyBuffer: make([]time.Duration, defaultLatencyBufferSize),
	}
}

func (t *Tracker) RecordHit(op string, key string, latency time.Duration) {
	t.hits.Add(1)
	t.readCount.Add(1)
	t.recordLatency(latency)
}

func (t *Tracker) RecordMiss(op string, key string, latency time.Duration) {
	t.misses.Add(1)
	t.readCount.Add(1)
	t.recordLatency(latency)
}

func (t *Tracker) RecordWrite(op string, key string, size int, latency time.Duration) {
	t.writeCount.Add(1)
	t.totalBytesWritten.Add(int64(size))
	t.recordLatency(latency)
}

// RecordError counts a failed operation. Only failures that came back from
// Redis are remembered for health reports; bad input, codec errors and
// caller cancellation say nothing about the store.
func (t *Tracker) RecordError(op string, err error) {
	t.errorCount.Add(1)
	if !storeSide(err) {
		return
	}
	t.lastErrMu.Lock()
	t.lastErr = op + ": " + err.Error()
	t.lastErrTime = time.Now()
	t.lastErrMu.Unlock()
}

// LastError returns the most recent error message and when it was recorded.
func (t *Tracker) LastError() (string, time.Time) {
	t.lastErrMu.RLock()
	defer t.lastErrMu.RUnlock()
	return t.lastErr, t.lastErrTime
}

// recordLatency adds a latency measurement using a circular buffer.
func (t *Tracker) recordLatency(latency time.Duration) {
	t.latencyMu.Lock()
	t.latencyBuffer[t.latencyIndex] = latency
	t.latencyIndex = (t.latencyIndex + 1) % len(t.latencyBuffer)
	if t.latencyCount < len(t.latencyBuffer) {
		t.latencyCount++
	}
	t.latencyMu.Unlock()
}

// Snapshot returns current metrics snapshot.
func (t *Tracker) Snapshot() types.MetricsSnapshot {
	t.latencyMu.RLock()
	count := t.latencyCount
	latencyCopy := make([]time.Duration, count)
	if count > 0 {
		if count < len(t.latencyBuffer) {
			copy(latencyCopy, t.latencyBuffer[:count])
		} else {
			// full buffer: oldest sample sits at latencyIndex
			firstPart := len(t.latencyBuffer) - t.latencyIndex
			copy(latencyCopy[:firstPart], t.latencyBuffer[t.latencyIndex:])
			copy(latencyCopy[firstPart:], t.latencyBuffer[:t.latencyIndex])
		}
	}
	t.latencyMu.RUnlock()

	snapshot := types.MetricsSnapshot{
		Timestamp:    time.Now(),
		Hits:         t.hits.Load(),
		Misses:       t.misses.Load(),
		ReadCount:    t.readCount.Load(),
		WriteCount:   t.writeCount.Load(),
		ErrorCount:   t.errorCount.Load(),
		BytesWritten: t.totalBytesWritten.Load(),
	}

	if len(latencyCopy) > 0 {
		slices.Sort(latencyCopy)
		snapshot.AvgLatencyMs = toMillis(avgDuration(latencyCopy))
		snapshot.P50LatencyMs = toMillis(percentile(latencyCopy, 50))
		snapshot.P95LatencyMs = toMillis(percentile(latencyCopy, 95))
		snapshot.P99LatencyMs = toMillis(percentile(latencyCopy, 99))
	}

	return snapshot
}

// Reset clears all metrics.
func (t *Tracker) Reset() {
	t.hits.Store(0)
	t.misses.Store(0)
	t.readCount.Store(0)
	t.writeCount.Store(0)
	t.errorCount.Store(0)
	t.totalBytesWritten.Store(0)

	t.latencyMu.Lock()
	t.latencyIndex = 0
	t.latencyCount = 0
	t.latencyMu.Unlock()

	t.lastErrMu.Lock()
	t.lastErr = ""
	t.lastErrTime = time.Time{}
	t.lastErrMu.Unlock()
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func avgDuration(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range durations {
		total += d
	}
	return total / time.Duration(len(durations))
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := (len(sorted) - 1) * p / 100
	return sorted[idx]
}

var _ types.MetricsRecorder = (*Tracker)(nil)
