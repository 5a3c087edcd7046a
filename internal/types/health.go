package types

import "time"

// HealthStatus represents the overall health state.
type HealthStatus int

const (
	HealthStatusHealthy HealthStatus = iota + 1
	// HealthStatusDegraded means Redis answers but recent commands failed.
	HealthStatusDegraded
	HealthStatusUnhealthy
)

func (s HealthStatus) String() string {
	switch s {
	case HealthStatusHealthy:
		return "healthy"
	case HealthStatusDegraded:
		return "degraded"
	case HealthStatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// PoolMetrics mirrors go-redis pool statistics.
type PoolMetrics struct {
	Hits       uint32
	Misses     uint32
	Timeouts   uint32
	TotalConns uint32
	IdleConns  uint32
	StaleConns uint32
}

// HealthMetrics is the facade's view of its Redis connection.
//
//nolint:govet // Metrics struct - logical grouping prioritized for readability
type HealthMetrics struct {
	Timestamp     time.Time
	LastErrorTime time.Time
	LastError     string
	PingLatency   time.Duration
	Pool          PoolMetrics
	Operations    MetricsSnapshot
	Status        HealthStatus
	Connected     bool
}

// MetricsSnapshot contains a point-in-time view of facade metrics.
//
//nolint:govet // Metrics struct with many counters - grouping by category improves readability
type MetricsSnapshot struct {
	Timestamp time.Time

	Hits   int64
	Misses int64

	ReadCount  int64
	WriteCount int64
	ErrorCount int64

	// Latency metrics (milliseconds)
	AvgLatencyMs float64
	P50LatencyMs float64
	P95LatencyMs float64
	P99LatencyMs float64

	BytesWritten int64
}

// HitRatio is hits over all reads that resolved to a value or a miss.
func (s *MetricsSnapshot) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// PublisherHealthMetrics is the batch a Publisher receives on each interval.
type PublisherHealthMetrics struct {
	TotalConns       int64
	IdleConns        int64
	StaleConns       int64
	PoolTimeouts     int64
	Operations       int64
	Errors           int64
	HitRatio         float64
	AverageLatencyMs float64
	IsConnected      bool
}
