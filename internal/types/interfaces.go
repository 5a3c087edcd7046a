package types

import (
	"context"
	"time"
)

// Codec turns structured values into stored text and back.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, dest any) error
	Name() string
}

// MetricsRecorder receives one event per facade operation.
type MetricsRecorder interface {
	RecordHit(op string, key string, latency time.Duration)
	RecordMiss(op string, key string, latency time.Duration)
	RecordWrite(op string, key string, size int, latency time.Duration)
	RecordError(op string, err error)
}

// Publisher ships metrics to an external sink.
type Publisher interface {
	Gauge(name string, value float64, tags ...string)
	Incr(name string, tags ...string)
	Count(name string, value int64, tags ...string)
	Histogram(name string, value float64, tags ...string)
	Timing(name string, duration time.Duration, tags ...string)
	Event(title, text string, alertType string, tags ...string)
	PublishHealthMetrics(metrics *PublisherHealthMetrics)
	Close() error
}

// Logger lets callers plug in a non-slog logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// HealthChecker is implemented by the facade.
type HealthChecker interface {
	Ping(ctx context.Context) error
	Health(ctx context.Context) (*HealthMetrics, error)
}
