package metrics

import (
	"time"

	"github.com/LavishGent/kvfacade/internal/types"
)

// NoOpRecorder discards every event.
type NoOpRecorder struct{}

func NewNoOpRecorder() *NoOpRecorder {
	return &NoOpRecorder{}
}

func (r *NoOpRecorder) RecordHit(op string, key string, latency time.Duration)             {}
func (r *NoOpRecorder) RecordMiss(op string, key string, latency time.Duration)            {}
func (r *NoOpRecorder) RecordWrite(op string, key string, size int, latency time.Duration) {}
func (r *NoOpRecorder) RecordError(op string, err error)                                   {}

// NoOpPublisher is a no-operation metrics publisher for testing or when disabled.
type NoOpPublisher struct{}

// NewNoOpPublisher creates a new no-op publisher.
func NewNoOpPublisher() *NoOpPublisher {
	return &NoOpPublisher{}
}

func (p *NoOpPublisher) Gauge(name string, value float64, tags ...string)            {}
func (p *NoOpPublisher) Incr(name string, tags ...string)                            {}
func (p *NoOpPublisher) Count(name string, value int64, tags ...string)              {}
func (p *NoOpPublisher) Histogram(name string, value float64, tags ...string)        {}
func (p *NoOpPublisher) Timing(name string, duration time.Duration, tags ...string)  {}
func (p *NoOpPublisher) Event(title, text, alertType string, tags ...string)         {}
func (p *NoOpPublisher) PublishHealthMetrics(metrics *types.PublisherHealthMetrics) {}
func (p *NoOpPublisher) Close() error                                                { return nil }

var _ types.MetricsRecorder = (*NoOpRecorder)(nil)
var _ types.Publisher = (*NoOpPublisher)(nil)
