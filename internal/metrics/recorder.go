package metrics

import (
	"time"

	"github.com/LavishGent/kvfacade/internal/types"
)

// Metric names emitted by PublisherRecorder.
const (
	MetricOperations   = "operations"
	MetricLatency      = "operation.latency"
	MetricBytesWritten = "bytes_written"
	MetricErrors       = "errors"

	// MetricHealthCollect times each health gathering by BackgroundPublisher.
	MetricHealthCollect = "health.collect"
)

// PublisherRecorder turns per-operation events into publisher calls.
// Keys are never used as tags.
type PublisherRecorder struct {
	publisher types.Publisher
}

func NewPublisherRecorder(publisher types.Publisher) *PublisherRecorder {
	if publisher == nil {
		publisher = NewNoOpPublisher()
	}
	return &PublisherRecorder{publisher: publisher}
}

func (r *PublisherRecorder) RecordHit(op string, key string, latency time.Duration) {
	r.publisher.Incr(MetricOperations, OperationTag(op), StatusTag("hit"))
	r.publisher.Timing(MetricLatency, latency, OperationTag(op))
}

func (r *PublisherRecorder) RecordMiss(op string, key string, latency time.Duration) {
	r.publisher.Incr(MetricOperations, OperationTag(op), StatusTag("miss"))
	r.publisher.Timing(MetricLatency, latency, OperationTag(op))
}

func (r *PublisherRecorder) RecordWrite(op string, key string, size int, latency time.Duration) {
	r.publisher.Incr(MetricOperations, OperationTag(op), StatusTag("write"))
	r.publisher.Timing(MetricLatency, latency, OperationTag(op))
	if size > 0 {
		r.publisher.Count(MetricBytesWritten, int64(size), OperationTag(op))
	}
}

func (r *PublisherRecorder) RecordError(op string, err error) {
	r.publisher.Incr(MetricErrors, OperationTag(op), ErrorKindTag(err))
}

// Fanout sends every event to each recorder in order.
type Fanout []types.MetricsRecorder

// NewFanout drops nil recorders.
func NewFanout(recorders ...types.MetricsRecorder) Fanout {
	out := make(Fanout, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (f Fanout) RecordHit(op string, key string, latency time.Duration) {
	for _, r := range f {
		r.RecordHit(op, key, latency)
	}
}

func (f Fanout) RecordMiss(op string, key string, latency time.Duration) {
	for _, r := range f {
		r.RecordMiss(op, key, latency)
	}
}

func (f Fanout) RecordWrite(op string, key string, size int, latency time.Duration) {
	for _, r := range f {
		r.RecordWrite(op, key, size, latency)
	}
}

func (f Fanout) RecordError(op string, err error) {
	for _, r := range f {
		r.RecordError(op, err)
	}
}

var _ types.MetricsRecorder = (*PublisherRecorder)(nil)
var _ types.MetricsRecorder = Fanout(nil)
