package metrics

import (
	"log/slog"
	"time"

	"github.com/LavishGent/kvfacade/internal/types"
)

// LoggingPublisher writes metrics to slog: per-operation metrics at Debug,
// health batches and events at Info. Useful when no agent is running.
type LoggingPublisher struct {
	logger   *slog.Logger
	baseTags []string
}

func NewLoggingPublisher(logger *slog.Logger, baseTags ...string) *LoggingPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingPublisher{
		logger:   logger.With("component", "metrics"),
		baseTags: baseTags,
	}
}

func (p *LoggingPublisher) metric(kind, name string, tags []string, attrs ...any) {
	args := make([]any, 0, len(attrs)+4)
	args = append(args, "name", name)
	args = append(args, attrs...)
	args = append(args, "tags", MergeTags(p.baseTags, tags))
	p.logger.Debug(kind, args...)
}

func (p *LoggingPublisher) Gauge(name string, value float64, tags ...string) {
	p.metric("gauge", name, tags, "value", value)
}

func (p *LoggingPublisher) Incr(name string, tags ...string) {
	p.metric("incr", name, tags)
}

func (p *LoggingPublisher) Count(name string, value int64, tags ...string) {
	p.metric("count", name, tags, "value", value)
}

func (p *LoggingPublisher) Histogram(name string, value float64, tags ...string) {
	p.metric("histogram", name, tags, "value", value)
}

func (p *LoggingPublisher) Timing(name string, duration time.Duration, tags ...string) {
	p.metric("timing", name, tags, "duration_ms", float64(duration.Microseconds())/1000)
}

func (p *LoggingPublisher) Event(title, text, alertType string, tags ...string) {
	p.logger.Info("event",
		"title", title,
		"text", text,
		"alert_type", alertType,
		"tags", MergeTags(p.baseTags, tags),
	)
}

// PublishHealthMetrics logs one line per batch, grouped into pool and ops.
func (p *LoggingPublisher) PublishHealthMetrics(m *types.PublisherHealthMetrics) {
	if m == nil {
		return
	}

	p.logger.Info("health_metrics",
		"connected", m.IsConnected,
		slog.Group("pool",
			"total", m.TotalConns,
			"idle", m.IdleConns,
			"stale", m.StaleConns,
			"timeouts", m.PoolTimeouts,
		),
		slog.Group("ops",
			"total", m.Operations,
			"errors", m.Errors,
			"hit_ratio", m.HitRatio,
			"avg_latency_ms", m.AverageLatencyMs,
		),
	)
}

func (p *LoggingPublisher) Close() error {
	return nil
}

var _ types.Publisher = (*LoggingPublisher)(nil)
