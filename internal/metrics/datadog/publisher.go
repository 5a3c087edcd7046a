// Package datadog provides a DataDog StatsD metrics publisher.
package datadog

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"

	"github.com/LavishGent/kvfacade/internal/config"
	"github.com/LavishGent/kvfacade/internal/metrics"
	"github.com/LavishGent/kvfacade/internal/types"
)

const sampleRate = 1

// Publisher sends facade metrics to a DogStatsD agent.
//
//nolint:govet // Small struct - minimal alignment benefit
type Publisher struct {
	baseTags []string
	client   statsd.ClientInterface
	logger   *slog.Logger
}

// NewPublisher creates a DataDog publisher from config, or a no-op
// publisher when DataDog is disabled.
func NewPublisher(cfg *config.DataDogConfig, logger *slog.Logger) (types.Publisher, error) {
	if !cfg.Enabled {
		return metrics.NewNoOpPublisher(), nil
	}

	if logger == nil {
		logger = slog.Default()
	}

	addr := fmt.Sprintf("%s:%d", cfg.AgentHost, cfg.Port)

	// global tags are merged per call so they are not sent twice
	client, err := statsd.New(addr,
		statsd.WithNamespace(cfg.Prefix+"."),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create statsd client: %w", err)
	}

	logger.Info("DataDog publisher initialized",
		"address", addr,
		"prefix", cfg.Prefix,
		"tags", cfg.Tags,
	)

	return newPublisher(client, cfg.Tags, logger), nil
}

func newPublisher(client statsd.ClientInterface, tags []string, logger *slog.Logger) *Publisher {
	return &Publisher{
		client:   client,
		baseTags: tags,
		logger:   logger.With("component", "datadog"),
	}
}

// report logs a failed send. DogStatsD over UDP rarely fails, so Debug is enough.
func (p *Publisher) report(kind, name string, err error) {
	if err != nil {
		p.logger.Debug("Failed to send metric", "kind", kind, "name", name, "error", err)
	}
}

func (p *Publisher) tags(tags []string) []string {
	return metrics.MergeTags(p.baseTags, tags)
}

func (p *Publisher) Gauge(name string, value float64, tags ...string) {
	p.report("gauge", name, p.client.Gauge(name, value, p.tags(tags), sampleRate))
}

func (p *Publisher) Incr(name string, tags ...string) {
	p.report("incr", name, p.client.Incr(name, p.tags(tags), sampleRate))
}

func (p *Publisher) Count(name string, value int64, tags ...string) {
	p.report("count", name, p.client.Count(name, value, p.tags(tags), sampleRate))
}

func (p *Publisher) Histogram(name string, value float64, tags ...string) {
	p.report("histogram", name, p.client.Histogram(name, value, p.tags(tags), sampleRate))
}

func (p *Publisher) Timing(name string, duration time.Duration, tags ...string) {
	p.report("timing", name, p.client.Timing(name, duration, p.tags(tags), sampleRate))
}

// Event sends a DataDog event. alertType is one of info, warning, error or success.
func (p *Publisher) Event(title, text, alertType string, tags ...string) {
	p.report("event", title, p.client.Event(&statsd.Event{
		Title:     title,
		Text:      text,
		AlertType: statsd.EventAlertType(alertType),
		Tags:      p.tags(tags),
	}))
}

type gauge struct {
	name  string
	value float64
}

// healthGauges flattens a batch into the gauges sent on each interval.
func healthGauges(m *types.PublisherHealthMetrics) []gauge {
	connected := 0.0
	if m.IsConnected {
		connected = 1
	}
	return []gauge{
		{"pool.total_conns", float64(m.TotalConns)},
		{"pool.idle_conns", float64(m.IdleConns)},
		{"pool.stale_conns", float64(m.StaleConns)},
		{"pool.timeouts", float64(m.PoolTimeouts)},
		{"operations.total", float64(m.Operations)},
		{"operations.errors", float64(m.Errors)},
		{"performance.hit_ratio", clamp(m.HitRatio, 0, 1)},
		{"performance.average_latency_ms", max(0, m.AverageLatencyMs)},
		{"connection.status", connected},
	}
}

func (p *Publisher) PublishHealthMetrics(m *types.PublisherHealthMetrics) {
	if m == nil {
		return
	}
	for _, g := range healthGauges(m) {
		p.Gauge(g.name, g.value)
	}
}

func (p *Publisher) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

func clamp(val, minVal, maxVal float64) float64 {
	return min(max(val, minVal), maxVal)
}

var _ types.Publisher = (*Publisher)(nil)
