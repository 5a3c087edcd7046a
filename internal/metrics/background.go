package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/LavishGent/kvfacade/internal/types"
)

// BackgroundPublisher pushes health metrics to a Publisher on an interval
// until its context is cancelled or Stop is called.
type BackgroundPublisher struct {
	publisher types.Publisher
	logger    *slog.Logger
	getHealth func() *types.PublisherHealthMetrics
	cancel    context.CancelFunc
	ctx       context.Context
	wg        sync.WaitGroup
	stopOnce  sync.Once
	interval  time.Duration
}

// NewBackgroundPublisher creates a new background publisher.
// The healthFn is called on each interval to get the current health metrics.
func NewBackgroundPublisher(
	publisher types.Publisher,
	interval time.Duration,
	healthFn func() *types.PublisherHealthMetrics,
	logger *slog.Logger,
) *BackgroundPublisher {
	if logger == nil {
		logger = slog.Default()
	}

	return &BackgroundPublisher{
		publisher: publisher,
		interval:  interval,
		logger:    logger.With("component", "metrics-background"),
		getHealth: healthFn,
	}
}

// Start begins the background publishing loop.
func (b *BackgroundPublisher) Start(ctx context.Context) {
	b.ctx, b.cancel = context.WithCancel(ctx)
	b.wg.Add(1)
	go b.run()
	b.logger.Info("Background metrics publisher started", "interval", b.interval)
}

// Stop cancels the loop, waits for the final publish and is safe to call twice.
func (b *BackgroundPublisher) Stop() {
	b.stopOnce.Do(func() {
		if b.cancel != nil {
			b.cancel()
		}
		b.wg.Wait()
		b.logger.Info("Background metrics publisher stopped")
	})
}

func (b *BackgroundPublisher) run() {
	defer b.wg.Done()

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.ctx.Done():
			b.publish()
			return
		case <-ticker.C:
			b.publish()
		}
	}
}

func (b *BackgroundPublisher) publish() {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in metrics publisher", "panic", r)
		}
	}()

	if b.getHealth == nil {
		return
	}

	start := time.Now()
	metrics := b.getHealth()
	b.publisher.Timing(MetricHealthCollect, time.Since(start))

	if metrics != nil {
		b.publisher.PublishHealthMetrics(metrics)
	}
}

// PublishNow triggers an immediate metrics publish.
func (b *BackgroundPublisher) PublishNow() {
	b.publish()
}

// FromHealth flattens a facade health report into the publisher batch.
func FromHealth(h *types.HealthMetrics) *types.PublisherHealthMetrics {
	if h == nil {
		return nil
	}
	ops := h.Operations
	return &types.PublisherHealthMetrics{
		TotalConns:       int64(h.Pool.TotalConns),
		IdleConns:        int64(h.Pool.IdleConns),
		StaleConns:       int64(h.Pool.StaleConns),
		PoolTimeouts:     int64(h.Pool.Timeouts),
		Operations:       ops.ReadCount + ops.WriteCount,
		Errors:           ops.ErrorCount,
		HitRatio:         ops.HitRatio(),
		AverageLatencyMs: ops.AvgLatencyMs,
		IsConnected:      h.Connected,
	}
}
