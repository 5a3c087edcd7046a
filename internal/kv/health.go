package kv

import (
	"context"
	"time"

	"github.com/LavishGent/kvfacade/internal/metrics"
	"github.com/LavishGent/kvfacade/internal/types"
)

// degradedWindow is how recent a failed command must be to mark a reachable
// store as degraded.
const degradedWindow = time.Minute

// Ping checks that Redis answers.
func (f *Facade) Ping(ctx context.Context) error {
	if err := f.check(); err != nil {
		return err
	}
	if err := f.client.Ping(ctx).Err(); err != nil {
		return f.storeErr("ping", "", err)
	}
	return nil
}

// Health returns connectivity, pool statistics and operation counters.
// An unreachable store is reported through Status, not the error.
func (f *Facade) Health(ctx context.Context) (*types.HealthMetrics, error) {
	if f.closed.Load() {
		return nil, types.ErrClosed
	}

	h := &types.HealthMetrics{
		Timestamp:  time.Now(),
		Operations: f.tracker.Snapshot(),
		Status:     types.HealthStatusHealthy,
	}

	start := time.Now()
	err := f.client.Ping(ctx).Err()
	h.PingLatency = time.Since(start)
	h.Connected = err == nil

	if stats := f.client.PoolStats(); stats != nil {
		h.Pool = types.PoolMetrics{
			Hits:       stats.Hits,
			Misses:     stats.Misses,
			Timeouts:   stats.Timeouts,
			TotalConns: stats.TotalConns,
			IdleConns:  stats.IdleConns,
			StaleConns: stats.StaleConns,
		}
	}

	h.LastError, h.LastErrorTime = f.tracker.LastError()

	switch {
	case err != nil:
		h.Status = types.HealthStatusUnhealthy
		h.LastError = err.Error()
		h.LastErrorTime = time.Now()
		f.logger.Warn("Redis health check failed", "error", err)
	case h.LastError != "" && time.Since(h.LastErrorTime) < degradedWindow:
		h.Status = types.HealthStatusDegraded
	}

	return h, nil
}

// IsHealthy reports whether Health would return HealthStatusHealthy.
func (f *Facade) IsHealthy(ctx context.Context) bool {
	h, err := f.Health(ctx)
	return err == nil && h.Status == types.HealthStatusHealthy
}

// publisherHealth feeds the background publisher.
func (f *Facade) publisherHealth() *types.PublisherHealthMetrics {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultHealthTimeout)
	defer cancel()

	h, err := f.Health(ctx)
	if err != nil {
		return nil
	}
	return metrics.FromHealth(h)
}
