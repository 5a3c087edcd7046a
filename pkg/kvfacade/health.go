package kvfacade

import (
	"github.com/LavishGent/kvfacade/internal/types"
)

// Re-export health types from internal/types.
type (
	// HealthStatus represents the overall health state.
	HealthStatus = types.HealthStatus

	// HealthMetrics is the facade's view of its Redis connection.
	HealthMetrics = types.HealthMetrics

	// PoolMetrics mirrors go-redis pool statistics.
	PoolMetrics = types.PoolMetrics

	// MetricsSnapshot contains a point-in-time view of operation counters.
	MetricsSnapshot = types.MetricsSnapshot
)

// Re-export health status constants.
const (
	HealthStatusHealthy   = types.HealthStatusHealthy
	HealthStatusDegraded  = types.HealthStatusDegraded
	HealthStatusUnhealthy = types.HealthStatusUnhealthy
)
