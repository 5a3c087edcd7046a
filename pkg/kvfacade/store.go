package kvfacade

import (
	"context"
	"time"
)

// Store is the operation surface of a Facade, for callers that want to
// accept an interface.
type Store interface {
	Set(ctx context.Context, key string, value any, opts ...Option) error
	SetIfAbsent(ctx context.Context, key string, value any, opts ...Option) (bool, error)
	Get(ctx context.Context, key string, opts ...Option) (Optional[string], error)
	GetInto(ctx context.Context, key string, dest any, opts ...Option) (bool, error)
	GetAndSet(ctx context.Context, key string, value any, opts ...Option) (Optional[string], error)

	Delete(ctx context.Context, keys ...string) (int64, error)
	KeysMatching(ctx context.Context, pattern string) ([]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	TimeToLive(ctx context.Context, key string) (int64, error)
	Persist(ctx context.Context, key string) (bool, error)

	Increment(ctx context.Context, key string) (int64, error)
	IncrementBy(ctx context.Context, key string, by int64) (int64, error)
	IncrementWithExpiry(ctx context.Context, key string, ttl time.Duration) (Optional[int64], error)
	ExpireThenIncrement(ctx context.Context, key string, ttl time.Duration) (int64, error)

	HashGet(ctx context.Context, key, field string) (Optional[string], error)
	HashGetInto(ctx context.Context, key, field string, dest any) (bool, error)
	HashSet(ctx context.Context, key, field string, value any) error
	HashGetAll(ctx context.Context, key string) (map[string]string, error)
	HashSetAll(ctx context.Context, key string, fields map[string]any) error
	HashIncrementField(ctx context.Context, key, field string) (int64, error)
	HashIncrementFieldBy(ctx context.Context, key, field string, by int64) (int64, error)
	HashFieldKeys(ctx context.Context, key string) ([]string, error)
	HashDelete(ctx context.Context, key string, fields ...string) (int64, error)

	ListAppend(ctx context.Context, key string, values ...any) (int64, error)
	ListRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ListTrim(ctx context.Context, key string, start, stop int64) error

	SetAdd(ctx context.Context, key string, values ...any) (int64, error)
	SetAddWithExpiry(ctx context.Context, key string, ttl time.Duration, values ...any) (Optional[int64], error)
	SetRemove(ctx context.Context, key string, values ...any) (int64, error)
	SetMembers(ctx context.Context, key string) ([]string, error)
	SetSize(ctx context.Context, key string) (int64, error)
	SetIsMember(ctx context.Context, key string, value any) (bool, error)

	SortedSetAdd(ctx context.Context, key string, member any, score float64) (bool, error)
	SortedSetCardinality(ctx context.Context, key string) (int64, error)
	SortedSetScore(ctx context.Context, key string, member any) (Optional[float64], error)

	Ping(ctx context.Context) error
	Health(ctx context.Context) (*HealthMetrics, error)
	IsHealthy(ctx context.Context) bool
	Snapshot() MetricsSnapshot
	Close() error
}
