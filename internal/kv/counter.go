package kv

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LavishGent/kvfacade/internal/types"
)

const (
	opIncrement           = "increment"
	opIncrementWithExpiry = "increment_with_expiry"
	opExpireThenIncrement = "expire_then_increment"
)

// Increment adds one to the counter at key. A missing key starts at zero.
func (f *Facade) Increment(ctx context.Context, key string) (int64, error) {
	return f.IncrementBy(ctx, key, 1)
}

// IncrementBy adds by to the counter at key and returns the new value.
func (f *Facade) IncrementBy(ctx context.Context, key string, by int64) (int64, error) {
	if err := f.check(key); err != nil {
		return 0, err
	}
	start := time.Now()

	n, err := f.client.IncrBy(ctx, f.key(key), by).Result()
	if err != nil {
		return 0, f.storeErr(opIncrement, key, err)
	}

	f.wrote(opIncrement, key, 0, start)
	return n, nil
}

// IncrementWithExpiry increments key by one and then sets its TTL. The new
// value is returned only when the TTL was applied. If EXPIRE fails after
// INCR landed, the error matches types.ErrPartialComposite.
func (f *Facade) IncrementWithExpiry(ctx context.Context, key string, ttl time.Duration) (types.Optional[int64], error) {
	if err := f.check(key); err != nil {
		return types.None[int64](), err
	}
	start := time.Now()
	k := f.key(key)
	expiry := types.ExpireAfter(ttl)

	c1, c2 := f.composite(ctx,
		func(c redis.Cmdable) redis.Cmder { return c.Incr(ctx, k) },
		func(c redis.Cmdable) redis.Cmder { return c.Expire(ctx, k, ttlArg(expiry)) },
	)

	n, err := c1.(*redis.IntCmd).Result()
	if err != nil {
		return types.None[int64](), f.firstErr(opIncrementWithExpiry, key, err, c2)
	}

	applied, err := c2.(*redis.BoolCmd).Result()
	if err != nil {
		return types.None[int64](), f.partial(opIncrementWithExpiry, key, "INCR", err)
	}

	f.wrote(opIncrementWithExpiry, key, 0, start)
	if !applied {
		return types.None[int64](), nil
	}
	return types.Some(n), nil
}

// ExpireThenIncrement refreshes the TTL of key and then increments it,
// regardless of whether the key existed for the TTL. A counter created by the
// increment therefore has no TTL.
func (f *Facade) ExpireThenIncrement(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if err := f.check(key); err != nil {
		return 0, err
	}
	start := time.Now()
	k := f.key(key)
	expiry := types.ExpireAfter(ttl)

	c1, c2 := f.composite(ctx,
		func(c redis.Cmdable) redis.Cmder { return c.Expire(ctx, k, ttlArg(expiry)) },
		func(c redis.Cmdable) redis.Cmder { return c.Incr(ctx, k) },
	)

	if err := c1.Err(); err != nil {
		return 0, f.firstErr(opExpireThenIncrement, key, err, c2)
	}

	n, err := c2.(*redis.IntCmd).Result()
	if err != nil {
		return 0, f.partial(opExpireThenIncrement, key, "EXPIRE", err)
	}

	f.wrote(opExpireThenIncrement, key, 0, start)
	return n, nil
}
