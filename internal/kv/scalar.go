package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LavishGent/kvfacade/internal/types"
)

const (
	opSet         = "set"
	opSetIfAbsent = "set_if_absent"
	opGet         = "get"
	opGetAndSet   = "get_and_set"
)

// Set encodes value and writes it. A positive expiry rides on the SET itself;
// an immediate expiry issues EXPIRE 0 afterwards; NoExpiry issues SET only,
// which clears any TTL the key had.
func (f *Facade) Set(ctx context.Context, key string, value any, opts ...types.Option) error {
	if err := f.check(key); err != nil {
		return err
	}
	start := time.Now()

	s, err := f.encode(opSet, key, value)
	if err != nil {
		return err
	}

	expiry := types.ApplyOptions(opts...).Expiry
	k := f.key(key)

	if expiry.Immediate() {
		c1, c2 := f.composite(ctx,
			func(c redis.Cmdable) redis.Cmder { return c.Set(ctx, k, s, 0) },
			func(c redis.Cmdable) redis.Cmder { return c.Expire(ctx, k, 0) },
		)
		if err := c1.Err(); err != nil {
			return f.firstErr(opSet, key, err, c2)
		}
		if err := c2.Err(); err != nil {
			return f.partial(opSet, key, "SET", err)
		}
		f.wrote(opSet, key, len(s), start)
		return nil
	}

	if err := f.client.Set(ctx, k, s, expiry.Duration()).Err(); err != nil {
		return f.storeErr(opSet, key, err)
	}

	f.wrote(opSet, key, len(s), start)
	return nil
}

// SetIfAbsent writes only when key is unset and reports whether it did.
func (f *Facade) SetIfAbsent(ctx context.Context, key string, value any, opts ...types.Option) (bool, error) {
	if err := f.check(key); err != nil {
		return false, err
	}
	start := time.Now()

	s, err := f.encode(opSetIfAbsent, key, value)
	if err != nil {
		return false, err
	}

	expiry := types.ApplyOptions(opts...).Expiry
	k := f.key(key)

	ttl := expiry.Duration()
	if expiry.Immediate() {
		ttl = 0
	}

	written, err := f.client.SetNX(ctx, k, s, ttl).Result()
	if err != nil {
		return false, f.storeErr(opSetIfAbsent, key, err)
	}

	// EXPIRE 0 must only touch a key this call wrote, so it never joins a transaction.
	if written && expiry.Immediate() {
		if err := f.client.Expire(ctx, k, 0).Err(); err != nil {
			return true, f.partial(opSetIfAbsent, key, "SETNX", err)
		}
	}

	if written {
		f.wrote(opSetIfAbsent, key, len(s), start)
	} else {
		f.read(opSetIfAbsent, key, start, true)
	}
	return written, nil
}

// Get returns the stored text. With an expiry option the TTL of an existing
// key is refreshed as a side effect.
func (f *Facade) Get(ctx context.Context, key string, opts ...types.Option) (types.Optional[string], error) {
	if err := f.check(key); err != nil {
		return types.None[string](), err
	}
	start := time.Now()

	expiry := types.ApplyOptions(opts...).Expiry
	k := f.key(key)

	if !expiry.IsSet() {
		val, err := f.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			f.read(opGet, key, start, false)
			return types.None[string](), nil
		}
		if err != nil {
			return types.None[string](), f.storeErr(opGet, key, err)
		}
		f.read(opGet, key, start, true)
		return types.Some(val), nil
	}

	c1, c2 := f.composite(ctx,
		func(c redis.Cmdable) redis.Cmder { return c.Get(ctx, k) },
		func(c redis.Cmdable) redis.Cmder { return c.Expire(ctx, k, ttlArg(expiry)) },
	)

	val, err := c1.(*redis.StringCmd).Result()
	if errors.Is(err, redis.Nil) {
		f.read(opGet, key, start, false)
		return types.None[string](), nil
	}
	if err != nil {
		return types.None[string](), f.firstErr(opGet, key, err, c2)
	}
	if c2 != nil && c2.Err() != nil {
		return types.Some(val), f.partial(opGet, key, "GET", c2.Err())
	}

	f.read(opGet, key, start, true)
	return types.Some(val), nil
}

// GetInto decodes the stored text into dest. It returns false when the key is absent.
func (f *Facade) GetInto(ctx context.Context, key string, dest any, opts ...types.Option) (bool, error) {
	v, err := f.Get(ctx, key, opts...)
	s, ok := v.Get()
	if !ok {
		return false, err
	}
	if derr := f.decode(opGet, key, s, dest); derr != nil {
		return false, derr
	}
	return true, err
}

// GetAndSet swaps in value and returns the prior stored text, if any.
func (f *Facade) GetAndSet(ctx context.Context, key string, value any, opts ...types.Option) (types.Optional[string], error) {
	if err := f.check(key); err != nil {
		return types.None[string](), err
	}
	start := time.Now()

	s, err := f.encode(opGetAndSet, key, value)
	if err != nil {
		return types.None[string](), err
	}

	expiry := types.ApplyOptions(opts...).Expiry
	k := f.key(key)

	getSet := func(c redis.Cmdable) redis.Cmder { return c.GetSet(ctx, k, s) }

	var c1, c2 redis.Cmder
	if expiry.IsSet() {
		c1, c2 = f.composite(ctx, getSet,
			func(c redis.Cmdable) redis.Cmder { return c.Expire(ctx, k, ttlArg(expiry)) },
		)
		// a nil prior value still means the write landed
		if c2 == nil && errors.Is(c1.Err(), redis.Nil) {
			c2 = f.client.Expire(ctx, k, ttlArg(expiry))
		}
	} else {
		c1 = getSet(f.client)
	}

	prev := types.None[string]()
	old, err := c1.(*redis.StringCmd).Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return prev, f.firstErr(opGetAndSet, key, err, c2)
	default:
		prev = types.Some(old)
	}

	f.wrote(opGetAndSet, key, len(s), start)

	if c2 != nil && c2.Err() != nil {
		return prev, f.partial(opGetAndSet, key, "GETSET", c2.Err())
	}
	return prev, nil
}
