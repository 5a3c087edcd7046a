package kv

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LavishGent/kvfacade/internal/types"
)

const (
	opSetAdd           = "set_add"
	opSetAddWithExpiry = "set_add_with_expiry"
	opSetRemove        = "set_remove"
	opSetMembers       = "set_members"
	opSetSize          = "set_size"
	opSetIsMember      = "set_is_member"
)

// SetAdd adds encoded values to the set at key and returns how many were new.
func (f *Facade) SetAdd(ctx context.Context, key string, values ...any) (int64, error) {
	if err := f.check(key); err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, nil
	}
	start := time.Now()

	encoded, err := f.encodeAll(opSetAdd, key, values)
	if err != nil {
		return 0, err
	}

	n, err := f.client.SAdd(ctx, f.key(key), encoded...).Result()
	if err != nil {
		return 0, f.storeErr(opSetAdd, key, err)
	}

	f.wrote(opSetAdd, key, encodedSize(encoded), start)
	return n, nil
}

// SetAddWithExpiry adds values and then sets the TTL of the set. The number
// added is returned only when the TTL was applied.
func (f *Facade) SetAddWithExpiry(ctx context.Context, key string, ttl time.Duration, values ...any) (types.Optional[int64], error) {
	if err := f.check(key); err != nil {
		return types.None[int64](), err
	}
	if len(values) == 0 {
		return types.None[int64](), nil
	}
	start := time.Now()

	encoded, err := f.encodeAll(opSetAddWithExpiry, key, values)
	if err != nil {
		return types.None[int64](), err
	}

	k := f.key(key)
	expiry := types.ExpireAfter(ttl)

	c1, c2 := f.composite(ctx,
		func(c redis.Cmdable) redis.Cmder { return c.SAdd(ctx, k, encoded...) },
		func(c redis.Cmdable) redis.Cmder { return c.Expire(ctx, k, ttlArg(expiry)) },
	)

	n, err := c1.(*redis.IntCmd).Result()
	if err != nil {
		return types.None[int64](), f.firstErr(opSetAddWithExpiry, key, err, c2)
	}

	applied, err := c2.(*redis.BoolCmd).Result()
	if err != nil {
		return types.None[int64](), f.partial(opSetAddWithExpiry, key, "SADD", err)
	}

	f.wrote(opSetAddWithExpiry, key, encodedSize(encoded), start)
	if !applied {
		return types.None[int64](), nil
	}
	return types.Some(n), nil
}

// SetRemove removes encoded values and returns how many were members.
func (f *Facade) SetRemove(ctx context.Context, key string, values ...any) (int64, error) {
	if err := f.check(key); err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, nil
	}
	start := time.Now()

	encoded, err := f.encodeAll(opSetRemove, key, values)
	if err != nil {
		return 0, err
	}

	n, err := f.client.SRem(ctx, f.key(key), encoded...).Result()
	if err != nil {
		return 0, f.storeErr(opSetRemove, key, err)
	}

	f.wrote(opSetRemove, key, 0, start)
	return n, nil
}

// SetMembers returns every member of the set at key, in no particular order.
func (f *Facade) SetMembers(ctx context.Context, key string) ([]string, error) {
	if err := f.check(key); err != nil {
		return nil, err
	}
	start := time.Now()

	members, err := f.client.SMembers(ctx, f.key(key)).Result()
	if err != nil {
		return nil, f.storeErr(opSetMembers, key, err)
	}

	f.read(opSetMembers, key, start, len(members) > 0)
	return members, nil
}

// SetSize returns the cardinality of the set at key.
func (f *Facade) SetSize(ctx context.Context, key string) (int64, error) {
	if err := f.check(key); err != nil {
		return 0, err
	}
	start := time.Now()

	n, err := f.client.SCard(ctx, f.key(key)).Result()
	if err != nil {
		return 0, f.storeErr(opSetSize, key, err)
	}

	f.read(opSetSize, key, start, n > 0)
	return n, nil
}

// SetIsMember reports whether the encoded value is in the set at key.
func (f *Facade) SetIsMember(ctx context.Context, key string, value any) (bool, error) {
	if err := f.check(key); err != nil {
		return false, err
	}
	start := time.Now()

	s, err := f.encode(opSetIsMember, key, value)
	if err != nil {
		return false, err
	}

	ok, err := f.client.SIsMember(ctx, f.key(key), s).Result()
	if err != nil {
		return false, f.storeErr(opSetIsMember, key, err)
	}

	f.read(opSetIsMember, key, start, ok)
	return ok, nil
}
