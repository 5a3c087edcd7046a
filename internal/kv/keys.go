package kv

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/LavishGent/kvfacade/internal/types"
)

const (
	opDelete       = "delete"
	opKeysMatching = "keys_matching"
	opExists       = "exists"
	opExpire       = "expire"
	opTimeToLive   = "time_to_live"
	opPersist      = "persist"
)

// Delete removes keys and returns how many existed. No command is sent for an
// empty list.
func (f *Facade) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, f.check()
	}
	if err := f.check(keys...); err != nil {
		return 0, err
	}
	start := time.Now()

	n, err := f.client.Del(ctx, f.keys(keys)...).Result()
	if err != nil {
		return 0, f.storeErr(opDelete, strings.Join(keys, ","), err)
	}

	f.wrote(opDelete, keys[0], 0, start)
	return n, nil
}

// KeysMatching walks the keyspace with SCAN and returns every key matching
// the glob pattern, without the configured prefix. Concurrent callers asking
// for the same pattern share one walk. Keys written or removed during the
// walk may or may not appear.
//
// The shared walk is detached from any one caller's cancellation; each caller
// stops waiting when its own ctx is done.
func (f *Facade) KeysMatching(ctx context.Context, pattern string) ([]string, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	if err := f.validatePattern(pattern); err != nil {
		return nil, err
	}
	start := time.Now()

	walk := context.WithoutCancel(ctx)
	ch := f.scanGroup.DoChan(pattern, func() (any, error) {
		return f.scan(walk, f.key(pattern))
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, f.storeErr(opKeysMatching, pattern, ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, f.storeErr(opKeysMatching, pattern, res.Err)
	}

	shared := res.Val.([]string)
	out := make([]string, len(shared))
	copy(out, shared)

	f.read(opKeysMatching, pattern, start, len(out) > 0)
	return out, nil
}

func (f *Facade) scan(ctx context.Context, match string) ([]string, error) {
	var (
		mu   sync.Mutex
		seen = make(map[string]struct{})
	)

	walk := func(ctx context.Context, c redis.Cmdable) error {
		var cursor uint64
		for {
			keys, next, err := c.Scan(ctx, cursor, match, f.scanBatch).Result()
			if err != nil {
				return err
			}
			mu.Lock()
			for _, k := range keys {
				seen[k] = struct{}{}
			}
			mu.Unlock()

			cursor = next
			if cursor == 0 {
				return nil
			}
		}
	}

	var err error
	if cc, ok := f.client.(*redis.ClusterClient); ok {
		err = cc.ForEachMaster(ctx, func(ctx context.Context, node *redis.Client) error {
			return walk(ctx, node)
		})
	} else {
		err = walk(ctx, f.client)
	}
	if err != nil {
		return nil, err
	}

	prefix := f.config.Redis.KeyPrefix
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, strings.TrimPrefix(k, prefix))
	}
	return out, nil
}

// Exists reports whether key is present.
func (f *Facade) Exists(ctx context.Context, key string) (bool, error) {
	if err := f.check(key); err != nil {
		return false, err
	}
	start := time.Now()

	n, err := f.client.Exists(ctx, f.key(key)).Result()
	if err != nil {
		return false, f.storeErr(opExists, key, err)
	}

	f.read(opExists, key, start, n > 0)
	return n > 0, nil
}

// Expire sets the TTL of key and reports whether the key existed. A
// non-positive ttl deletes the key.
func (f *Facade) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := f.check(key); err != nil {
		return false, err
	}
	start := time.Now()

	ok, err := f.client.Expire(ctx, f.key(key), ttlArg(types.ExpireAfter(ttl))).Result()
	if err != nil {
		return false, f.storeErr(opExpire, key, err)
	}

	f.wrote(opExpire, key, 0, start)
	return ok, nil
}

// TimeToLive returns the remaining whole seconds of key, types.TTLNone when
// it has no TTL and types.TTLKeyAbsent when it does not exist.
func (f *Facade) TimeToLive(ctx context.Context, key string) (int64, error) {
	if err := f.check(key); err != nil {
		return 0, err
	}
	start := time.Now()

	d, err := f.client.TTL(ctx, f.key(key)).Result()
	if err != nil {
		return 0, f.storeErr(opTimeToLive, key, err)
	}

	secs := ttlSeconds(d)
	f.read(opTimeToLive, key, start, secs != types.TTLKeyAbsent)
	return secs, nil
}

// ttlSeconds maps go-redis TTL replies, which pass -1 and -2 through as raw
// nanosecond counts, onto the facade sentinels.
func ttlSeconds(d time.Duration) int64 {
	switch d {
	case -1:
		return types.TTLNone
	case -2:
		return types.TTLKeyAbsent
	}
	return int64(d / time.Second)
}

// Persist removes the TTL of key and reports whether one was removed.
func (f *Facade) Persist(ctx context.Context, key string) (bool, error) {
	if err := f.check(key); err != nil {
		return false, err
	}
	start := time.Now()

	ok, err := f.client.Persist(ctx, f.key(key)).Result()
	if err != nil {
		return false, f.storeErr(opPersist, key, err)
	}

	f.wrote(opPersist, key, 0, start)
	return ok, nil
}
