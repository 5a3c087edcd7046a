package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LavishGent/kvfacade/internal/types"
)

const (
	opSortedSetAdd         = "sorted_set_add"
	opSortedSetCardinality = "sorted_set_cardinality"
	opSortedSetScore       = "sorted_set_score"
)

// SortedSetAdd sets the score of member and reports whether member was new.
// Updating an existing member's score returns false.
func (f *Facade) SortedSetAdd(ctx context.Context, key string, member any, score float64) (bool, error) {
	if err := f.check(key); err != nil {
		return false, err
	}
	start := time.Now()

	s, err := f.encode(opSortedSetAdd, key, member)
	if err != nil {
		return false, err
	}

	n, err := f.client.ZAdd(ctx, f.key(key), redis.Z{Score: score, Member: s}).Result()
	if err != nil {
		return false, f.storeErr(opSortedSetAdd, key, err)
	}

	f.wrote(opSortedSetAdd, key, len(s), start)
	return n > 0, nil
}

// SortedSetCardinality returns the number of members at key.
func (f *Facade) SortedSetCardinality(ctx context.Context, key string) (int64, error) {
	if err := f.check(key); err != nil {
		return 0, err
	}
	start := time.Now()

	n, err := f.client.ZCard(ctx, f.key(key)).Result()
	if err != nil {
		return 0, f.storeErr(opSortedSetCardinality, key, err)
	}

	f.read(opSortedSetCardinality, key, start, n > 0)
	return n, nil
}

// SortedSetScore returns the score of member, or None when it is not in the set.
func (f *Facade) SortedSetScore(ctx context.Context, key string, member any) (types.Optional[float64], error) {
	if err := f.check(key); err != nil {
		return types.None[float64](), err
	}
	start := time.Now()

	s, err := f.encode(opSortedSetScore, key, member)
	if err != nil {
		return types.None[float64](), err
	}

	score, err := f.client.ZScore(ctx, f.key(key), s).Result()
	if errors.Is(err, redis.Nil) {
		f.read(opSortedSetScore, key, start, false)
		return types.None[float64](), nil
	}
	if err != nil {
		return types.None[float64](), f.storeErr(opSortedSetScore, key, err)
	}

	f.read(opSortedSetScore, key, start, true)
	return types.Some(score), nil
}
