package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LavishGent/kvfacade/internal/types"
)

const (
	opHashGet       = "hash_get"
	opHashSet       = "hash_set"
	opHashGetAll    = "hash_get_all"
	opHashSetAll    = "hash_set_all"
	opHashIncrement = "hash_increment"
	opHashFieldKeys = "hash_field_keys"
	opHashDelete    = "hash_delete"
)

// HashGet returns the stored text of field in the hash at key.
func (f *Facade) HashGet(ctx context.Context, key, field string) (types.Optional[string], error) {
	if err := f.check(key); err != nil {
		return types.None[string](), err
	}
	start := time.Now()

	val, err := f.client.HGet(ctx, f.key(key), field).Result()
	if errors.Is(err, redis.Nil) {
		f.read(opHashGet, key, start, false)
		return types.None[string](), nil
	}
	if err != nil {
		return types.None[string](), f.storeErr(opHashGet, key, err)
	}

	f.read(opHashGet, key, start, true)
	return types.Some(val), nil
}

// HashGetInto decodes field into dest and reports whether it was present.
func (f *Facade) HashGetInto(ctx context.Context, key, field string, dest any) (bool, error) {
	v, err := f.HashGet(ctx, key, field)
	if err != nil {
		return false, err
	}
	s, ok := v.Get()
	if !ok {
		return false, nil
	}
	if err := f.decode(opHashGet, key, s, dest); err != nil {
		return false, err
	}
	return true, nil
}

// HashSet encodes value into field of the hash at key.
func (f *Facade) HashSet(ctx context.Context, key, field string, value any) error {
	if err := f.check(key); err != nil {
		return err
	}
	start := time.Now()

	s, err := f.encode(opHashSet, key, value)
	if err != nil {
		return err
	}

	if err := f.client.HSet(ctx, f.key(key), field, s).Err(); err != nil {
		return f.storeErr(opHashSet, key, err)
	}

	f.wrote(opHashSet, key, len(s), start)
	return nil
}

// HashGetAll returns every field of the hash at key. A missing key gives an empty map.
func (f *Facade) HashGetAll(ctx context.Context, key string) (map[string]string, error) {
	if err := f.check(key); err != nil {
		return nil, err
	}
	start := time.Now()

	m, err := f.client.HGetAll(ctx, f.key(key)).Result()
	if err != nil {
		return nil, f.storeErr(opHashGetAll, key, err)
	}

	f.read(opHashGetAll, key, start, len(m) > 0)
	return m, nil
}

// HashSetAll writes every entry of fields in one HSET. An empty map sends nothing.
func (f *Facade) HashSetAll(ctx context.Context, key string, fields map[string]any) error {
	if err := f.check(key); err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	start := time.Now()

	encoded := make(map[string]any, len(fields))
	size := 0
	for field, value := range fields {
		s, err := f.encode(opHashSetAll, key, value)
		if err != nil {
			return err
		}
		encoded[field] = s
		size += len(s)
	}

	if err := f.client.HSet(ctx, f.key(key), encoded).Err(); err != nil {
		return f.storeErr(opHashSetAll, key, err)
	}

	f.wrote(opHashSetAll, key, size, start)
	return nil
}

// HashIncrementField adds one to field and returns the new value.
func (f *Facade) HashIncrementField(ctx context.Context, key, field string) (int64, error) {
	return f.HashIncrementFieldBy(ctx, key, field, 1)
}

// HashIncrementFieldBy adds by to field and returns the new value.
func (f *Facade) HashIncrementFieldBy(ctx context.Context, key, field string, by int64) (int64, error) {
	if err := f.check(key); err != nil {
		return 0, err
	}
	start := time.Now()

	n, err := f.client.HIncrBy(ctx, f.key(key), field, by).Result()
	if err != nil {
		return 0, f.storeErr(opHashIncrement, key, err)
	}

	f.wrote(opHashIncrement, key, 0, start)
	return n, nil
}

// HashFieldKeys lists the field names of the hash at key.
func (f *Facade) HashFieldKeys(ctx context.Context, key string) ([]string, error) {
	if err := f.check(key); err != nil {
		return nil, err
	}
	start := time.Now()

	fields, err := f.client.HKeys(ctx, f.key(key)).Result()
	if err != nil {
		return nil, f.storeErr(opHashFieldKeys, key, err)
	}

	f.read(opHashFieldKeys, key, start, len(fields) > 0)
	return fields, nil
}

// HashDelete removes fields and returns how many existed.
func (f *Facade) HashDelete(ctx context.Context, key string, fields ...string) (int64, error) {
	if err := f.check(key); err != nil {
		return 0, err
	}
	if len(fields) == 0 {
		return 0, nil
	}
	start := time.Now()

	n, err := f.client.HDel(ctx, f.key(key), fields...).Result()
	if err != nil {
		return 0, f.storeErr(opHashDelete, key, err)
	}

	f.wrote(opHashDelete, key, 0, start)
	return n, nil
}
