package kv

import (
	"context"
	"time"
)

const (
	opListAppend = "list_append"
	opListRange  = "list_range"
	opListTrim   = "list_trim"
)

// ListAppend pushes encoded values onto the tail of the list at key and
// returns the new length. An empty call sends nothing and reports zero.
func (f *Facade) ListAppend(ctx context.Context, key string, values ...any) (int64, error) {
	if err := f.check(key); err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, nil
	}
	start := time.Now()

	encoded, err := f.encodeAll(opListAppend, key, values)
	if err != nil {
		return 0, err
	}

	n, err := f.client.RPush(ctx, f.key(key), encoded...).Result()
	if err != nil {
		return 0, f.storeErr(opListAppend, key, err)
	}

	f.wrote(opListAppend, key, encodedSize(encoded), start)
	return n, nil
}

// ListRange returns elements start..stop inclusive. Negative indexes count
// from the tail.
func (f *Facade) ListRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if err := f.check(key); err != nil {
		return nil, err
	}
	began := time.Now()

	items, err := f.client.LRange(ctx, f.key(key), start, stop).Result()
	if err != nil {
		return nil, f.storeErr(opListRange, key, err)
	}

	f.read(opListRange, key, began, len(items) > 0)
	return items, nil
}

// ListTrim keeps only elements start..stop inclusive.
func (f *Facade) ListTrim(ctx context.Context, key string, start, stop int64) error {
	if err := f.check(key); err != nil {
		return err
	}
	began := time.Now()

	if err := f.client.LTrim(ctx, f.key(key), start, stop).Err(); err != nil {
		return f.storeErr(opListTrim, key, err)
	}

	f.wrote(opListTrim, key, 0, began)
	return nil
}

func encodedSize(values []any) int {
	size := 0
	for _, v := range values {
		if s, ok := v.(string); ok {
			size += len(s)
		}
	}
	return size
}
