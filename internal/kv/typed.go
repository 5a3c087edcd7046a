package kv

import (
	"context"

	"github.com/LavishGent/kvfacade/internal/types"
)

// GetAs reads key and decodes it into a T. A partial composite failure still
// returns the decoded value alongside the error.
func GetAs[T any](ctx context.Context, f *Facade, key string, opts ...types.Option) (types.Optional[T], error) {
	var v T
	ok, err := f.GetInto(ctx, key, &v, opts...)
	if !ok {
		return types.None[T](), err
	}
	return types.Some(v), err
}

// HashGetAs reads field of the hash at key and decodes it into a T.
func HashGetAs[T any](ctx context.Context, f *Facade, key, field string) (types.Optional[T], error) {
	var v T
	ok, err := f.HashGetInto(ctx, key, field, &v)
	if !ok {
		return types.None[T](), err
	}
	return types.Some(v), err
}
