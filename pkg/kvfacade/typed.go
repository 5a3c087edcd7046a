package kvfacade

import (
	"context"

	"github.com/LavishGent/kvfacade/internal/kv"
)

// GetAs reads key and decodes it into a T.
func GetAs[T any](ctx context.Context, f *Facade, key string, opts ...Option) (Optional[T], error) {
	return kv.GetAs[T](ctx, f, key, opts...)
}

// HashGetAs reads field of the hash at key and decodes it into a T.
func HashGetAs[T any](ctx context.Context, f *Facade, key, field string) (Optional[T], error) {
	return kv.HashGetAs[T](ctx, f, key, field)
}
