// Package types provides shared types for the kvfacade library.
// This package breaks import cycles between pkg/kvfacade and internal/kv.
package types

import "time"

// Optional holds either a value or nothing. Reads use it to keep a missing key
// apart from a failed operation.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an empty Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsPresent reports whether a value is held.
func (o Optional[T]) IsPresent() bool {
	return o.ok
}

// OrElse returns the held value, or fallback when empty.
func (o Optional[T]) OrElse(fallback T) T {
	if o.ok {
		return o.value
	}
	return fallback
}

// MustGet returns the held value and panics when empty.
func (o Optional[T]) MustGet() T {
	if !o.ok {
		panic("kvfacade: MustGet on empty Optional")
	}
	return o.value
}

// Expiry describes what an operation should do with a key's TTL.
// The zero value means "leave the TTL alone" and never reaches the store.
type Expiry struct {
	ttl time.Duration
	set bool
}

// NoExpiry leaves the TTL untouched.
var NoExpiry = Expiry{}

// ExpireAfter sets the TTL to d. Redis keeps whole seconds; d <= 0 expires the key immediately.
func ExpireAfter(d time.Duration) Expiry {
	return Expiry{ttl: d, set: true}
}

// ExpireSeconds is ExpireAfter expressed in seconds.
func ExpireSeconds(n int64) Expiry {
	return ExpireAfter(time.Duration(n) * time.Second)
}

// IsSet reports whether a TTL command should be issued.
func (e Expiry) IsSet() bool {
	return e.set
}

// Duration returns the requested TTL. Zero when unset.
func (e Expiry) Duration() time.Duration {
	return e.ttl
}

// Immediate reports whether the key should expire right away.
func (e Expiry) Immediate() bool {
	return e.set && e.ttl <= 0
}

func (e Expiry) String() string {
	switch {
	case !e.set:
		return "none"
	case e.Immediate():
		return "immediate"
	default:
		return e.ttl.String()
	}
}

// Sentinels returned by TTL lookups, matching Redis' own replies.
const (
	TTLNone      int64 = -1
	TTLKeyAbsent int64 = -2
)

// OpOptions carries per-call settings.
type OpOptions struct {
	Expiry Expiry
}

// Option is a functional option for facade operations.
type Option func(*OpOptions)

// ApplyOptions folds opts into a fresh OpOptions.
func ApplyOptions(opts ...Option) *OpOptions {
	options := &OpOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}
	return options
}

// WithExpiry sets the TTL applied by the operation.
func WithExpiry(d time.Duration) Option {
	return func(o *OpOptions) {
		o.Expiry = ExpireAfter(d)
	}
}

// WithExpirySeconds sets the TTL in seconds.
func WithExpirySeconds(n int64) Option {
	return func(o *OpOptions) {
		o.Expiry = ExpireSeconds(n)
	}
}

// WithExpiryValue passes a prebuilt Expiry through, including NoExpiry.
func WithExpiryValue(e Expiry) Option {
	return func(o *OpOptions) {
		o.Expiry = e
	}
}
