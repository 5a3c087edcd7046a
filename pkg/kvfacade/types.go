package kvfacade

import (
	"time"

	"github.com/LavishGent/kvfacade/internal/codec"
	"github.com/LavishGent/kvfacade/internal/types"
)

type (
	// Optional holds either a value or nothing.
	Optional[T any] = types.Optional[T]
	// Expiry describes what an operation does with a key's TTL.
	Expiry = types.Expiry
	// Option is a per-call option.
	Option = types.Option
	// Codec encodes structured values.
	Codec = types.Codec
	// ValueEncoder is implemented by values that encode themselves.
	ValueEncoder = codec.ValueEncoder
	// ValueDecoder is implemented by destinations that decode themselves.
	ValueDecoder = codec.ValueDecoder
	// MetricsRecorder receives one event per operation.
	MetricsRecorder = types.MetricsRecorder
	// Publisher ships metrics to an external sink.
	Publisher = types.Publisher
	// PublisherHealthMetrics is the batch sent to a Publisher on each interval.
	PublisherHealthMetrics = types.PublisherHealthMetrics
	// Logger lets callers plug in a non-slog logger.
	Logger = types.Logger
	// SecretString keeps passwords out of logs.
	SecretString = types.SecretString
)

// TTL sentinels returned by TimeToLive.
const (
	TTLNone      = types.TTLNone
	TTLKeyAbsent = types.TTLKeyAbsent
)

// NoExpiry leaves the TTL untouched.
var NoExpiry = types.NoExpiry

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return types.Some(v)
}

// None returns an empty Optional.
func None[T any]() Optional[T] {
	return types.None[T]()
}

func ExpireAfter(d time.Duration) Expiry {
	return types.ExpireAfter(d)
}

func ExpireSeconds(n int64) Expiry {
	return types.ExpireSeconds(n)
}

// JSONCodec returns the default structured codec.
func JSONCodec() Codec {
	return codec.NewJSONCodec()
}

// MsgpackCodec returns the msgpack structured codec.
func MsgpackCodec() Codec {
	return codec.NewMsgpackCodec()
}

// NewSecretString wraps a password.
func NewSecretString(value string) SecretString {
	return types.NewSecretString(value)
}
