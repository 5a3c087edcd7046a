package kvfacade

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LavishGent/kvfacade/internal/kv"
	"github.com/LavishGent/kvfacade/internal/types"
)

func WithExpiry(d time.Duration) Option {
	return types.WithExpiry(d)
}

func WithExpirySeconds(n int64) Option {
	return types.WithExpirySeconds(n)
}

// WithExpiryValue passes a prebuilt Expiry, including NoExpiry.
func WithExpiryValue(e Expiry) Option {
	return types.WithExpiryValue(e)
}

type FacadeOption func(*kv.Options)

func WithLogger(logger Logger) FacadeOption {
	return func(o *kv.Options) {
		o.Logger = logger
	}
}

func WithSlogLogger(logger *slog.Logger) FacadeOption {
	return func(o *kv.Options) {
		o.SlogLogger = logger
	}
}

func WithMetrics(metrics MetricsRecorder) FacadeOption {
	return func(o *kv.Options) {
		o.Metrics = metrics
	}
}

// WithPublisher replaces the DataDog publisher. It is used only when
// metrics are enabled in config and is not closed by the facade.
func WithPublisher(publisher Publisher) FacadeOption {
	return func(o *kv.Options) {
		o.Publisher = publisher
	}
}

func WithCodec(c Codec) FacadeOption {
	return func(o *kv.Options) {
		o.Codec = c
	}
}

// WithClient injects a go-redis client. The facade does not close it.
func WithClient(client redis.UniversalClient) FacadeOption {
	return func(o *kv.Options) {
		o.Client = client
	}
}

func WithAtomicComposites() FacadeOption {
	return func(o *kv.Options) {
		o.AtomicComposites = true
	}
}

func WithRedisAddress(addr string) FacadeOption {
	return func(o *kv.Options) {
		o.RedisAddress = addr
	}
}

func WithRedisPassword(password string) FacadeOption {
	return func(o *kv.Options) {
		o.RedisPassword = types.NewSecretString(password)
	}
}
