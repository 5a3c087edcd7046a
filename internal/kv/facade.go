// Package kv implements the key-value facade over go-redis.
package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/LavishGent/kvfacade/internal/codec"
	"github.com/LavishGent/kvfacade/internal/config"
	"github.com/LavishGent/kvfacade/internal/metrics"
	"github.com/LavishGent/kvfacade/internal/metrics/datadog"
	"github.com/LavishGent/kvfacade/internal/types"
)

// DefaultHealthTimeout bounds the PING issued for background health metrics.
const DefaultHealthTimeout = 2 * time.Second

// Options are construction-time settings that do not belong in config files.
type Options struct {
	// Client replaces the client built from config. The facade does not close it.
	Client     redis.UniversalClient
	Logger     types.Logger
	SlogLogger *slog.Logger
	// Metrics receives every operation event next to the built-in tracker.
	Metrics types.MetricsRecorder
	// Publisher overrides the DataDog publisher chosen from config.
	Publisher types.Publisher
	// Codec overrides Codec.Structured from config.
	Codec            types.Codec
	AtomicComposites bool
	// RedisAddress and RedisPassword override the config values when set.
	RedisAddress  string
	RedisPassword types.SecretString
}

// Facade is one call surface over Redis strings, hashes, lists, sets and
// sorted sets. It is safe for concurrent use.
type Facade struct {
	client           redis.UniversalClient
	ownsClient       bool
	config           *config.Config
	encoder          *codec.Encoder
	logger           *slog.Logger
	tracker          *metrics.Tracker
	metrics          types.MetricsRecorder
	publisher        types.Publisher
	ownsPublisher    bool
	background       *metrics.BackgroundPublisher
	keyValidator     *types.KeyValidator
	scanGroup        singleflight.Group
	closeMu          sync.Mutex
	closed           atomic.Bool
	atomicComposites bool
	scanBatch        int64
}

// New builds a Facade from cfg. A nil cfg means config.DefaultConfig.
//
//nolint:gocyclo // Configuration initialization requires multiple conditional checks
func New(cfg *config.Config, opts *Options) (*Facade, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if opts == nil {
		opts = &Options{}
	}
	if opts.RedisAddress != "" || !opts.RedisPassword.IsEmpty() {
		c := *cfg
		if opts.RedisAddress != "" {
			c.Redis.Address = opts.RedisAddress
		}
		if !opts.RedisPassword.IsEmpty() {
			c.Redis.Password = opts.RedisPassword
		}
		cfg = &c
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := resolveLogger(opts).With("component", "kv-facade")

	structured := opts.Codec
	if structured == nil {
		c, err := codec.ByName(cfg.Codec.Structured)
		if err != nil {
			return nil, err
		}
		structured = c
	}

	f := &Facade{
		config:           cfg,
		encoder:          codec.New(structured),
		logger:           logger,
		tracker:          metrics.NewTracker(),
		atomicComposites: cfg.Redis.AtomicComposites || opts.AtomicComposites,
		scanBatch:        int64(cfg.Redis.ScanBatchSize),
	}
	if f.scanBatch <= 0 {
		f.scanBatch = config.DefaultScanBatchSize
	}

	if cfg.KeyValidation.Enabled {
		f.keyValidator = types.NewKeyValidator(cfg.KeyValidation.ToTypesConfig())
	}

	if opts.Client != nil {
		f.client = opts.Client
	} else {
		f.client = NewClient(cfg.Redis, logger)
		f.ownsClient = true
	}

	recorders := []types.MetricsRecorder{f.tracker, opts.Metrics}
	if cfg.Metrics.Enabled {
		f.publisher = opts.Publisher
		if f.publisher == nil {
			p, err := datadog.NewPublisher(&cfg.Metrics.DataDog, logger)
			if err != nil {
				f.closeClient()
				return nil, err
			}
			f.publisher = p
			f.ownsPublisher = true
		}
		recorders = append(recorders, metrics.NewPublisherRecorder(f.publisher))
	}
	f.metrics = metrics.NewFanout(recorders...)

	if f.publisher != nil && cfg.Metrics.PublishInterval > 0 {
		f.background = metrics.NewBackgroundPublisher(f.publisher, cfg.Metrics.PublishInterval, f.publisherHealth, logger)
		f.background.Start(context.Background())
	}

	logger.Info("Key-value facade ready",
		"address", cfg.Redis.Address,
		"codec", structured.Name(),
		"atomic_composites", f.atomicComposites,
		"owns_client", f.ownsClient,
	)

	return f, nil
}

// NewWithClient wraps an existing client using test defaults for everything else.
func NewWithClient(client redis.UniversalClient, cfg *config.Config) (*Facade, error) {
	if cfg == nil {
		cfg = config.ForTesting()
	}
	return New(cfg, &Options{Client: client})
}

// Client exposes the underlying go-redis client.
func (f *Facade) Client() redis.UniversalClient {
	return f.client
}

// Encoder exposes the value encoder, for generic helpers.
func (f *Facade) Encoder() *codec.Encoder {
	return f.encoder
}

// Snapshot returns the built-in operation counters.
func (f *Facade) Snapshot() types.MetricsSnapshot {
	return f.tracker.Snapshot()
}

// Close stops background publishing and releases what the facade created.
// Later calls return nil.
func (f *Facade) Close() error {
	f.closeMu.Lock()
	defer f.closeMu.Unlock()

	if f.closed.Swap(true) {
		return nil
	}

	var errs []error

	if f.background != nil {
		f.background.Stop()
	}
	if f.ownsPublisher && f.publisher != nil {
		if err := f.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if err := f.closeClient(); err != nil {
		errs = append(errs, fmt.Errorf("close client: %w", err))
	}

	f.logger.Info("Key-value facade closed")
	return errors.Join(errs...)
}

func (f *Facade) closeClient() error {
	if !f.ownsClient {
		return nil
	}
	return f.client.Close()
}

func (f *Facade) key(key string) string {
	return f.config.Redis.KeyPrefix + key
}

func (f *Facade) keys(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = f.key(k)
	}
	return out
}

// check runs before any command: closed facade and key validation.
func (f *Facade) check(keys ...string) error {
	if f.closed.Load() {
		return types.ErrClosed
	}
	if f.keyValidator == nil {
		return nil
	}
	return f.keyValidator.ValidateAll(keys)
}

func (f *Facade) validatePattern(pattern string) error {
	if f.keyValidator == nil {
		return nil
	}
	return f.keyValidator.ValidatePattern(pattern)
}

// storeErr records and wraps a client error.
func (f *Facade) storeErr(op, key string, err error) error {
	f.metrics.RecordError(op, err)
	f.logger.Debug("Redis command failed", "op", op, "key", key, "error", err)
	return types.NewStoreError(op, key, err)
}

// localErr records an error raised before or after the store call.
func (f *Facade) localErr(op, key string, err error) error {
	f.metrics.RecordError(op, err)
	f.logger.Debug("Operation failed", "op", op, "key", key, "error", err)
	return err
}

func (f *Facade) encode(op, key string, value any) (string, error) {
	s, err := f.encoder.Encode(value)
	if err != nil {
		return "", f.localErr(op, key, fmt.Errorf("kvfacade %s [%s]: %w", op, key, err))
	}
	return s, nil
}

func (f *Facade) encodeAll(op, key string, values []any) ([]any, error) {
	out, err := f.encoder.EncodeAll(values)
	if err != nil {
		return nil, f.localErr(op, key, fmt.Errorf("kvfacade %s [%s]: %w", op, key, err))
	}
	return out, nil
}

func (f *Facade) decode(op, key, s string, dest any) error {
	if err := f.encoder.Decode(s, dest); err != nil {
		return f.localErr(op, key, types.NewDecodeError(key, dest, err))
	}
	return nil
}

// partial records a composite whose second step failed.
func (f *Facade) partial(op, key, applied string, err error) error {
	pe := &types.PartialError{Op: op, Key: key, Applied: applied, Err: types.NewStoreError(op, key, err)}
	f.metrics.RecordError(op, pe)
	f.logger.Warn("Composite operation partially applied", "op", op, "key", key, "applied", applied, "error", err)
	return pe
}

// firstErr reports a failed first step of a composite. MULTI/EXEC still runs
// the second step after a runtime error in the first, so a second step that
// landed makes the result partial.
func (f *Facade) firstErr(op, key string, err error, second redis.Cmder) error {
	if second != nil && second.Err() == nil {
		return f.partial(op, key, strings.ToUpper(second.Name()), err)
	}
	return f.storeErr(op, key, err)
}

func (f *Facade) read(op, key string, start time.Time, found bool) {
	if found {
		f.metrics.RecordHit(op, key, time.Since(start))
		return
	}
	f.metrics.RecordMiss(op, key, time.Since(start))
}

func (f *Facade) wrote(op, key string, size int, start time.Time) {
	f.metrics.RecordWrite(op, key, size, time.Since(start))
}

// composite runs two commands back to back, or inside MULTI/EXEC when
// atomic composites are on. Sequentially, second is skipped (nil) when
// first fails or replies nil. Callers report a failed first step with firstErr.
func (f *Facade) composite(ctx context.Context, first, second func(redis.Cmdable) redis.Cmder) (redis.Cmder, redis.Cmder) {
	if !f.atomicComposites {
		c1 := first(f.client)
		if c1.Err() != nil {
			return c1, nil
		}
		return c1, second(f.client)
	}

	var c1, c2 redis.Cmder
	// per-command errors are read from c1 and c2
	_, _ = f.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		c1 = first(pipe)
		c2 = second(pipe)
		return nil
	})
	return c1, c2
}

// ttlArg clamps immediate expiry to zero so EXPIRE deletes the key.
func ttlArg(e types.Expiry) time.Duration {
	if e.Immediate() {
		return 0
	}
	return e.Duration()
}
