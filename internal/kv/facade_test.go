package kv

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavishGent/kvfacade/internal/config"
	"github.com/LavishGent/kvfacade/internal/types"
)

// commandRecorder is a go-redis hook that remembers every command name sent,
// including those inside pipelines and transactions.
type commandRecorder struct {
	mu    sync.Mutex
	names []string
}

func (r *commandRecorder) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (r *commandRecorder) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		r.add(cmd)
		return next(ctx, cmd)
	}
}

func (r *commandRecorder) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			r.add(cmd)
		}
		return next(ctx, cmds)
	}
}

func (r *commandRecorder) add(cmd redis.Cmder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, strings.ToLower(cmd.Name()))
}

func (r *commandRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = nil
}

func (r *commandRecorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, got := range r.names {
		if got == name {
			n++
		}
	}
	return n
}

// ttlCommands lists every command that can set or clear a TTL.
var ttlCommands = []string{"expire", "pexpire", "expireat", "pexpireat", "persist"}

func (r *commandRecorder) ttlCommandCount() int {
	n := 0
	for _, name := range ttlCommands {
		n += r.count(name)
	}
	return n
}

// failOn makes every command with the given name fail without reaching Redis.
type failOn struct {
	name string
	err  error
}

func (h failOn) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h failOn) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if strings.EqualFold(cmd.Name(), h.name) {
			cmd.SetErr(h.err)
			return h.err
		}
		return next(ctx, cmd)
	}
}

func (h failOn) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

var errInjected = errors.New("injected failure")

type testEnv struct {
	facade   *Facade
	server   *miniredis.Miniredis
	client   *redis.Client
	commands *commandRecorder
}

// prefixed returns the raw Redis key for a facade key.
func (e *testEnv) prefixed(key string) string {
	return e.facade.config.Redis.KeyPrefix + key
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEnv starts miniredis and builds a facade on an injected client.
// mutate may adjust the test config before construction.
func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr:       server.Addr(),
		MaxRetries: -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	recorder := &commandRecorder{}
	client.AddHook(recorder)

	cfg := config.ForTestingWithRedis(server.Addr())
	for _, m := range mutate {
		m(cfg)
	}

	f, err := New(cfg, &Options{Client: client, SlogLogger: discardLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	return &testEnv{facade: f, server: server, client: client, commands: recorder}
}

// TestNew tests facade construction.
func TestNew(t *testing.T) {
	t.Run("rejects invalid config", func(t *testing.T) {
		cfg := config.ForTesting()
		cfg.Redis.Address = ""

		f, err := New(cfg, nil)
		assert.Error(t, err)
		assert.Nil(t, f)
	})

	t.Run("rejects unknown codec", func(t *testing.T) {
		cfg := config.ForTesting()
		cfg.Codec.Structured = "yaml"

		_, err := New(cfg, &Options{Client: redis.NewClient(&redis.Options{})})
		assert.Error(t, err)
	})

	t.Run("builds its own client from config", func(t *testing.T) {
		server := miniredis.RunT(t)
		cfg := config.ForTestingWithRedis(server.Addr())

		f, err := New(cfg, &Options{SlogLogger: discardLogger()})
		require.NoError(t, err)
		assert.True(t, f.ownsClient)

		require.NoError(t, f.Ping(context.Background()))
		require.NoError(t, f.Close())
	})

	t.Run("NewWithClient falls back to test config", func(t *testing.T) {
		server := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: server.Addr()})
		defer client.Close()

		f, err := NewWithClient(client, nil)
		require.NoError(t, err)
		defer f.Close()

		assert.Equal(t, "test:", f.config.Redis.KeyPrefix)
		assert.Same(t, client, f.Client())
	})

	t.Run("msgpack codec from config", func(t *testing.T) {
		env := newTestEnv(t, func(c *config.Config) { c.Codec.Structured = "msgpack" })
		assert.Equal(t, "msgpack", env.facade.Encoder().Structured().Name())
	})
}

// TestClose tests shutdown behavior.
func TestClose(t *testing.T) {
	t.Run("operations fail with ErrClosed", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()

		require.NoError(t, env.facade.Close())
		env.commands.reset()

		err := env.facade.Set(ctx, "k", "v")
		assert.ErrorIs(t, err, types.ErrClosed)

		_, err = env.facade.Get(ctx, "k")
		assert.ErrorIs(t, err, types.ErrClosed)

		_, err = env.facade.Delete(ctx)
		assert.ErrorIs(t, err, types.ErrClosed)

		_, err = env.facade.Health(ctx)
		assert.ErrorIs(t, err, types.ErrClosed)

		assert.Zero(t, env.commands.count("set"))
	})

	t.Run("second close is a no-op", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.facade.Close())
		assert.NoError(t, env.facade.Close())
	})

	t.Run("injected client stays open", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.facade.Close())
		assert.NoError(t, env.client.Ping(context.Background()).Err())
	})
}

// TestKeyPrefix tests that keys are namespaced in Redis.
func TestKeyPrefix(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.Redis.KeyPrefix = "app:" })
	ctx := context.Background()

	require.NoError(t, env.facade.Set(ctx, "user:1", "alice"))

	got, err := env.server.Get("app:user:1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
	assert.False(t, env.server.Exists("user:1"))
}

// TestKeyValidation tests that invalid keys never reach Redis.
func TestKeyValidation(t *testing.T) {
	t.Run("rejects empty key", func(t *testing.T) {
		env := newTestEnv(t)
		env.commands.reset()

		err := env.facade.Set(context.Background(), "", "v")
		assert.True(t, types.IsInvalidKey(err))
		assert.Zero(t, env.commands.count("set"))
	})

	t.Run("rejects one bad key in a delete", func(t *testing.T) {
		env := newTestEnv(t)
		env.commands.reset()

		_, err := env.facade.Delete(context.Background(), "a", "bad\x00key")
		assert.ErrorIs(t, err, types.ErrInvalidKey)
		assert.Zero(t, env.commands.count("del"))
	})

	t.Run("disabled validation passes anything", func(t *testing.T) {
		env := newTestEnv(t, func(c *config.Config) { c.KeyValidation.Enabled = false })

		assert.NoError(t, env.facade.Set(context.Background(), "", "v"))
	})
}

// TestStoreErrors tests how client failures surface.
func TestStoreErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.client.Close())

	_, err := env.facade.Get(ctx, "k")
	require.Error(t, err)
	assert.True(t, types.IsStoreError(err))
	assert.ErrorIs(t, err, redis.ErrClosed)

	var se *types.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, opGet, se.Op)
	assert.Equal(t, "k", se.Key)

	snap := env.facade.Snapshot()
	assert.Equal(t, int64(1), snap.ErrorCount)
}

// TestWrongType tests that Redis type errors are returned, not swallowed.
func TestWrongType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.facade.ListAppend(ctx, "list", "a")
	require.NoError(t, err)

	_, err = env.facade.Get(ctx, "list")
	require.Error(t, err)
	assert.True(t, types.IsStoreError(err))
	assert.Contains(t, err.Error(), "WRONGTYPE")
}

// TestHealth tests health reporting.
func TestHealth(t *testing.T) {
	t.Run("healthy when Redis answers", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()

		require.NoError(t, env.facade.Set(ctx, "k", "v"))
		_, err := env.facade.Get(ctx, "k")
		require.NoError(t, err)

		h, err := env.facade.Health(ctx)
		require.NoError(t, err)
		assert.Equal(t, types.HealthStatusHealthy, h.Status)
		assert.True(t, h.Connected)
		assert.Equal(t, int64(1), h.Operations.Hits)
		assert.Equal(t, int64(1), h.Operations.WriteCount)
		assert.NotZero(t, h.Pool.TotalConns)
		assert.True(t, env.facade.IsHealthy(ctx))
	})

	t.Run("degraded after a recent failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.client.AddHook(failOn{name: "get", err: errInjected})
		ctx := context.Background()

		_, err := env.facade.Get(ctx, "k")
		require.ErrorIs(t, err, errInjected)

		h, err := env.facade.Health(ctx)
		require.NoError(t, err)
		assert.Equal(t, types.HealthStatusDegraded, h.Status)
		assert.Contains(t, h.LastError, "injected failure")
		assert.False(t, env.facade.IsHealthy(ctx))
	})

	t.Run("caller errors leave health alone", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()

		require.NoError(t, env.facade.Set(ctx, "k", "not json"))
		var n int
		_, err := env.facade.GetInto(ctx, "k", &n)
		require.True(t, types.IsDecodeError(err))

		err = env.facade.Set(ctx, "bad", make(chan int))
		require.Error(t, err)

		h, err := env.facade.Health(ctx)
		require.NoError(t, err)
		assert.Equal(t, types.HealthStatusHealthy, h.Status)
		assert.Empty(t, h.LastError)
		assert.Equal(t, int64(2), h.Operations.ErrorCount)
	})

	t.Run("unhealthy when Redis is gone", func(t *testing.T) {
		env := newTestEnv(t)
		env.server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		h, err := env.facade.Health(ctx)
		require.NoError(t, err)
		assert.Equal(t, types.HealthStatusUnhealthy, h.Status)
		assert.False(t, h.Connected)
		assert.NotEmpty(t, h.LastError)

		assert.Error(t, env.facade.Ping(ctx))
	})

	t.Run("publisher view", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.facade.Set(context.Background(), "k", "v"))

		p := env.facade.publisherHealth()
		require.NotNil(t, p)
		assert.True(t, p.IsConnected)
		assert.Equal(t, int64(1), p.Operations)
	})
}

type capturingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *capturingLogger) log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *capturingLogger) Debug(msg string, _ ...any) { l.log(msg) }
func (l *capturingLogger) Info(msg string, _ ...any)  { l.log(msg) }
func (l *capturingLogger) Warn(msg string, _ ...any)  { l.log(msg) }
func (l *capturingLogger) Error(msg string, _ ...any) { l.log(msg) }

// TestCustomLogger tests the types.Logger adapter.
func TestCustomLogger(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	logger := &capturingLogger{}
	f, err := New(config.ForTestingWithRedis(server.Addr()), &Options{Client: client, Logger: logger})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	logger.mu.Lock()
	defer logger.mu.Unlock()
	assert.Contains(t, logger.messages, "Key-value facade ready")
	assert.Contains(t, logger.messages, "Key-value facade closed")
}

type recordedEvent struct {
	kind string
	op   string
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) add(kind, op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{kind: kind, op: op})
}

func (r *eventRecorder) RecordHit(op, _ string, _ time.Duration)          { r.add("hit", op) }
func (r *eventRecorder) RecordMiss(op, _ string, _ time.Duration)         { r.add("miss", op) }
func (r *eventRecorder) RecordWrite(op, _ string, _ int, _ time.Duration) { r.add("write", op) }
func (r *eventRecorder) RecordError(op string, _ error)                   { r.add("error", op) }

// TestMetricsRecorder tests that a caller recorder sees every event.
func TestMetricsRecorder(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	rec := &eventRecorder{}
	f, err := New(config.ForTestingWithRedis(server.Addr()), &Options{
		Client:     client,
		Metrics:    rec,
		SlogLogger: discardLogger(),
	})
	require.NoError(t, err)
	defer f.Close()

	ctx := context.Background()
	require.NoError(t, f.Set(ctx, "k", "v"))
	_, err = f.Get(ctx, "k")
	require.NoError(t, err)
	_, err = f.Get(ctx, "missing")
	require.NoError(t, err)
	_, err = f.Increment(ctx, "k")
	require.Error(t, err)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []recordedEvent{
		{kind: "write", op: opSet},
		{kind: "hit", op: opGet},
		{kind: "miss", op: opGet},
		{kind: "error", op: opIncrement},
	}, rec.events)

	snap := f.Snapshot()
	assert.Equal(t, int64(1), snap.Hits)
	assert.Equal(t, int64(1), snap.Misses)
	assert.Equal(t, int64(1), snap.ErrorCount)
}

type countingPublisher struct {
	mu     sync.Mutex
	incrs  []string
	health int
	closed bool
}

func (p *countingPublisher) Gauge(string, float64, ...string)        {}
func (p *countingPublisher) Count(string, int64, ...string)          {}
func (p *countingPublisher) Histogram(string, float64, ...string)    {}
func (p *countingPublisher) Timing(string, time.Duration, ...string) {}
func (p *countingPublisher) Event(string, string, string, ...string) {}

func (p *countingPublisher) Incr(name string, tags ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.incrs = append(p.incrs, name+"|"+strings.Join(tags, ","))
}

func (p *countingPublisher) PublishHealthMetrics(*types.PublisherHealthMetrics) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.health++
}

func (p *countingPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// TestPublisherWiring tests the metrics publisher path.
func TestPublisherWiring(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	cfg := config.ForTestingWithRedis(server.Addr())
	cfg.Metrics.Enabled = true
	cfg.Metrics.PublishInterval = time.Hour

	pub := &countingPublisher{}
	f, err := New(cfg, &Options{Client: client, Publisher: pub, SlogLogger: discardLogger()})
	require.NoError(t, err)

	_, err = f.Get(context.Background(), "missing")
	require.NoError(t, err)

	require.NoError(t, f.Close())

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Contains(t, pub.incrs, "operations|operation:get,status:miss")
	assert.False(t, pub.closed, "injected publisher must not be closed")
}
