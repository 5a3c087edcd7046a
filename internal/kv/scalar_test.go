package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavishGent/kvfacade/internal/config"
	"github.com/LavishGent/kvfacade/internal/types"
)

type profile struct {
	Name  string   `json:"name" msgpack:"name"`
	Tags  []string `json:"tags" msgpack:"tags"`
	Score int      `json:"score" msgpack:"score"`
}

// TestSetGet tests the basic round trip.
func TestSetGet(t *testing.T) {
	env := newTestEnv(t)
	f := env.facade
	ctx := context.Background()

	t.Run("string stored verbatim", func(t *testing.T) {
		require.NoError(t, f.Set(ctx, "s", "hello world"))

		raw, err := env.server.Get(env.prefixed("s"))
		require.NoError(t, err)
		assert.Equal(t, "hello world", raw)

		got, err := f.Get(ctx, "s")
		require.NoError(t, err)
		assert.Equal(t, "hello world", got.MustGet())
	})

	t.Run("integer stored as decimal text", func(t *testing.T) {
		require.NoError(t, f.Set(ctx, "n", 42))

		raw, err := env.server.Get(env.prefixed("n"))
		require.NoError(t, err)
		assert.Equal(t, "42", raw)

		n, err := GetAs[int](ctx, f, "n")
		require.NoError(t, err)
		assert.Equal(t, 42, n.MustGet())
	})

	t.Run("struct stored as JSON", func(t *testing.T) {
		in := profile{Name: "ada", Tags: []string{"x", "y"}, Score: 7}
		require.NoError(t, f.Set(ctx, "p", in))

		var out profile
		ok, err := f.GetInto(ctx, "p", &out)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, in, out)
	})

	t.Run("absent key is None without error", func(t *testing.T) {
		got, err := f.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, got.IsPresent())

		var out profile
		ok, err := f.GetInto(ctx, "missing", &out)
		require.NoError(t, err)
		assert.False(t, ok)

		typed, err := GetAs[profile](ctx, f, "missing")
		require.NoError(t, err)
		assert.False(t, typed.IsPresent())
	})

	t.Run("decode failure", func(t *testing.T) {
		require.NoError(t, f.Set(ctx, "text", "not a number"))

		var n int
		ok, err := f.GetInto(ctx, "text", &n)
		assert.False(t, ok)
		assert.True(t, types.IsDecodeError(err))

		var de *types.DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "text", de.Key)
		assert.Equal(t, "*int", de.Target)
	})

	t.Run("unencodable value never reaches Redis", func(t *testing.T) {
		env.commands.reset()
		err := f.Set(ctx, "ch", make(chan int))
		assert.ErrorIs(t, err, types.ErrEncodeFailed)
		assert.Zero(t, env.commands.count("set"))
	})
}

// TestSetExpiry tests how Set treats TTLs.
func TestSetExpiry(t *testing.T) {
	env := newTestEnv(t)
	f := env.facade
	ctx := context.Background()

	t.Run("positive expiry rides on SET", func(t *testing.T) {
		env.commands.reset()
		require.NoError(t, f.Set(ctx, "a", "v", types.WithExpiry(10*time.Second)))

		assert.Equal(t, 10*time.Second, env.server.TTL(env.prefixed("a")))
		assert.Equal(t, 1, env.commands.count("set"))
		assert.Zero(t, env.commands.ttlCommandCount())
	})

	t.Run("expiry in seconds", func(t *testing.T) {
		require.NoError(t, f.Set(ctx, "b", "v", types.WithExpirySeconds(30)))
		assert.Equal(t, 30*time.Second, env.server.TTL(env.prefixed("b")))
	})

	t.Run("key expires", func(t *testing.T) {
		require.NoError(t, f.Set(ctx, "c", "v", types.WithExpiry(5*time.Second)))
		env.server.FastForward(6 * time.Second)

		got, err := f.Get(ctx, "c")
		require.NoError(t, err)
		assert.False(t, got.IsPresent())
	})

	t.Run("NoExpiry sends no TTL command and clears the old TTL", func(t *testing.T) {
		require.NoError(t, f.Set(ctx, "d", "v", types.WithExpiry(time.Minute)))

		env.commands.reset()
		require.NoError(t, f.Set(ctx, "d", "w", types.WithExpiryValue(types.NoExpiry)))
		require.NoError(t, f.Set(ctx, "d", "x"))

		assert.Zero(t, env.commands.ttlCommandCount())
		assert.Zero(t, env.server.TTL(env.prefixed("d")))
	})

	t.Run("immediate expiry removes the key", func(t *testing.T) {
		require.NoError(t, f.Set(ctx, "e", "v", types.WithExpiry(0)))
		assert.False(t, env.server.Exists(env.prefixed("e")))

		require.NoError(t, f.Set(ctx, "e", "v", types.WithExpirySeconds(-5)))
		assert.False(t, env.server.Exists(env.prefixed("e")))
	})
}

// TestSetIfAbsent tests conditional writes.
func TestSetIfAbsent(t *testing.T) {
	env := newTestEnv(t)
	f := env.facade
	ctx := context.Background()

	written, err := f.SetIfAbsent(ctx, "lock", "owner-1", types.WithExpiry(30*time.Second))
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, 30*time.Second, env.server.TTL(env.prefixed("lock")))

	written, err = f.SetIfAbsent(ctx, "lock", "owner-2")
	require.NoError(t, err)
	assert.False(t, written)

	got, err := f.Get(ctx, "lock")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", got.MustGet())

	t.Run("immediate expiry leaves an existing key alone", func(t *testing.T) {
		written, err := f.SetIfAbsent(ctx, "lock", "owner-3", types.WithExpiry(0))
		require.NoError(t, err)
		assert.False(t, written)
		assert.True(t, env.server.Exists(env.prefixed("lock")))
	})

	t.Run("immediate expiry on a new key", func(t *testing.T) {
		written, err := f.SetIfAbsent(ctx, "fresh", "v", types.WithExpiry(0))
		require.NoError(t, err)
		assert.True(t, written)
		assert.False(t, env.server.Exists(env.prefixed("fresh")))
	})
}

// TestGetWithExpiry tests TTL refresh on read.
func TestGetWithExpiry(t *testing.T) {
	env := newTestEnv(t)
	f := env.facade
	ctx := context.Background()

	t.Run("refreshes TTL of an existing key", func(t *testing.T) {
		require.NoError(t, f.Set(ctx, "sess", "data", types.WithExpiry(10*time.Second)))

		got, err := f.Get(ctx, "sess", types.WithExpiry(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "data", got.MustGet())
		assert.Equal(t, time.Hour, env.server.TTL(env.prefixed("sess")))
	})

	t.Run("absent key sends no EXPIRE", func(t *testing.T) {
		env.commands.reset()
		got, err := f.Get(ctx, "nope", types.WithExpiry(time.Hour))
		require.NoError(t, err)
		assert.False(t, got.IsPresent())
		assert.Zero(t, env.commands.count("expire"))
		assert.False(t, env.server.Exists(env.prefixed("nope")))
	})

	t.Run("plain get keeps TTL", func(t *testing.T) {
		require.NoError(t, f.Set(ctx, "keep", "v", types.WithExpiry(time.Minute)))

		env.commands.reset()
		_, err := f.Get(ctx, "keep")
		require.NoError(t, err)
		assert.Zero(t, env.commands.ttlCommandCount())
		assert.Equal(t, time.Minute, env.server.TTL(env.prefixed("keep")))
	})

	t.Run("EXPIRE failure keeps the value", func(t *testing.T) {
		require.NoError(t, f.Set(ctx, "p", "v"))
		env.client.AddHook(failOn{name: "expire", err: errInjected})

		got, err := f.Get(ctx, "p", types.WithExpiry(time.Minute))
		assert.Equal(t, "v", got.MustGet())
		assert.True(t, types.IsPartialComposite(err))
		assert.ErrorIs(t, err, errInjected)
		assert.True(t, types.IsStoreError(err))

		var n string
		ok, err := f.GetInto(ctx, "p", &n, types.WithExpiry(time.Minute))
		assert.True(t, ok)
		assert.Equal(t, "v", n)
		assert.True(t, types.IsPartialComposite(err))
	})
}

// TestGetAndSet tests swap semantics.
func TestGetAndSet(t *testing.T) {
	env := newTestEnv(t)
	f := env.facade
	ctx := context.Background()

	prior, err := f.GetAndSet(ctx, "k", "first")
	require.NoError(t, err)
	assert.False(t, prior.IsPresent())

	prior, err = f.GetAndSet(ctx, "k", "second", types.WithExpiry(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "first", prior.MustGet())
	assert.Equal(t, time.Minute, env.server.TTL(env.prefixed("k")))

	got, err := f.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", got.MustGet())

	t.Run("TTL applied when no prior value", func(t *testing.T) {
		prior, err := f.GetAndSet(ctx, "new", 1, types.WithExpiry(time.Minute))
		require.NoError(t, err)
		assert.False(t, prior.IsPresent())
		assert.Equal(t, time.Minute, env.server.TTL(env.prefixed("new")))
	})

	t.Run("without expiry no TTL command", func(t *testing.T) {
		env.commands.reset()
		_, err := f.GetAndSet(ctx, "k", "third")
		require.NoError(t, err)
		assert.Zero(t, env.commands.ttlCommandCount())
	})
}

// TestAtomicComposites tests the MULTI/EXEC mode.
func TestAtomicComposites(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.Redis.AtomicComposites = true })
	f := env.facade
	ctx := context.Background()

	require.NoError(t, f.Set(ctx, "k", "v"))

	env.commands.reset()
	got, err := f.Get(ctx, "k", types.WithExpiry(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "v", got.MustGet())
	assert.Equal(t, time.Minute, env.server.TTL(env.prefixed("k")))
	assert.Equal(t, 1, env.commands.count("multi"))

	got, err = f.Get(ctx, "absent", types.WithExpiry(time.Minute))
	require.NoError(t, err)
	assert.False(t, got.IsPresent())

	n, err := f.IncrementWithExpiry(ctx, "counter", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.MustGet())

	prior, err := f.GetAndSet(ctx, "k", "w", types.WithExpiry(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "v", prior.MustGet())
	assert.Equal(t, time.Hour, env.server.TTL(env.prefixed("k")))

	require.NoError(t, f.Set(ctx, "gone", "v", types.WithExpiry(0)))
	assert.False(t, env.server.Exists(env.prefixed("gone")))
}

// TestCompositeFirstStepFails tests that a failed first step is reported
// with the TTL change it left behind.
func TestCompositeFirstStepFails(t *testing.T) {
	t.Run("atomic reports the expiry that landed", func(t *testing.T) {
		env := newTestEnv(t, func(c *config.Config) { c.Redis.AtomicComposites = true })
		f := env.facade
		ctx := context.Background()

		require.NoError(t, f.Set(ctx, "name", "alice"))

		n, err := f.IncrementWithExpiry(ctx, "name", time.Minute)
		require.Error(t, err)
		assert.False(t, n.IsPresent())

		var pe *types.PartialError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "EXPIRE", pe.Applied)
		assert.Equal(t, time.Minute, env.server.TTL(env.prefixed("name")))

		require.NoError(t, env.server.Set(env.prefixed("tags"), "plain"))
		_, err = f.SetAddWithExpiry(ctx, "tags", time.Minute, "a")
		assert.True(t, types.IsPartialComposite(err))

		env.server.HSet(env.prefixed("hash"), "f", "v")
		got, err := f.Get(ctx, "hash", types.WithExpiry(time.Minute))
		assert.True(t, types.IsPartialComposite(err))
		assert.False(t, got.IsPresent())

		var dest string
		ok, err := f.GetInto(ctx, "hash", &dest, types.WithExpiry(time.Minute))
		assert.False(t, ok)
		assert.True(t, types.IsPartialComposite(err))
	})

	t.Run("sequential skips the expiry", func(t *testing.T) {
		env := newTestEnv(t)
		f := env.facade
		ctx := context.Background()

		require.NoError(t, f.Set(ctx, "name", "alice"))

		_, err := f.IncrementWithExpiry(ctx, "name", time.Minute)
		require.Error(t, err)
		assert.True(t, types.IsStoreError(err))
		assert.False(t, types.IsPartialComposite(err))
		assert.Zero(t, env.server.TTL(env.prefixed("name")))
	})
}

// TestOptionalHelpers tests the Optional accessors used by callers.
func TestOptionalHelpers(t *testing.T) {
	some := types.Some("x")
	none := types.None[string]()

	v, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, "x", v)
	assert.Equal(t, "fallback", none.OrElse("fallback"))
	assert.Panics(t, func() { none.MustGet() })
}
