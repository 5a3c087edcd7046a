// Package kvfacade provides one call surface over Redis strings, hashes,
// lists, sets and sorted sets, built on go-redis.
//
// Values are stored as text: strings and numbers as-is, everything else
// through a structured codec (JSON by default, msgpack optional). Reads
// return an Optional so a missing key is never confused with a failure.
//
// # Quick Start
//
//	store, err := kvfacade.New(kvfacade.WithRedisAddress("localhost:6379"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
// # Values
//
//	ctx := context.Background()
//	user := User{ID: "123", Name: "Alice"}
//
//	// Store with a TTL
//	err := store.Set(ctx, "user:123", user, kvfacade.WithExpiry(5*time.Minute))
//
//	// Typed read
//	got, err := kvfacade.GetAs[User](ctx, store, "user:123")
//	if u, ok := got.Get(); ok {
//	    fmt.Println(u.Name)
//	}
//
// # Expiry
//
// Operations that accept options only touch the TTL when an expiry is given.
// WithExpiry(0) or a negative duration expires the key immediately.
//
//	// Read and slide the TTL forward
//	store.Get(ctx, "session:abc", kvfacade.WithExpiry(30*time.Minute))
//
// # Composite Operations
//
// IncrementWithExpiry, SetAddWithExpiry, GetAndSet and Get with an expiry
// issue two commands. If the second fails after the first landed the error
// matches ErrPartialComposite. WithAtomicComposites runs both in MULTI/EXEC.
//
// # Errors
//
// Redis failures are wrapped in *StoreError, which unwraps to the go-redis
// error. Decode failures match ErrDecodeFailed. Absent keys are not errors.
//
// # Configuration
//
//	store, err := kvfacade.NewFromFile("config.json")
//
// KVFACADE_* and DD_* environment variables override file values. For tests:
//
//	store, err := kvfacade.NewWithClient(client, kvfacade.TestConfig())
//
// # Thread Safety
//
// A Facade is safe for concurrent use.
package kvfacade
