package config

import "time"

// DefaultScanBatchSize is the SCAN COUNT hint used when none is configured.
const DefaultScanBatchSize = 100

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Redis: RedisConfig{
			Address:          "localhost:6379",
			Password:         SecretString{},
			DB:               0,
			KeyPrefix:        "",
			PoolSize:         100,
			MinIdleConns:     10,
			DialTimeout:      5 * time.Second,
			ReadTimeout:      3 * time.Second,
			WriteTimeout:     3 * time.Second,
			PoolTimeout:      4 * time.Second,
			MaxRetries:       0,
			ScanBatchSize:    DefaultScanBatchSize,
			EnableTLS:        false,
			TLSSkipVerify:    false,
			AtomicComposites: false,
		},
		Codec: CodecConfig{
			Structured: "json",
		},
		Metrics: MetricsConfig{
			Enabled:         true,
			PublishInterval: 10 * time.Second,
			DataDog: DataDogConfig{
				Enabled:   false,
				AgentHost: "127.0.0.1",
				Port:      8125,
				Prefix:    "kvfacade",
				Tags:      []string{},
			},
		},
		KeyValidation: KeyValidationConfig{
			Enabled:           false,
			MaxKeyLength:      1024,
			AllowEmpty:        false,
			AllowControlChars: false,
			AllowWhitespace:   true,
		},
	}
}

// ForTesting returns a minimal configuration suitable for unit tests.
func ForTesting() *Config {
	return &Config{
		Redis: RedisConfig{
			Address:       "localhost:6379",
			KeyPrefix:     "test:",
			PoolSize:      10,
			MinIdleConns:  1,
			DialTimeout:   1 * time.Second,
			ReadTimeout:   1 * time.Second,
			WriteTimeout:  1 * time.Second,
			PoolTimeout:   1 * time.Second,
			MaxRetries:    -1,
			ScanBatchSize: 10,
		},
		Codec: CodecConfig{
			Structured: "json",
		},
		Metrics: MetricsConfig{
			Enabled:         false,
			PublishInterval: 1 * time.Second,
		},
		KeyValidation: KeyValidationConfig{
			Enabled:           true,
			MaxKeyLength:      1024,
			AllowEmpty:        false,
			AllowControlChars: false,
			AllowWhitespace:   true,
		},
	}
}

// ForTestingWithRedis returns a test config pointed at addr.
func ForTestingWithRedis(addr string) *Config {
	cfg := ForTesting()
	cfg.Redis.Address = addr
	return cfg
}
