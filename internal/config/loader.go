package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Load loads configuration from a JSON file.
// If the file doesn't exist, returns default configuration.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, use defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithEnv loads configuration from a JSON file and applies environment overrides.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

//nolint:gocyclo // Environment variable parsing requires many conditional checks
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("KVFACADE_REDIS_ADDRESS"); v != "" {
		cfg.Redis.Address = v
	}
	if v := os.Getenv("KVFACADE_REDIS_USERNAME"); v != "" {
		cfg.Redis.Username = v
	}
	if v := os.Getenv("KVFACADE_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = NewSecretString(v)
	}
	if v := os.Getenv("KVFACADE_REDIS_DB"); v != "" {
		cfg.Redis.DB = parseInt(v, cfg.Redis.DB)
	}
	if v := os.Getenv("KVFACADE_REDIS_KEY_PREFIX"); v != "" {
		cfg.Redis.KeyPrefix = v
	}
	if v := os.Getenv("KVFACADE_REDIS_POOL_SIZE"); v != "" {
		cfg.Redis.PoolSize = parseInt(v, cfg.Redis.PoolSize)
	}
	if v := os.Getenv("KVFACADE_REDIS_MAX_RETRIES"); v != "" {
		cfg.Redis.MaxRetries = parseInt(v, cfg.Redis.MaxRetries)
	}
	if v := os.Getenv("KVFACADE_REDIS_DIAL_TIMEOUT"); v != "" {
		cfg.Redis.DialTimeout = parseDuration(v, cfg.Redis.DialTimeout)
	}
	if v := os.Getenv("KVFACADE_REDIS_READ_TIMEOUT"); v != "" {
		cfg.Redis.ReadTimeout = parseDuration(v, cfg.Redis.ReadTimeout)
	}
	if v := os.Getenv("KVFACADE_REDIS_WRITE_TIMEOUT"); v != "" {
		cfg.Redis.WriteTimeout = parseDuration(v, cfg.Redis.WriteTimeout)
	}
	if v := os.Getenv("KVFACADE_REDIS_SCAN_BATCH_SIZE"); v != "" {
		cfg.Redis.ScanBatchSize = parseInt(v, cfg.Redis.ScanBatchSize)
	}
	if v := os.Getenv("KVFACADE_REDIS_ENABLE_TLS"); v != "" {
		cfg.Redis.EnableTLS = parseBool(v)
	}
	if v := os.Getenv("KVFACADE_REDIS_TLS_SKIP_VERIFY"); v != "" {
		cfg.Redis.TLSSkipVerify = parseBool(v)
	}
	if v := os.Getenv("KVFACADE_REDIS_ATOMIC_COMPOSITES"); v != "" {
		cfg.Redis.AtomicComposites = parseBool(v)
	}

	if v := os.Getenv("KVFACADE_CODEC"); v != "" {
		cfg.Codec.Structured = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv("KVFACADE_KEY_VALIDATION_ENABLED"); v != "" {
		cfg.KeyValidation.Enabled = parseBool(v)
	}
	if v := os.Getenv("KVFACADE_KEY_VALIDATION_MAX_KEY_LENGTH"); v != "" {
		cfg.KeyValidation.MaxKeyLength = parseInt(v, cfg.KeyValidation.MaxKeyLength)
	}

	if v := os.Getenv("KVFACADE_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("KVFACADE_METRICS_PUBLISH_INTERVAL"); v != "" {
		cfg.Metrics.PublishInterval = parseDuration(v, cfg.Metrics.PublishInterval)
	}

	if v := os.Getenv("DD_AGENT_HOST"); v != "" {
		cfg.Metrics.DataDog.AgentHost = v
		cfg.Metrics.DataDog.Enabled = true
	}
	if v := os.Getenv("DD_DOGSTATSD_PORT"); v != "" {
		cfg.Metrics.DataDog.Port = parseInt(v, cfg.Metrics.DataDog.Port)
	}
	if v := os.Getenv("DD_SERVICE"); v != "" {
		cfg.Metrics.DataDog.Prefix = v
	}
	if v := os.Getenv("DD_ENV"); v != "" {
		cfg.Metrics.DataDog.Tags = append(cfg.Metrics.DataDog.Tags, "env:"+v)
	}
	if v := os.Getenv("DD_VERSION"); v != "" {
		cfg.Metrics.DataDog.Tags = append(cfg.Metrics.DataDog.Tags, "version:"+v)
	}

	if v := os.Getenv("KVFACADE_DATADOG_ENABLED"); v != "" {
		if os.Getenv("DD_AGENT_HOST") == "" {
			cfg.Metrics.DataDog.Enabled = parseBool(v)
		}
	}
	if v := os.Getenv("KVFACADE_DATADOG_PREFIX"); v != "" {
		if os.Getenv("DD_SERVICE") == "" {
			cfg.Metrics.DataDog.Prefix = v
		}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Redis.Address == "" {
		return fmt.Errorf("redis.address is required")
	}
	if c.Redis.PoolSize < 0 {
		return fmt.Errorf("redis.poolSize must not be negative")
	}
	if c.Redis.MinIdleConns < 0 {
		return fmt.Errorf("redis.minIdleConns must not be negative")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db must not be negative")
	}
	if c.Redis.MaxRetries < -1 {
		return fmt.Errorf("redis.maxRetries must be -1 or greater")
	}
	if c.Redis.ScanBatchSize < 0 {
		return fmt.Errorf("redis.scanBatchSize must not be negative")
	}

	switch c.Codec.Structured {
	case "", "json", "msgpack":
	default:
		return fmt.Errorf("codec.structured must be \"json\" or \"msgpack\", got %q", c.Codec.Structured)
	}

	if c.KeyValidation.Enabled && c.KeyValidation.MaxKeyLength < 0 {
		return fmt.Errorf("keyValidation.maxKeyLength must not be negative")
	}

	if c.Metrics.Enabled && c.Metrics.PublishInterval < 0 {
		return fmt.Errorf("metrics.publishInterval must not be negative")
	}
	if c.Metrics.DataDog.Enabled {
		if c.Metrics.DataDog.AgentHost == "" {
			return fmt.Errorf("metrics.datadog.agentHost is required when datadog is enabled")
		}
		if c.Metrics.DataDog.Port <= 0 || c.Metrics.DataDog.Port > 65535 {
			return fmt.Errorf("metrics.datadog.port must be between 1 and 65535")
		}
	}

	return nil
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

func parseInt(s string, defaultVal int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultVal
	}
	return v
}

func parseDuration(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)

	if d, err := time.ParseDuration(s); err == nil {
		return d
	}

	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultVal
}
