package kv

import (
	"crypto/tls"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/LavishGent/kvfacade/internal/config"
)

// NewClient builds a go-redis client from cfg. A comma-separated Address
// yields a cluster client; a single address yields a plain client.
func NewClient(cfg config.RedisConfig, logger *slog.Logger) redis.UniversalClient {
	if logger == nil {
		logger = slog.Default()
	}

	opts := &redis.UniversalOptions{
		Addrs:        splitAddrs(cfg.Address),
		Username:     cfg.Username,
		Password:     cfg.Password.Value(),
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
	}

	if cfg.EnableTLS {
		opts.TLSConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: cfg.TLSSkipVerify, //nolint:gosec // opt-in via config
		}
		if cfg.TLSSkipVerify {
			logger.Warn("TLS certificate verification is disabled - this is insecure for production use")
		}
	}

	return redis.NewUniversalClient(opts)
}

func splitAddrs(address string) []string {
	parts := strings.Split(address, ",")
	addrs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			addrs = append(addrs, p)
		}
	}
	return addrs
}
