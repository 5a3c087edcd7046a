// Package config provides configuration management for kvfacade.
package config

import (
	"time"

	"github.com/LavishGent/kvfacade/internal/types"
)

// SecretString is a string type that redacts its value when marshaled to JSON.
type SecretString = types.SecretString

// NewSecretString creates a new SecretString with the provided value.
func NewSecretString(value string) SecretString {
	return types.NewSecretString(value)
}

// Config contains all configuration for the key-value facade.
//
//nolint:govet // Configuration struct - logical grouping prioritized over alignment
type Config struct {
	Redis         RedisConfig         `json:"redis"`
	Codec         CodecConfig         `json:"codec"`
	Metrics       MetricsConfig       `json:"metrics"`
	KeyValidation KeyValidationConfig `json:"keyValidation"`
}

// KeyValidationConfig contains configuration for key validation.
type KeyValidationConfig struct {
	ReservedPatterns  []string `json:"reservedPatterns"`
	MaxKeyLength      int      `json:"maxKeyLength"`
	Enabled           bool     `json:"enabled"`
	AllowEmpty        bool     `json:"allowEmpty"`
	AllowControlChars bool     `json:"allowControlChars"`
	AllowWhitespace   bool     `json:"allowWhitespace"`
}

// ToTypesConfig converts this config to a types.KeyValidationConfig.
func (c KeyValidationConfig) ToTypesConfig() types.KeyValidationConfig {
	return types.KeyValidationConfig{
		MaxKeyLength:      c.MaxKeyLength,
		AllowEmpty:        c.AllowEmpty,
		AllowControlChars: c.AllowControlChars,
		AllowWhitespace:   c.AllowWhitespace,
		ReservedPatterns:  c.ReservedPatterns,
	}
}

// RedisConfig contains the connection settings handed to go-redis.
//
//nolint:govet // Configuration struct - logical grouping prioritized over alignment
type RedisConfig struct {
	DialTimeout  time.Duration `json:"dialTimeout"`
	ReadTimeout  time.Duration `json:"readTimeout"`
	WriteTimeout time.Duration `json:"writeTimeout"`
	PoolTimeout  time.Duration `json:"poolTimeout"`
	Password     SecretString  `json:"password"`
	Address      string        `json:"address"`
	Username     string        `json:"username"`
	KeyPrefix    string        `json:"keyPrefix"`
	DB           int           `json:"db"`
	PoolSize     int           `json:"poolSize"`
	MinIdleConns int           `json:"minIdleConns"`
	// MaxRetries is passed to go-redis unchanged; 0 keeps the client default
	// and -1 disables retries.
	MaxRetries    int  `json:"maxRetries"`
	ScanBatchSize int  `json:"scanBatchSize"`
	EnableTLS     bool `json:"enableTLS"`
	TLSSkipVerify bool `json:"tlsSkipVerify"`
	// AtomicComposites runs two-command composites inside MULTI/EXEC.
	AtomicComposites bool `json:"atomicComposites"`
}

// CodecConfig selects the structured codec for non-scalar values.
type CodecConfig struct {
	// Structured is "json" (default) or "msgpack".
	Structured string `json:"structured"`
}

// MetricsConfig contains configuration for metrics publishing.
//
//nolint:govet // Small config struct - minimal alignment benefit
type MetricsConfig struct {
	PublishInterval time.Duration `json:"publishInterval"`
	DataDog         DataDogConfig `json:"datadog"`
	Enabled         bool          `json:"enabled"`
}

// DataDogConfig contains configuration for DataDog metrics publishing.
//
//nolint:govet // Small config struct - minimal alignment benefit
type DataDogConfig struct {
	Tags      []string `json:"tags"`
	AgentHost string   `json:"agentHost"`
	Prefix    string   `json:"prefix"`
	Port      int      `json:"port"`
	Enabled   bool     `json:"enabled"`
}
