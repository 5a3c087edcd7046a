package kvfacade

import (
	"github.com/redis/go-redis/v9"

	"github.com/LavishGent/kvfacade/internal/config"
	"github.com/LavishGent/kvfacade/internal/kv"
)

type (
	// Facade is the concrete store returned by the constructors.
	Facade = kv.Facade
	// Configuration is the full facade configuration.
	Configuration = config.Config
)

var _ Store = (*Facade)(nil)

// New creates a facade with default configuration.
func New(opts ...FacadeOption) (*Facade, error) {
	return NewFromConfig(config.DefaultConfig(), opts...)
}

// NewFromConfig creates a facade from configuration.
func NewFromConfig(cfg *Configuration, opts ...FacadeOption) (*Facade, error) {
	facadeOpts := &kv.Options{}
	for _, opt := range opts {
		if opt != nil {
			opt(facadeOpts)
		}
	}
	return kv.New(cfg, facadeOpts)
}

// NewFromFile creates a facade from a JSON config file with environment overrides.
func NewFromFile(path string, opts ...FacadeOption) (*Facade, error) {
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg, opts...)
}

// NewWithClient wraps an existing client. A nil cfg means TestConfig.
func NewWithClient(client redis.UniversalClient, cfg *Configuration, opts ...FacadeOption) (*Facade, error) {
	if cfg == nil {
		cfg = config.ForTesting()
	}
	return NewFromConfig(cfg, append([]FacadeOption{WithClient(client)}, opts...)...)
}

// Config returns a default configuration that can be modified before creating a facade.
func Config() *Configuration {
	return config.DefaultConfig()
}

// TestConfig returns a configuration suitable for unit tests.
func TestConfig() *Configuration {
	return config.ForTesting()
}
