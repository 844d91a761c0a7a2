package config

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var loadDotEnv sync.Once

// Load populates the configuration struct from environment variables
// according to its `env` field tags. The default .env file is loaded once
// per process before the first parse; a missing file is not an error.
//
// Example:
//
//	type Config struct {
//		Active     bool   `env:"MULTITENANCY_ACTIVE" envDefault:"true"`
//		SessionKey string `env:"MULTITENANCY_SESSION_KEY" envDefault:"tenant_id"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	loadDotEnv.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure. Use for configuration
// the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(err)
	}
}
