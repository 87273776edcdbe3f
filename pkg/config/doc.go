// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for parsing struct tags. Each configuration
// type is parsed once per process and cached by type, so infrastructure
// packages can call Load from constructors without re-reading the
// environment.
//
//	type Config struct {
//		URL string `env:"MONGODB_URL,required"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Errors wrap ErrParsingConfig, ErrLoadingEnvFile or ErrNilPointer and can
// be matched with errors.Is. Tests that change the environment between
// loads call ResetCache.
package config
