// Package config loads env-tagged configuration structs from environment
// variables, with optional .env file support for local development.
//
// It is a thin wrapper over github.com/caarlos0/env and
// github.com/joho/godotenv: Load parses the environment into any struct
// carrying `env` tags, and MustLoad panics on failure for configuration
// the process cannot run without.
package config
