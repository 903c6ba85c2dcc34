// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Parsing is driven by `env:` struct tags (see github.com/caarlos0/env):
//
//	type PgConfig struct {
//		ConnString string `env:"DATABASE_URL,required"`
//	}
//
// Each distinct config type is parsed exactly once per process and cached,
// so packages can call Load independently without re-reading the
// environment or racing on the .env file.
package config
