// Package config loads typed configuration structs from environment
// variables, optionally seeded from a .env file. Each config type is
// parsed once per process and cached.
package config
