// Package config loads server settings from the environment (LOG_LEVEL,
// MCP_TRANSPORT, PORT, JOKES_URL, JOKES_TIMEOUT) on top of fixed defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Transport names accepted by MCP_TRANSPORT.
const (
	TransportStdio     = "stdio"
	TransportWebSocket = "websocket"
)

// DefaultJokesURL is the upstream queried by the fetch-chuck-jokes tool.
const DefaultJokesURL = "https://api.chucknorris.io/jokes/random"

// Config holds the process settings. Zero values are never used directly;
// Load fills defaults.
type Config struct {
	LogLevel  string
	Transport string
	Port      int
	JokesURL  string
	// JokesTimeout bounds the outbound joke request. Zero means unbounded:
	// the request only ends when the upstream answers or the caller cancels.
	JokesTimeout time.Duration
}

// Default returns the configuration used when no environment is set.
func Default() Config {
	return Config{
		LogLevel:  "info",
		Transport: TransportStdio,
		Port:      9001,
		JokesURL:  DefaultJokesURL,
	}
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Default()
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := getenv("MCP_TRANSPORT"); v != "" {
		cfg.Transport = strings.ToLower(v)
	}
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("parse PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := getenv("JOKES_URL"); v != "" {
		cfg.JokesURL = v
	}
	if v := getenv("JOKES_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("parse JOKES_TIMEOUT %q: %w", v, err)
		}
		cfg.JokesTimeout = d
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportWebSocket:
	default:
		return fmt.Errorf("unknown transport %q (want %s or %s)", c.Transport, TransportStdio, TransportWebSocket)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.JokesURL == "" {
		return fmt.Errorf("jokes url is required")
	}
	if c.JokesTimeout < 0 {
		return fmt.Errorf("jokes timeout must not be negative, got %s", c.JokesTimeout)
	}
	return nil
}

// Addr is the listen address of the websocket surface.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
