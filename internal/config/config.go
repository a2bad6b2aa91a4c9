// Package config loads the server configuration from command-line flags,
// falling back to TELECHESS_* environment variables and then to defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	DefaultAddr         = ":3000"
	DefaultAllowOrigins = "http://localhost:5173"
	DefaultSessionTTL   = 2 * time.Hour
	DefaultLogLevel     = "info"
)

type Config struct {
	Addr         string
	AllowOrigins string
	SessionTTL   time.Duration
	LogLevel     string
}

// Load parses args (without the program name). lookup resolves environment
// variables; pass os.LookupEnv in production.
func Load(args []string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Config{
		Addr:         envString(lookup, "TELECHESS_ADDR", DefaultAddr),
		AllowOrigins: envString(lookup, "TELECHESS_ALLOW_ORIGINS", DefaultAllowOrigins),
		SessionTTL:   DefaultSessionTTL,
		LogLevel:     envString(lookup, "TELECHESS_LOG_LEVEL", DefaultLogLevel),
	}
	if v, ok := lookup("TELECHESS_SESSION_TTL"); ok && v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: TELECHESS_SESSION_TTL: %v", ErrInvalidConfig, err)
		}
		cfg.SessionTTL = ttl
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "address to listen on")
	fs.StringVar(&cfg.AllowOrigins, "allow-origins", cfg.AllowOrigins, "comma separated CORS origins")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "idle time after which a game is discarded")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "trace, debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, cfg.Validate()
}

// FromEnvironment loads the configuration for the running process.
func FromEnvironment() (Config, error) {
	return Load(os.Args[1:], os.LookupEnv)
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("%w: session ttl must be positive, got %s", ErrInvalidConfig, c.SessionTTL)
	}
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// Origins returns the configured CORS origins as a list.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func envString(lookup func(string) (string, bool), key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}
