// Package config reads the service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Graph   GraphConfig
	Logging LoggingConfig
}

// HTTPConfig governs the API listener.
type HTTPConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Metrics         MetricsConfig
	CORS            CORSConfig
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// CORSConfig lists the browser origins allowed to call the API. Credentials
// are never allowed together with the "*" wildcard.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

// AllowsAnyOrigin reports whether the wildcard origin is configured.
func (c CORSConfig) AllowsAnyOrigin() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

// GraphConfig describes connectivity to the graph database holding the network.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
)

// Load reads configuration from environment variables, applying defaults.
// Every malformed variable is reported, not only the first one.
func Load() (Config, error) {
	env := &envReader{}

	cfg := Config{
		HTTP: HTTPConfig{
			Host:            env.str("SERVER_HOST", defaultHost),
			Port:            env.port("SERVER_PORT", env.port("PORT", defaultPort)),
			ReadTimeout:     env.duration("SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    env.duration("SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     env.duration("SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: env.duration("SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
			Metrics: MetricsConfig{
				Enabled: env.boolean("SERVER_METRICS_ENABLED", false),
			},
			CORS: CORSConfig{
				AllowedOrigins:   SplitList(os.Getenv("SERVER_ALLOWED_ORIGINS")),
				AllowCredentials: env.boolean("SERVER_ALLOW_CREDENTIALS", false),
			},
		},
		Graph: GraphConfig{
			URI:            os.Getenv("GRAPH_URI"),
			Database:       os.Getenv("GRAPH_DATABASE"),
			Username:       os.Getenv("GRAPH_USERNAME"),
			Password:       os.Getenv("GRAPH_PASSWORD"),
			MaxConnections: env.integer("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions),
		},
		Logging: LoggingConfig{
			Level:         env.str("LOG_LEVEL", defaultLoggingLevel),
			Format:        env.str("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: env.boolean("LOG_INCLUDE_CALLER", false),
		},
	}

	if cfg.HTTP.CORS.AllowCredentials && cfg.HTTP.CORS.AllowsAnyOrigin() {
		env.fail(errors.New("SERVER_ALLOW_CREDENTIALS cannot be combined with SERVER_ALLOWED_ORIGINS=*"))
	}
	if cfg.Graph.MaxConnections <= 0 {
		env.fail(fmt.Errorf("GRAPH_MAX_CONNECTIONS must be positive, got %d", cfg.Graph.MaxConnections))
	}

	if err := errors.Join(env.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SplitList parses a comma separated list, dropping blank entries.
func SplitList(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// envReader looks variables up and collects parse failures so Load can
// report them together.
type envReader struct {
	errs []error
}

func (e *envReader) fail(err error) {
	e.errs = append(e.errs, err)
}

func (e *envReader) str(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (e *envReader) boolean(key string, fallback bool) bool {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(fmt.Errorf("invalid %s value %q: %w", key, v, err))
		return fallback
	}
	return b
}

func (e *envReader) integer(key string, fallback int) int {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(fmt.Errorf("invalid %s value %q: %w", key, v, err))
		return fallback
	}
	return n
}

func (e *envReader) duration(key string, fallback time.Duration) time.Duration {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return d
}

func (e *envReader) port(key string, fallback int) int {
	if e.str(key, "") == "" {
		return fallback
	}
	p := e.integer(key, fallback)
	if p <= 0 || p > 65535 {
		e.fail(fmt.Errorf("%s %d is out of range", key, p))
		return fallback
	}
	return p
}
