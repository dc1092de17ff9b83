// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Sternrassler/attendee-beacon/pkg/client"
	"github.com/Sternrassler/attendee-beacon/pkg/logging"
	"github.com/Sternrassler/attendee-beacon/pkg/server"
)

// Environment variable names.
const (
	EnvToken       = "TOKEN"
	EnvAPIBaseURL  = "API_BASE_URL"
	EnvOrganizerID = "ORGANIZER_ID"
	EnvListenAddr  = "LISTEN_ADDR"
	EnvMetricsAddr = "METRICS_ADDR"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogPretty   = "LOG_PRETTY"
	EnvHTTPTimeout = "HTTP_TIMEOUT"
	EnvReadTimeout = "READ_TIMEOUT"
)

// DefaultOrganizerID is the organizer whose events are queried.
const DefaultOrganizerID = "1464915124"

// ErrMissingToken is returned when no API token is configured.
var ErrMissingToken = errors.New("token not set in env: " + EnvToken)

// Config is the complete process configuration.
type Config struct {
	Token       string
	APIBaseURL  string
	OrganizerID string

	ListenAddr  string
	ReadTimeout time.Duration

	// MetricsAddr enables the admin server when non-empty.
	MetricsAddr string

	LogLevel  string
	LogPretty bool

	// HTTPTimeout bounds outbound requests; 0 keeps the transport default.
	HTTPTimeout time.Duration
}

// FromEnv reads the configuration from the environment, applying defaults
// for unset variables. It does not validate; see Validate.
func FromEnv() (Config, error) {
	cfg := Config{
		Token:       os.Getenv(EnvToken),
		APIBaseURL:  getEnv(EnvAPIBaseURL, client.DefaultBaseURL),
		OrganizerID: getEnv(EnvOrganizerID, DefaultOrganizerID),
		ListenAddr:  getEnv(EnvListenAddr, server.DefaultAddress),
		MetricsAddr: os.Getenv(EnvMetricsAddr),
		LogLevel:    getEnv(EnvLogLevel, string(logging.LevelInfo)),
	}

	var err error
	if cfg.LogPretty, err = getBool(EnvLogPretty); err != nil {
		return Config{}, err
	}
	if cfg.HTTPTimeout, err = getDuration(EnvHTTPTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ReadTimeout, err = getDuration(EnvReadTimeout); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for missing or invalid values.
func (c Config) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if c.OrganizerID == "" {
		return fmt.Errorf("organizer id is required")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address is required")
	}
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.HTTPTimeout < 0 || c.ReadTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}

// ClientConfig returns the Eventbrite client configuration.
func (c Config) ClientConfig() client.Config {
	cfg := client.DefaultConfig(c.Token)
	cfg.BaseURL = c.APIBaseURL
	cfg.Timeout = c.HTTPTimeout
	return cfg
}

// ServerConfig returns the connection server configuration.
func (c Config) ServerConfig() server.Config {
	cfg := server.DefaultConfig()
	cfg.Address = c.ListenAddr
	cfg.ReadTimeout = c.ReadTimeout
	return cfg
}

// LoggingConfig returns the logger configuration.
func (c Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.LogLevel)
	cfg.Pretty = c.LogPretty
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
