// Package config loads runtime configuration from command-line flags and
// environment variables, with flag values taking precedence.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// Config holds the application configuration.
type Config struct {
	Environment string
	LogLevel    string
	Port        string
	DBPath      string
	TemplateDir string
	SessionTTL  time.Duration
}

// Load builds the configuration with precedence:
// 1. Command-line flags.
// 2. Environment variables.
// 3. Default values.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("blog", flag.ContinueOnError)
	env := fs.String("env", "", "Environment (development, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	port := fs.String("port", "", "HTTP listen port (default: 8080)")
	dbPath := fs.String("db-path", "", "Path to the SQLite database file")
	templateDir := fs.String("template-dir", "", "Directory containing HTML templates")
	sessionTTL := fs.String("session-ttl", "", "Session lifetime (e.g. 24h)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: value(*env, "ENV", "development"),
		LogLevel:    value(*logLevel, "LOG_LEVEL", "info"),
		Port:        value(*port, "PORT", "8080"),
		DBPath:      value(*dbPath, "DB_PATH", "blog.db"),
		TemplateDir: value(*templateDir, "TEMPLATE_DIR", "web/templates"),
	}

	ttlStr := value(*sessionTTL, "SESSION_TTL", "24h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid session ttl %q: %w", ttlStr, err)
	}
	cfg.SessionTTL = ttl

	return cfg, nil
}

// value returns the flag value if set, then the environment variable,
// then the default.
func value(flagVal, envKey, def string) string {
	if flagVal != "" {
		return flagVal
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return def
}
