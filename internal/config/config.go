// Package config provides client configuration from command-line flags,
// environment variables, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config holds the client configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Service   ServiceConfig
	Typeahead TypeaheadConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	// Locale is the BCP 47 tag used for collation in sorted views.
	Locale string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServiceConfig holds the remote library service connection settings.
type ServiceConfig struct {
	// BaseURL is the service root, e.g. http://localhost:8080/api.
	BaseURL string
	// Timeout bounds each HTTP request.
	Timeout time.Duration
	// RequestsPerSecond caps outgoing calls; Burst allows short spikes
	// such as the parallel directory load.
	RequestsPerSecond float64
	Burst             int
}

// TypeaheadConfig holds selection-widget tuning.
type TypeaheadConfig struct {
	// MaxResults bounds how many entries a directory search returns.
	MaxResults int
}

// LoadConfig loads configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	locale := flag.String("locale", "", "Locale for sorted views (e.g. pt-BR)")
	baseURL := flag.String("api-url", "", "Library service base URL")
	timeout := flag.String("api-timeout", "", "HTTP request timeout (default: 30s)")
	maxResults := flag.String("typeahead-limit", "", "Max typeahead results (default: 8)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
			Locale:      getConfigValue(*locale, "LOCALE", "pt-BR"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			BaseURL:           getConfigValue(*baseURL, "API_BASE_URL", "http://localhost:8080/api"),
			RequestsPerSecond: getFloatConfigValue("", "API_REQUESTS_PER_SECOND", 10),
			Burst:             getIntConfigValue("", "API_BURST", 5),
		},
		Typeahead: TypeaheadConfig{
			MaxResults: getIntConfigValue(*maxResults, "TYPEAHEAD_LIMIT", 8),
		},
	}

	timeoutStr := getConfigValue(*timeout, "API_TIMEOUT", "30s")
	timeoutDuration, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid api timeout %q: %w", timeoutStr, err)
	}
	cfg.Service.Timeout = timeoutDuration

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base url: %q", c.Service.BaseURL)
	}

	if c.Typeahead.MaxResults <= 0 {
		return fmt.Errorf("typeahead limit must be positive, got %d", c.Typeahead.MaxResults)
	}

	if c.Service.RequestsPerSecond <= 0 || c.Service.Burst <= 0 {
		return errors.New("api rate settings must be positive")
	}

	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result float64
	if _, err := fmt.Sscanf(strValue, "%g", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		// Real env vars take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
