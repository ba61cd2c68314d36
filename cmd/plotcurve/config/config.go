// Package config implements the plotcurve CLI config.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// Config holds all plotcurve configuration.
type Config struct {
	ForecasterURL string
	Area          string
	Output        string
	Timeout       time.Duration
	LogFormat     string
	LogLevel      string
}

// ParseFlags parses command-line flags and environment variables into a
// Config. Exits with status 1 if the required flag (area) is missing.
func ParseFlags() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.ForecasterURL, "forecaster-url", getEnv("FORECASTER_URL", "http://localhost:8081"), "Forecaster base URL")
	flag.StringVar(&cfg.Area, "area", getEnv("AREA", ""), "Area to plot (required)")
	flag.StringVar(&cfg.Output, "output", getEnv("OUTPUT", ""), "Save plot to file instead of opening a window")
	flag.DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "Request timeout")
	flag.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "text"), "Log format: text or json")
	flag.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")

	flag.Parse()

	if cfg.Area == "" {
		fmt.Fprintln(os.Stderr, "Error: --area is required")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
