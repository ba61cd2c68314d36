// Package config implements the epicurve forecaster config.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all forecaster configuration.
type Config struct {
	Listen string

	// Dataset selection
	Group   string
	Kind    string
	Areas   []string
	DataURL string
	DataDir string

	// Fit window and horizon
	StartDate    string
	SmoothWindow int
	NPred        int
	Model        string

	// Optimizer tolerances
	Ftol    float64
	Xtol    float64
	MaxNfev int

	// Timing
	Interval time.Duration

	// Storage
	Storage       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	// Logging
	LogFormat string
	LogLevel  string
}

// ParseFlags parses command-line flags and environment variables into a
// Config. Exits with status 1 if required flags (areas) are missing or the
// group/kind pair is invalid. Environment variables are used as fallbacks
// when flags are not provided.
func ParseFlags() *Config {
	cfg := &Config{}
	var areas string

	// Server
	flag.StringVar(&cfg.Listen, "listen", getEnv("LISTEN", ":8081"), "HTTP listen address")

	// Dataset
	flag.StringVar(&cfg.Group, "group", getEnv("GROUP", "world"), "Dataset group: world or usa")
	flag.StringVar(&cfg.Kind, "kind", getEnv("KIND", "cases"), "Dataset kind: cases or deaths")
	flag.StringVar(&areas, "areas", getEnv("AREAS", ""), "Comma-separated areas to forecast (required)")
	flag.StringVar(&cfg.DataURL, "data-url", getEnv("DATA_URL", ""), "Override dataset URL template (testing)")
	flag.StringVar(&cfg.DataDir, "data-dir", getEnv("DATA_DIR", ""), "Read dataset from local directory instead of downloading")

	// Fit parameters
	flag.StringVar(&cfg.StartDate, "start-date", getEnv("START_DATE", ""), "Training window start (YYYY-MM-DD, default: series start)")
	flag.IntVar(&cfg.SmoothWindow, "smooth-window", getEnvInt("SMOOTH_WINDOW", 15), "LOWESS smoothing window in days")
	flag.IntVar(&cfg.NPred, "n-pred", getEnvInt("N_PRED", 30), "Forecast horizon in days")
	flag.StringVar(&cfg.Model, "model", getEnv("MODEL", "simple_exp"), "Curve: simple_exp, cont_exp, simple_decline, cont_decline")

	// Optimizer
	flag.Float64Var(&cfg.Ftol, "ftol", getEnvFloat("FTOL", 0), "Objective tolerance (0 = default)")
	flag.Float64Var(&cfg.Xtol, "xtol", getEnvFloat("XTOL", 0), "Parameter tolerance (0 = default)")
	flag.IntVar(&cfg.MaxNfev, "max-nfev", getEnvInt("MAX_NFEV", 0), "Max optimizer iterations (0 = default)")

	// Timing
	flag.DurationVar(&cfg.Interval, "interval", getEnvDuration("INTERVAL", 6*time.Hour), "Refit interval")

	// Storage
	flag.StringVar(&cfg.Storage, "storage", getEnv("STORAGE", "memory"), "Snapshot storage: memory or redis")
	flag.StringVar(&cfg.RedisAddr, "redis-addr", getEnv("REDIS_ADDR", "localhost:6379"), "Redis address")
	flag.StringVar(&cfg.RedisPassword, "redis-password", getEnv("REDIS_PASSWORD", ""), "Redis password")
	flag.IntVar(&cfg.RedisDB, "redis-db", getEnvInt("REDIS_DB", 0), "Redis database")
	flag.DurationVar(&cfg.RedisTTL, "redis-ttl", getEnvDuration("REDIS_TTL", 0), "Snapshot TTL in Redis (0 = keep)")

	// Logging
	flag.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "text"), "Log format: text or json")
	flag.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")

	flag.Parse()

	if areas == "" {
		fmt.Fprintln(os.Stderr, "Error: --areas is required")
		os.Exit(1)
	}
	for _, a := range strings.Split(areas, ",") {
		if a = strings.TrimSpace(a); a != "" {
			cfg.Areas = append(cfg.Areas, a)
		}
	}
	if cfg.Group != "world" && cfg.Group != "usa" {
		fmt.Fprintf(os.Stderr, "Error: invalid --group %q\n", cfg.Group)
		os.Exit(1)
	}
	if cfg.Kind != "cases" && cfg.Kind != "deaths" {
		fmt.Fprintf(os.Stderr, "Error: invalid --kind %q\n", cfg.Kind)
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

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%f", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
