package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the parity harness.
// All environment variables are read here and nowhere else.
type Config struct {
	Env string // development, staging, production

	// Snapshot sources
	Candidate CandidateConfig
	Yahoo     YahooConfig

	// Comparison run
	Run RunConfig

	// Report outputs
	Output OutputConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// CandidateConfig holds configuration for the candidate snapshot producer,
// an external process that prints one snapshot JSON object to stdout.
type CandidateConfig struct {
	Bin     string        // executable to invoke
	Args    []string      // leading args before the snapshot subcommand
	Timeout time.Duration // per-symbol invocation timeout
}

// YahooConfig holds configuration for the Yahoo Finance reference provider.
type YahooConfig struct {
	QuoteBaseURL      string
	ChartBaseURL      string
	CalendarBaseURL   string
	TimeseriesBaseURL string
	RequestsPerSec    float64
	Timeout           time.Duration
}

// RunConfig holds the per-run comparison parameters.
type RunConfig struct {
	Symbols       []string
	Period        string
	Interval      string
	HistoryLimit  int
	EarningsLimit int
	IncomeLimit   int
	IncomeFreq    string // yearly | quarterly
	Workers       int
}

// OutputConfig holds report output paths.
type OutputConfig struct {
	JSONPath string
	MDPath   string
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		Candidate: CandidateConfig{
			Bin:     getEnv("CANDIDATE_BIN", "yfsnapshot"),
			Args:    splitList(getEnv("CANDIDATE_ARGS", "")),
			Timeout: getEnvAsDuration("CANDIDATE_TIMEOUT", "120s"),
		},

		Yahoo: YahooConfig{
			QuoteBaseURL:      getEnv("YAHOO_QUOTE_BASE_URL", "https://query1.finance.yahoo.com/v7/finance/quote"),
			ChartBaseURL:      getEnv("YAHOO_CHART_BASE_URL", "https://query1.finance.yahoo.com/v8/finance/chart"),
			CalendarBaseURL:   getEnv("YAHOO_CALENDAR_BASE_URL", "https://finance.yahoo.com/calendar/earnings"),
			TimeseriesBaseURL: getEnv("YAHOO_TIMESERIES_BASE_URL", "https://query1.finance.yahoo.com/ws/fundamentals-timeseries/v1/finance/timeseries"),
			RequestsPerSec:    getEnvAsFloat("YAHOO_REQUESTS_PER_SEC", 4.0),
			Timeout:           getEnvAsDuration("YAHOO_TIMEOUT", "30s"),
		},

		Run: RunConfig{
			Symbols:       splitList(getEnv("PARITY_SYMBOLS", "AAPL,MSFT,NVDA,TSLA,VOO,BTC-USD")),
			Period:        getEnv("PARITY_PERIOD", "1mo"),
			Interval:      getEnv("PARITY_INTERVAL", "1d"),
			HistoryLimit:  getEnvAsInt("PARITY_HISTORY_LIMIT", 30),
			EarningsLimit: getEnvAsInt("PARITY_EARNINGS_LIMIT", 4),
			IncomeLimit:   getEnvAsInt("PARITY_INCOME_LIMIT", 4),
			IncomeFreq:    getEnv("PARITY_INCOME_FREQ", "yearly"),
			Workers:       getEnvAsInt("PARITY_WORKERS", 3),
		},

		Output: OutputConfig{
			JSONPath: getEnv("PARITY_OUTPUT_JSON", "artifacts/parity_report.json"),
			MDPath:   getEnv("PARITY_OUTPUT_MD", "artifacts/parity_report.md"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks configuration values and clamps the ones the run
// tolerates out of range.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Run.IncomeFreq != "yearly" && c.Run.IncomeFreq != "quarterly" {
		return fmt.Errorf("PARITY_INCOME_FREQ must be yearly or quarterly")
	}

	if c.Run.Workers < 1 {
		c.Run.Workers = 1
	}

	// Floor the candidate timeout so a misconfigured value cannot starve
	// the producer process.
	if c.Candidate.Timeout < 20*time.Second {
		c.Candidate.Timeout = 20 * time.Second
	}

	if c.Run.HistoryLimit < 1 {
		c.Run.HistoryLimit = 1
	}
	if c.Run.EarningsLimit < 1 {
		c.Run.EarningsLimit = 1
	}
	if c.Run.IncomeLimit < 1 {
		c.Run.IncomeLimit = 1
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
