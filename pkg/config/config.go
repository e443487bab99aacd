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

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Data directories
	DataDir string // results, dashboards and chain cache live under here

	// Screening
	Screener ScreenerConfig

	// Acquisition
	Yahoo YahooConfig

	// Alerts
	Alert AlertConfig

	// Scheduling
	ScheduleSpec string // cron expression for scheduled screening runs

	// Logging
	LogLevel  string
	LogFormat string
}

// ScreenerConfig holds screening parameters.
type ScreenerConfig struct {
	Symbols []string

	// Expiration window
	MinDTE int
	MaxDTE int

	// Acceptance filter
	MinCredit       float64
	MaxLoss         float64
	MinReturnOnRisk float64
	MaxReturnOnRisk float64
	MinDistancePct  float64
	MinOpenInterest int

	// Short-leg selection
	DeltaLow  float64
	DeltaHigh float64

	// Candidate widths, in priority order
	SpreadWidths []float64

	// Quality-score weights
	WeightROR          float64
	WeightPOP          float64
	WeightDistance     float64
	WeightOpenInterest float64

	// Skip symbols with earnings within N days (0 = disabled)
	EarningsBufferDays int

	// Concurrent symbol workers
	Workers int

	// Alert gating
	AlertThresholdROR float64
}

// YahooConfig holds Yahoo Finance acquisition configuration.
type YahooConfig struct {
	BaseURL      string
	QuoteURL     string
	CalendarURL  string
	RatePerSec   float64 // request rate limit
	MaxRetries   int
	CacheTTL     time.Duration // chain snapshot cache expiry
	RiskFreeRate float64       // used by the Black-Scholes delta fallback
}

// AlertConfig holds Slack alert configuration.
type AlertConfig struct {
	SlackWebhookURL string
	Enabled         bool
}

// SlackConfigured reports whether Slack alerts can actually be sent.
func (a AlertConfig) SlackConfigured() bool {
	return a.SlackWebhookURL != ""
}

// defaultSymbols is the default watchlist of liquid, heavily optioned tickers.
var defaultSymbols = []string{
	"SPY", "QQQ", "IWM", "DIA",
	"AAPL", "MSFT", "GOOGL", "AMZN", "META", "NVDA", "TSLA",
	"AMD", "INTC", "MU",
	"JPM", "BAC", "GS",
	"XOM", "WMT", "DIS",
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port:    getEnv("PORT", "8087"),
		Env:     getEnv("ENV", "development"),
		DataDir: getEnv("DATA_DIR", "data"),

		Screener: ScreenerConfig{
			Symbols: getEnvAsList("SCREENER_SYMBOLS", defaultSymbols),
			MinDTE:  getEnvAsInt("SCREENER_MIN_DTE", 30),
			MaxDTE:  getEnvAsInt("SCREENER_MAX_DTE", 45),

			MinCredit:       getEnvAsFloat("SCREENER_MIN_CREDIT", 0.20),
			MaxLoss:         getEnvAsFloat("SCREENER_MAX_LOSS", 500),
			MinReturnOnRisk: getEnvAsFloat("SCREENER_MIN_ROR", 20),
			MaxReturnOnRisk: getEnvAsFloat("SCREENER_MAX_ROR", 100),
			MinDistancePct:  getEnvAsFloat("SCREENER_MIN_DISTANCE_PCT", 2.0),
			MinOpenInterest: getEnvAsInt("SCREENER_MIN_OI", 50),

			DeltaLow:  getEnvAsFloat("SCREENER_DELTA_LOW", 0.20),
			DeltaHigh: getEnvAsFloat("SCREENER_DELTA_HIGH", 0.35),

			SpreadWidths: getEnvAsFloatList("SCREENER_SPREAD_WIDTHS", []float64{1, 2, 5}),

			WeightROR:          getEnvAsFloat("SCREENER_WEIGHT_ROR", 0.35),
			WeightPOP:          getEnvAsFloat("SCREENER_WEIGHT_POP", 0.25),
			WeightDistance:     getEnvAsFloat("SCREENER_WEIGHT_DISTANCE", 0.25),
			WeightOpenInterest: getEnvAsFloat("SCREENER_WEIGHT_OI", 0.15),

			EarningsBufferDays: getEnvAsInt("SCREENER_EARNINGS_BUFFER", 0),
			Workers:            getEnvAsInt("SCREENER_WORKERS", 5),
			AlertThresholdROR:  getEnvAsFloat("SCREENER_ALERT_THRESHOLD", 30),
		},

		Yahoo: YahooConfig{
			BaseURL:      getEnv("YAHOO_BASE_URL", "https://query2.finance.yahoo.com/v7/finance/options"),
			QuoteURL:     getEnv("YAHOO_QUOTE_URL", "https://query2.finance.yahoo.com/v8/finance/chart"),
			CalendarURL:  getEnv("YAHOO_CALENDAR_URL", "https://finance.yahoo.com/calendar/earnings"),
			RatePerSec:   getEnvAsFloat("YAHOO_RATE_PER_SEC", 2.0),
			MaxRetries:   getEnvAsInt("YAHOO_MAX_RETRIES", 3),
			CacheTTL:     getEnvAsDuration("YAHOO_CACHE_TTL", "5m"),
			RiskFreeRate: getEnvAsFloat("RISK_FREE_RATE", 0.045),
		},

		Alert: AlertConfig{
			SlackWebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),
			Enabled:         getEnvAsBool("ENABLE_SLACK_ALERTS", false),
		},

		ScheduleSpec: getEnv("SCREENER_SCHEDULE", "0 30 9 * * MON-FRI"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks configuration invariants the rest of the system relies on.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	s := c.Screener
	if len(s.Symbols) == 0 {
		return fmt.Errorf("SCREENER_SYMBOLS must not be empty")
	}
	if s.MinDTE < 0 || s.MaxDTE < s.MinDTE {
		return fmt.Errorf("DTE window invalid: min=%d max=%d", s.MinDTE, s.MaxDTE)
	}
	if !(0 < s.DeltaLow && s.DeltaLow < s.DeltaHigh && s.DeltaHigh < 1) {
		return fmt.Errorf("delta band must satisfy 0 < low < high < 1, got [%.2f, %.2f]", s.DeltaLow, s.DeltaHigh)
	}
	if s.MinReturnOnRisk > s.MaxReturnOnRisk {
		return fmt.Errorf("ROR band invalid: min=%.1f max=%.1f", s.MinReturnOnRisk, s.MaxReturnOnRisk)
	}
	if len(s.SpreadWidths) == 0 {
		return fmt.Errorf("SCREENER_SPREAD_WIDTHS must not be empty")
	}
	for _, w := range s.SpreadWidths {
		if w <= 0 {
			return fmt.Errorf("spread widths must be positive, got %.2f", w)
		}
	}
	if s.Workers < 1 {
		return fmt.Errorf("SCREENER_WORKERS must be at least 1")
	}
	if s.WeightROR < 0 || s.WeightPOP < 0 || s.WeightDistance < 0 || s.WeightOpenInterest < 0 {
		return fmt.Errorf("quality-score weights must be non-negative")
	}

	return nil
}

// ResultsDir returns the directory for CSV/Excel results.
func (c *Config) ResultsDir() string { return filepath.Join(c.DataDir, "results") }

// DashboardsDir returns the directory for HTML dashboards.
func (c *Config) DashboardsDir() string { return filepath.Join(c.DataDir, "dashboards") }

// CacheDir returns the directory for cached chain snapshots.
func (c *Config) CacheDir() string { return filepath.Join(c.DataDir, "cache") }

// EnsureDirs creates the data directories if they do not exist.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.ResultsDir(), c.DashboardsDir(), c.CacheDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{".env"}

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

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
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
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList parses a comma-separated env var, uppercasing each entry.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			values = append(values, p)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}

func getEnvAsFloatList(key string, defaultValue []float64) []float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
