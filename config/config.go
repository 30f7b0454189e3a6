package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config enumerates every external knob the service reads. Raw duration and
// count values are kept as strings and parsed through the typed getters so a
// bad value degrades to a logged default instead of a startup failure.
type Config struct {
	ServerPort string
	LogLevel   string

	// Result store: empty DatabaseURL selects no-op mode.
	DatabaseURL string
	ResultTTL   string

	// Candidate-load catalog.
	LoadsFile string

	// FMCSA registry verification: empty webkey selects offline mode.
	FMCSAWebKey  string
	FMCSABaseURL string
	FMCSATimeout string
	FMCSARetries string
	FMCSABackoff string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		ResultTTL:    getEnv("RESULT_TTL", "24h"),
		LoadsFile:    getEnv("LOADS_FILE", "data/loads.json"),
		FMCSAWebKey:  getEnv("FMCSA_WEBKEY", ""),
		FMCSABaseURL: getEnv("FMCSA_BASE_URL", "https://mobile.fmcsa.dot.gov/qc/services"),
		FMCSATimeout: getEnv("FMCSA_TIMEOUT", "28s"),
		FMCSARetries: getEnv("FMCSA_MAX_RETRIES", "0"),
		FMCSABackoff: getEnv("FMCSA_BACKOFF", "750ms"),
	}
}

// GetResultTTL returns the result retention window from environment or default
func (c *Config) GetResultTTL() time.Duration {
	return parseDuration("RESULT_TTL", c.ResultTTL, 24*time.Hour)
}

// GetFMCSATimeout returns the per-attempt registry request timeout
func (c *Config) GetFMCSATimeout() time.Duration {
	return parseDuration("FMCSA_TIMEOUT", c.FMCSATimeout, 28*time.Second)
}

// GetFMCSABackoff returns the constant wait between retry attempts
func (c *Config) GetFMCSABackoff() time.Duration {
	return parseDuration("FMCSA_BACKOFF", c.FMCSABackoff, 750*time.Millisecond)
}

// GetFMCSAMaxRetries returns the maximum retry count for registry lookups
func (c *Config) GetFMCSAMaxRetries() int {
	if c.FMCSARetries == "" {
		return 0
	}
	n, err := strconv.Atoi(c.FMCSARetries)
	if err != nil || n < 0 {
		logrus.Warnf("Invalid FMCSA_MAX_RETRIES value: %s, using default 0", c.FMCSARetries)
		return 0
	}
	return n
}

func parseDuration(name, value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		logrus.Warnf("Invalid %s value: %s, using default %v", name, value, fallback)
		return fallback
	}
	return d
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
