package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Report modes. Split produces the PRUNED and ALL files; Combined is the
// legacy behavior of a single file holding only the pruned rows.
const (
	ReportModeSplit    = "split"
	ReportModeCombined = "combined"
)

// DefaultMaxCount is the privacy cap applied when the command gives none.
const DefaultMaxCount = 50

// Config holds the application configuration.
type Config struct {
	AppEnv          string
	Debug           bool
	Version         string
	SlackBotToken   string
	SlackAppToken   string
	SentryDSN       string
	MongoDBURI      string
	MongoDBDatabase string
	DefaultMaxCount int
	ReportMode      string
	DefaultLanguage string
}

// LoadConfig loads configuration from environment variables.
// It attempts to load a .env file if present but prioritizes
// actual environment variables set in the system (e.g., by Docker).
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	debug, _ := strconv.ParseBool(getEnv("DEBUG", "false"))

	maxCountStr := getEnv("DEFAULT_MAX_COUNT", strconv.Itoa(DefaultMaxCount))
	maxCount, err := strconv.Atoi(maxCountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_MAX_COUNT: %w", err)
	}
	if maxCount < 0 {
		return nil, fmt.Errorf("DEFAULT_MAX_COUNT must be >= 0, got %d", maxCount)
	}

	reportMode := getEnv("REPORT_MODE", ReportModeSplit)
	if reportMode != ReportModeSplit && reportMode != ReportModeCombined {
		return nil, fmt.Errorf("invalid REPORT_MODE %q (want %q or %q)", reportMode, ReportModeSplit, ReportModeCombined)
	}

	cfg := &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		Debug:           debug,
		Version:         getEnv("VERSION", "dev"),
		SlackBotToken:   getEnv("SLACK_BOT_TOKEN", ""),
		SlackAppToken:   getEnv("SLACK_APP_TOKEN", ""),
		SentryDSN:       getEnv("SENTRY_DSN", ""),
		MongoDBURI:      getEnv("MONGODB_URI", ""),
		MongoDBDatabase: getEnv("MONGODB_DATABASE", ""),
		DefaultMaxCount: maxCount,
		ReportMode:      reportMode,
		DefaultLanguage: getEnv("BOT_LANG", "en"),
	}

	// Basic validation for essential variables
	if cfg.SlackBotToken == "" {
		return nil, fmt.Errorf("SLACK_BOT_TOKEN is required")
	}
	if cfg.SlackAppToken == "" {
		return nil, fmt.Errorf("SLACK_APP_TOKEN is required (socket mode)")
	}
	if cfg.SentryDSN == "" {
		log.Println("Warning: SENTRY_DSN is not set. Error tracking disabled.")
	}
	if cfg.MongoDBURI == "" {
		log.Println("Warning: MONGODB_URI is not set. Scan audit logging disabled.")
	} else if cfg.MongoDBDatabase == "" {
		return nil, fmt.Errorf("MONGODB_DATABASE is required when MONGODB_URI is set")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
