package config

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"querydesk/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

// Config holds application configuration values
type Config struct {
	APIBaseURL     string        // base URL of the assistant backend
	RequestTimeout time.Duration // per-request timeout for backend calls
	PromptDbDir    string        // directory for the local prompt history db
	PromptDbFile   string        // file name of the prompt history db
	StubPort       string        // listen port for the local stub backend
}

// LoadConfig loads configuration from environment variables.
// It uses a .env file for local development if present (ignores it for production).
func LoadConfig() (*Config, error) {
	// Attempt to load .env file if in development environment (skip in production)
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			customLog.Warnf("Warning: Error loading .env file: %v", err)
		}
	}

	// Read values from environment variables, providing defaults where appropriate
	baseURL := getEnv("API_BASE_URL", "http://localhost:5000")
	timeoutStr := getEnv("REQUEST_TIMEOUT_SECONDS", "30")
	promptDir := getEnv("PROMPT_DB_DIR", "data")
	promptFile := getEnv("PROMPT_DB_FILE", "prompts.db")
	stubPort := getEnv("STUB_PORT", "5000")

	// --- Validation and Parsing ---
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, errors.New("API_BASE_URL is not a valid URL: " + baseURL)
	}

	timeoutSecs, err := strconv.Atoi(timeoutStr)
	if err != nil || timeoutSecs <= 0 {
		customLog.Warnf("Invalid REQUEST_TIMEOUT_SECONDS '%s'. Using default 30s. Error: %v", timeoutStr, err)
		timeoutSecs = 30
	}

	cfg := &Config{
		APIBaseURL:     baseURL,
		RequestTimeout: time.Second * time.Duration(timeoutSecs),
		PromptDbDir:    promptDir,
		PromptDbFile:   promptFile,
		StubPort:       stubPort,
	}

	customLog.Printf("Configuration loaded. Backend: %s, timeout: %v", cfg.APIBaseURL, cfg.RequestTimeout)
	return cfg, nil
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
