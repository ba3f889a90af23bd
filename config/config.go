package config

import (
	"os"
	"strconv"
	"time"
)

// AutomationConfig bounds every submission run started by this process.
type AutomationConfig struct {
	Headless    bool
	NavTimeout  time.Duration
	MaxSteps    int
	Screenshots bool
}

type AppConfig struct {
	Port          string
	Environment   string
	DatabaseURL   string
	JWTSecret     string
	APIKeyHash    string
	MaxConcurrent int
	Automation    AutomationConfig
}

// GetAppConfig reads configuration from the environment with defaults
// suitable for local development. AUTH is enabled only when both JWT_SECRET
// and API_KEY_HASH are set.
func GetAppConfig() AppConfig {
	maxConcurrent, _ := strconv.Atoi(getEnv("MAX_CONCURRENT_SESSIONS", "2"))
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	return AppConfig{
		Port:          getEnv("PORT", "8081"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		APIKeyHash:    getEnv("API_KEY_HASH", ""),
		MaxConcurrent: maxConcurrent,
		Automation:    GetAutomationConfig(),
	}
}

func GetAutomationConfig() AutomationConfig {
	timeoutSec, _ := strconv.Atoi(getEnv("NAV_TIMEOUT_SECONDS", "30"))
	maxSteps, _ := strconv.Atoi(getEnv("MAX_FORM_STEPS", "5"))

	return AutomationConfig{
		Headless:    getEnv("BROWSER_HEADLESS", "true") != "false",
		NavTimeout:  time.Duration(timeoutSec) * time.Second,
		MaxSteps:    maxSteps,
		Screenshots: getEnv("CONFIRMATION_SCREENSHOTS", "true") != "false",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
