package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	GeminiAPIKey  string
	TelegramToken string

	LogLevel string
	Debug    bool

	PreferIPv4 bool

	WebAddr     string
	HistoryPath string
	MaxHistory  int

	MaxConcurrent     int
	MaxParallelImages int
	RequestTimeout    time.Duration
	HTTPTimeout       time.Duration
	GeminiBaseURL     string
	GeminiAPIVersion  string
}

func Load() (Config, error) {
	cfg := Config{
		LogLevel:          strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),
		Debug:             getEnvBool("DEBUG", false),
		PreferIPv4:        getEnvBool("PREFER_IPV4", true),
		WebAddr:           strings.TrimSpace(getEnv("WEB_ADDR", ":8080")),
		HistoryPath:       strings.TrimSpace(getEnv("HISTORY_PATH", "data/history.json")),
		MaxHistory:        getEnvInt("MAX_HISTORY", 20),
		MaxConcurrent:     getEnvInt("MAX_CONCURRENT", 4),
		MaxParallelImages: getEnvInt("MAX_PARALLEL_IMAGES", 3),
		RequestTimeout:    time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 180)) * time.Second,
		HTTPTimeout:       time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 180)) * time.Second,
		GeminiBaseURL:     strings.TrimSpace(getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")),
		GeminiAPIVersion:  strings.TrimSpace(getEnv("GEMINI_API_VERSION", "v1beta")),
	}

	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))

	// TELEGRAM_BOT_TOKEN is only required by cmd/bot, which checks it itself.
	if cfg.GeminiAPIKey == "" {
		return Config{}, errors.New("GEMINI_API_KEY is required")
	}

	if cfg.MaxHistory < 1 {
		cfg.MaxHistory = 1
	}
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.MaxParallelImages < 1 {
		cfg.MaxParallelImages = 1
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 180 * time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
