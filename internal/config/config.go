// Package config loads the process configuration once at startup. The
// resulting Config is passed by reference into the Telegram client and the
// server context; nothing reads the environment after Load returns.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the account identity and local paths the server needs.
type Config struct {
	// APIID and APIHash identify the application to Telegram
	// (https://my.telegram.org/apps).
	APIID   int
	APIHash string

	// PhoneNumber is the account's phone number in international format.
	PhoneNumber string

	// SessionDir is where the MTProto session file is persisted.
	SessionDir string

	// DownloadDir is the default local cache for downloaded media.
	DownloadDir string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LogFormat is "text" or "json".
	LogFormat string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first, without overriding variables already set.
func Load() (*Config, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	apiIDStr := os.Getenv("TELEGRAM_API_ID")
	if apiIDStr == "" {
		return nil, fmt.Errorf("TELEGRAM_API_ID environment variable is required")
	}
	apiID, err := strconv.Atoi(apiIDStr)
	if err != nil {
		return nil, fmt.Errorf("TELEGRAM_API_ID must be an integer: %w", err)
	}

	apiHash := os.Getenv("TELEGRAM_API_HASH")
	if apiHash == "" {
		return nil, fmt.Errorf("TELEGRAM_API_HASH environment variable is required")
	}

	phone := os.Getenv("TELEGRAM_PHONE")
	if phone == "" {
		return nil, fmt.Errorf("TELEGRAM_PHONE environment variable is required")
	}

	dataDir, err := dataDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to determine data directory: %w", err)
	}

	sessionDir := os.Getenv("TELEGRAM_SESSION_DIR")
	if sessionDir == "" {
		sessionDir = filepath.Join(dataDir, "sessions")
	}

	downloadDir := os.Getenv("TELEGRAM_DOWNLOAD_DIR")
	if downloadDir == "" {
		downloadDir = filepath.Join(dataDir, "downloads")
	}

	for _, dir := range []string{sessionDir, downloadDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	cfg := &Config{
		APIID:       apiID,
		APIHash:     apiHash,
		PhoneNumber: phone,
		SessionDir:  sessionDir,
		DownloadDir: downloadDir,
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		LogFormat:   envOrDefault("LOG_FORMAT", "text"),
	}
	return cfg, nil
}

func dataDirectory() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "telegram-mcp"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "telegram-mcp"), nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
