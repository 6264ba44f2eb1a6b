package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgallion1/chatframe/internal/livechat"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Widget identifiers
	FrameID       string
	ItemListID    string
	CommentTag    string
	AuthorChipTag string
	ContentName   string
	MessageName   string

	// Default broadcast owner for owner queries.
	OwnerName string

	// Host page sources
	PageFile      string
	FramesDir     string
	WatchDebounce time.Duration

	// Upload limits
	MaxUploadBytes int64

	// Logging
	LogLevel  string
	LogFormat string

	// Telemetry
	MetricsEnabled bool
	StatsWindow    time.Duration
}

// LoadDotEnv reads .env files into the environment if present. Variables
// already set win.
func LoadDotEnv(files ...string) {
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) > 0 {
		_ = godotenv.Load(present...)
	}
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("CHATFRAME_API_KEY"),

		FrameID:       envOr("FRAME_ID", livechat.DefaultFrameID),
		ItemListID:    envOr("ITEM_LIST_ID", livechat.DefaultItemListID),
		CommentTag:    envOr("COMMENT_TAG", livechat.DefaultCommentTag),
		AuthorChipTag: envOr("AUTHOR_CHIP_TAG", livechat.DefaultAuthorChipTag),
		ContentName:   envOr("CONTENT_NAME", livechat.DefaultContentName),
		MessageName:   envOr("MESSAGE_NAME", livechat.DefaultMessageName),

		OwnerName: os.Getenv("OWNER_NAME"),

		PageFile:      os.Getenv("PAGE_FILE"),
		FramesDir:     os.Getenv("FRAMES_DIR"),
		WatchDebounce: envDuration("WATCH_DEBOUNCE", 250*time.Millisecond),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		LogLevel:  strings.ToLower(envOr("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(envOr("LOG_FORMAT", "json")),

		MetricsEnabled: envBool("METRICS_ENABLED", true),
		StatsWindow:    envDuration("STATS_WINDOW", 1*time.Hour),
	}

	if cfg.WatchDebounce <= 0 {
		cfg.WatchDebounce = 250 * time.Millisecond
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

// Validate checks what the HTTP server needs.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("CHATFRAME_API_KEY is required")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if err := c.Selectors().Validate(); err != nil {
		return fmt.Errorf("invalid widget identifiers: %w", err)
	}
	return nil
}

// Selectors returns the widget identifiers for the chat reader.
func (c Config) Selectors() livechat.Selectors {
	return livechat.Selectors{
		FrameID:       c.FrameID,
		ItemListID:    c.ItemListID,
		CommentTag:    c.CommentTag,
		AuthorChipTag: c.AuthorChipTag,
		ContentName:   c.ContentName,
		MessageName:   c.MessageName,
	}
}

// SlogLevel maps LOG_LEVEL to a slog level. Unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
