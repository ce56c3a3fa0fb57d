package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every runtime setting, loaded once at startup and handed to
// constructors explicitly. No package keeps its own copy of the environment.
type Config struct {
	DatabaseURL string
	Port        string
	JWTSecret   string

	// DefaultAdminID is the user every new manufacturer is attached to.
	// The upstream system pinned this to one fixed account; it is kept as
	// explicit configuration rather than a literal.
	DefaultAdminID string

	UploadDir string

	// SerialNoBase is the page multiplier used when numbering listed
	// products. Historically 10 regardless of the requested page size.
	SerialNoBase int

	// StoreTimeout bounds every atomic unit of paired writes.
	StoreTimeout time.Duration
}

// Load reads the environment and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Port:           envOr("APP_PORT", "9000"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		DefaultAdminID: os.Getenv("DEFAULT_ADMIN_ID"),
		UploadDir:      envOr("UPLOAD_DIR", "uploads"),
		SerialNoBase:   envInt("SERIAL_NO_BASE", 10),
		StoreTimeout:   envDuration("STORE_TIMEOUT", 5*time.Second),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DefaultAdminID == "" {
		return nil, fmt.Errorf("DEFAULT_ADMIN_ID is required")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
