package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// StatusPolicy selects which status transitions an admin may make.
type StatusPolicy string

const (
	PolicyUnrestricted StatusPolicy = "unrestricted"
	PolicyStrict       StatusPolicy = "strict"
)

// Config is the resolved runtime configuration for the portal server and admin tool.
type Config struct {
	HTTPAddr string

	DatabaseURL string
	RedisURL    string

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	BlobRoot    string
	LocalesDir  string
	SessionFile string

	StatusPolicy   StatusPolicy
	CountsCacheTTL time.Duration

	TelegramBotToken    string
	TelegramAdminChatID int64
}

type configFile struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Auth struct {
		TokenTTL   string `yaml:"token_ttl"`
		BcryptCost int    `yaml:"bcrypt_cost"`
	} `yaml:"auth"`
	Storage struct {
		BlobRoot string `yaml:"blob_root"`
	} `yaml:"storage"`
	Complaints struct {
		StatusPolicy   string `yaml:"status_policy"`
		CountsCacheTTL string `yaml:"counts_cache_ttl"`
	} `yaml:"complaints"`
	LocalesDir  string `yaml:"locales_dir"`
	SessionFile string `yaml:"session_file"`
}

// Load resolves configuration in priority order: defaults -> file -> env.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Config{
		HTTPAddr:       ":8080",
		TokenTTL:       24 * time.Hour,
		BcryptCost:     12,
		BlobRoot:       "./data/blobs",
		LocalesDir:     "./locales",
		SessionFile:    ".grievance-session.json",
		StatusPolicy:   PolicyUnrestricted,
		CountsCacheTTL: 30 * time.Second,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Server.Addr != "" {
			cfg.HTTPAddr = f.Server.Addr
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.Auth.TokenTTL != "" {
			d, parseErr := time.ParseDuration(f.Auth.TokenTTL)
			if parseErr != nil {
				return Config{}, fmt.Errorf("parse auth.token_ttl: %w", parseErr)
			}
			cfg.TokenTTL = d
		}
		if f.Auth.BcryptCost > 0 {
			cfg.BcryptCost = f.Auth.BcryptCost
		}
		if f.Storage.BlobRoot != "" {
			cfg.BlobRoot = f.Storage.BlobRoot
		}
		if f.Complaints.StatusPolicy != "" {
			cfg.StatusPolicy = StatusPolicy(f.Complaints.StatusPolicy)
		}
		if f.Complaints.CountsCacheTTL != "" {
			d, parseErr := time.ParseDuration(f.Complaints.CountsCacheTTL)
			if parseErr != nil {
				return Config{}, fmt.Errorf("parse complaints.counts_cache_ttl: %w", parseErr)
			}
			cfg.CountsCacheTTL = d
		}
		if f.LocalesDir != "" {
			cfg.LocalesDir = f.LocalesDir
		}
		if f.SessionFile != "" {
			cfg.SessionFile = f.SessionFile
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg.HTTPAddr = envOrDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.DatabaseURL = envOrDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.TokenTTL = envDuration("TOKEN_TTL", cfg.TokenTTL)
	cfg.BcryptCost = envInt("BCRYPT_COST", cfg.BcryptCost)
	cfg.BlobRoot = envOrDefault("BLOB_ROOT", cfg.BlobRoot)
	cfg.LocalesDir = envOrDefault("LOCALES_DIR", cfg.LocalesDir)
	cfg.SessionFile = envOrDefault("SESSION_FILE", cfg.SessionFile)
	cfg.StatusPolicy = StatusPolicy(envOrDefault("STATUS_POLICY", string(cfg.StatusPolicy)))
	cfg.CountsCacheTTL = envDuration("COUNTS_CACHE_TTL", cfg.CountsCacheTTL)
	cfg.TelegramBotToken = envOrDefault("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	if raw := os.Getenv("TELEGRAM_ADMIN_CHAT_ID"); raw != "" {
		id, parseErr := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if parseErr != nil {
			return Config{}, fmt.Errorf("parse TELEGRAM_ADMIN_CHAT_ID: %w", parseErr)
		}
		cfg.TelegramAdminChatID = id
	}

	if cfg.StatusPolicy != PolicyUnrestricted && cfg.StatusPolicy != PolicyStrict {
		return Config{}, fmt.Errorf("unknown status policy %q", cfg.StatusPolicy)
	}
	return cfg, nil
}

// Validate checks the settings the HTTP server cannot start without.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("missing DATABASE_URL")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("missing JWT_SECRET")
	}
	return nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return d
}
