package config

import (
	"time"

	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone  AuthMode = "none"  // No authentication required (default)
	AuthModeLocal AuthMode = "local" // Local user database with sessions
)

type (
	Config struct {
		HTTP
		Global
		Database
		Extraction
		Estimation
		Catalog
		Review
		History
		Tasks
		Auth
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Path string
	}

	// Extraction configures the LLM text extraction client and its
	// per-process rate limit.
	Extraction struct {
		APIKey      string
		BaseURL     string
		Model       string
		MaxTokens   int
		RateWindow  time.Duration
		RateMaxReqs int
	}

	Estimation struct {
		MaxTokens   int
		RateWindow  time.Duration
		RateMaxReqs int
		Enabled     bool   // background estimation for items without expiry
		Schedule    string // Cron format: "0 * * * *" = hourly
	}

	Catalog struct {
		BaseURL string
	}

	Review struct {
		SessionTTL time.Duration
	}

	History struct {
		RetentionDays   int
		CleanupSchedule string
	}

	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}

	Auth struct {
		Mode            AuthMode
		SessionSecret   string
		SessionLifetime time.Duration
		TokenExpiry     time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS

		// Rate limiting configuration
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Extraction defaults
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("anthropic_base_url", DefaultExtractionBaseURL)
	v.SetDefault("anthropic_model", DefaultExtractionModel)
	v.SetDefault("extraction_max_tokens", 2048)
	v.SetDefault("rate_limit_window", "60s")
	v.SetDefault("rate_limit_max_requests", 10)

	// Estimation defaults
	v.SetDefault("estimation_max_tokens", 1024)
	v.SetDefault("estimation_rate_limit_window", "60s")
	v.SetDefault("estimation_rate_limit_max_requests", 10)
	v.SetDefault("estimation_enabled", false)
	v.SetDefault("estimation_schedule", "0 * * * *") // Hourly at :00

	// Barcode catalog defaults
	v.SetDefault("catalog_base_url", DefaultCatalogBaseURL)

	// Review session defaults
	v.SetDefault("review_session_ttl", "30m")

	// History defaults
	v.SetDefault("history_retention_days", 90)
	v.SetDefault("history_cleanup_schedule", "30 3 * * *") // Daily at 03:30

	// Auth defaults
	v.SetDefault("auth_mode", "none")
	v.SetDefault("auth_session_secret", "")       // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h")  // 24 hours
	v.SetDefault("auth_token_expiry", "720h")     // 30 days
	v.SetDefault("auth_bcrypt_cost", 12)          // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true)     // HTTPS-only cookies
	v.SetDefault("auth_max_login_attempts", 5)    // Max failed attempts
	v.SetDefault("auth_rate_limit_window", "15m") // Window for counting attempts
	v.SetDefault("auth_lockout_duration", "30m")  // Lockout duration

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Extraction: Extraction{
			APIKey:      v.GetString("ANTHROPIC_API_KEY"),
			BaseURL:     v.GetString("ANTHROPIC_BASE_URL"),
			Model:       v.GetString("ANTHROPIC_MODEL"),
			MaxTokens:   v.GetInt("EXTRACTION_MAX_TOKENS"),
			RateWindow:  v.GetDuration("RATE_LIMIT_WINDOW"),
			RateMaxReqs: v.GetInt("RATE_LIMIT_MAX_REQUESTS"),
		},
		Estimation: Estimation{
			MaxTokens:   v.GetInt("ESTIMATION_MAX_TOKENS"),
			RateWindow:  v.GetDuration("ESTIMATION_RATE_LIMIT_WINDOW"),
			RateMaxReqs: v.GetInt("ESTIMATION_RATE_LIMIT_MAX_REQUESTS"),
			Enabled:     v.GetBool("ESTIMATION_ENABLED"),
			Schedule:    v.GetString("ESTIMATION_SCHEDULE"),
		},
		Catalog: Catalog{
			BaseURL: v.GetString("CATALOG_BASE_URL"),
		},
		Review: Review{
			SessionTTL: v.GetDuration("REVIEW_SESSION_TTL"),
		},
		History: History{
			RetentionDays:   v.GetInt("HISTORY_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("HISTORY_CLEANUP_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Auth: Auth{
			Mode:             AuthMode(v.GetString("AUTH_MODE")),
			SessionSecret:    v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			TokenExpiry:      v.GetDuration("AUTH_TOKEN_EXPIRY"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
	}
}
