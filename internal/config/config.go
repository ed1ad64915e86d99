package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"smiledesk/internal/constants"
	"smiledesk/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var (
	ErrMissingDBPath      = models.ConfigError{Message: "missing database path"}
	ErrMissingVerifyToken = models.ConfigError{Message: "webhook verify token is required in production (set SMILEDESK_VERIFY_TOKEN)"}
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the JSON config file, layers environment overrides on top,
// applies defaults, and validates the result. A .env file next to the
// process is honored when present.
func Load(path string) (*models.Config, error) {
	// Ignore a missing .env; explicit environment still applies.
	_ = godotenv.Load()

	if strings.Contains(path, "..") {
		return nil, models.ConfigError{Message: "config path must not contain directory traversal"}
	}

	file, err := os.ReadFile(path) // #nosec G304 - path checked above
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg models.Config
	if err := json.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvironmentOverrides(&cfg)
	applyDefaults(&cfg)

	if err := validate.Struct(&cfg); err != nil {
		return nil, models.ConfigError{Message: fmt.Sprintf("invalid configuration: %v", err)}
	}
	if err := validateSecurity(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(c *models.Config) {
	if c.Server.Port == 0 {
		c.Server.Port = constants.DefaultServerPort
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.RetentionDays <= 0 {
		c.RetentionDays = constants.DefaultRetentionDays
	}
	if c.Database.Path == "" {
		c.Database.Path = "smiledesk.db"
	}
	if c.Content.CleanupCron == "" {
		c.Content.CleanupCron = constants.DefaultCleanupCron
	}

	applyChannelDefaults(&c.Facebook)
	applyChannelDefaults(&c.Instagram)

	if c.Retry.InitialBackoffMs <= 0 {
		c.Retry.InitialBackoffMs = constants.DefaultBackoffInitialMs
	}
	if c.Retry.MaxBackoffMs <= 0 {
		c.Retry.MaxBackoffMs = constants.DefaultBackoffMaxMs
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = constants.DefaultDatabaseRetryAttempts
	}

	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "smiledesk"
	}
	if c.Tracing.SampleRate <= 0 {
		c.Tracing.SampleRate = 1.0
	}
}

func applyChannelDefaults(ch *models.ChannelConfig) {
	if ch.SyncIntervalMs <= 0 {
		ch.SyncIntervalMs = constants.DefaultSyncIntervalMs
	}
	if ch.SyncIntervalMs < constants.MinSyncIntervalMs {
		ch.SyncIntervalMs = constants.MinSyncIntervalMs
	}
	if ch.TimeoutSec <= 0 {
		ch.TimeoutSec = constants.DefaultHTTPTimeoutSec
	}
}

// applyEnvironmentOverrides layers secrets from the environment over the
// file so tokens never have to live on disk.
func applyEnvironmentOverrides(c *models.Config) {
	if token := os.Getenv("SMILEDESK_FACEBOOK_ACCESS_TOKEN"); token != "" {
		c.Facebook.AccessToken = token
	}
	if token := os.Getenv("SMILEDESK_INSTAGRAM_ACCESS_TOKEN"); token != "" {
		c.Instagram.AccessToken = token
	}
	if token := os.Getenv("SMILEDESK_VERIFY_TOKEN"); token != "" {
		c.Server.VerifyToken = token
	}
	if path := os.Getenv("SMILEDESK_DB_PATH"); path != "" {
		c.Database.Path = path
	}
	if key := os.Getenv("SMILEDESK_VOICE_API_KEY"); key != "" {
		c.Voice.APIKey = key
	}
	if key := os.Getenv("SMILEDESK_CONTENT_API_KEY"); key != "" {
		c.Content.APIKey = key
	}
}

func validateSecurity(c *models.Config) error {
	isProduction := os.Getenv("SMILEDESK_ENV") == "production"

	if isProduction {
		if c.Server.VerifyToken == "" {
			return ErrMissingVerifyToken
		}
		if c.LogLevel == "debug" {
			return models.ConfigError{Message: "debug logging should not be used in production"}
		}
	} else if c.Server.VerifyToken == "" {
		fmt.Fprintf(os.Stderr, "WARNING: webhook verify token not set. Set SMILEDESK_VERIFY_TOKEN to enable webhook handshakes.\n")
	}

	if c.Database.Path == "" {
		return ErrMissingDBPath
	}

	return nil
}
