package models

// Config holds the application configuration.
type Config struct {
	Server        ServerConfig   `json:"server"`
	Facebook      ChannelConfig  `json:"facebook"`
	Instagram     ChannelConfig  `json:"instagram"`
	Database      DatabaseConfig `json:"database"`
	Voice         VoiceConfig    `json:"voice"`
	Content       ContentConfig  `json:"content"`
	Retry         RetryConfig    `json:"retry"`
	Tracing       TracingConfig  `json:"tracing"`
	LogLevel      string         `json:"log_level"`
	RetentionDays int            `json:"retentionDays" validate:"min=0"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int    `json:"port" validate:"min=0,max=65535"`
	WebhookBaseURL string `json:"webhook_base_url"`
	VerifyToken    string `json:"verify_token"`
}

// ChannelConfig holds one platform's Graph API settings.
type ChannelConfig struct {
	APIBaseURL     string `json:"api_base_url"`
	AccessToken    string `json:"access_token"`
	PageID         string `json:"page_id"`
	PageName       string `json:"page_name"`
	SyncIntervalMs int    `json:"syncIntervalMs" validate:"min=0"`
	SyncEnabled    bool   `json:"syncEnabled"`
	TimeoutSec     int    `json:"timeout_sec" validate:"min=0,max=300"`
}

// DatabaseConfig holds database settings.
type DatabaseConfig struct {
	Path string `json:"path" validate:"required"`
}

// VoiceConfig holds the AI voice-call provider settings.
type VoiceConfig struct {
	APIBaseURL string `json:"api_base_url"`
	APIKey     string `json:"api_key"`
	TimeoutSec int    `json:"timeout_sec" validate:"min=0,max=300"`
}

// ContentConfig holds marketing-content generation settings.
type ContentConfig struct {
	Enabled     bool   `json:"enabled"`
	Model       string `json:"model"`
	APIKey      string `json:"api_key"`
	CleanupCron string `json:"cleanup_cron"`
}

// RetryConfig controls startup backoff for the database.
type RetryConfig struct {
	InitialBackoffMs int `json:"initialBackoffMs" validate:"min=0"`
	MaxBackoffMs     int `json:"maxBackoffMs" validate:"min=0"`
	MaxAttempts      int `json:"maxAttempts" validate:"min=0,max=20"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled        bool    `json:"enabled"`
	ServiceName    string  `json:"service_name"`
	ServiceVersion string  `json:"service_version"`
	Environment    string  `json:"environment"`
	OTLPEndpoint   string  `json:"otlp_endpoint"`
	SampleRate     float64 `json:"sample_rate" validate:"min=0,max=1"`
	UseStdout      bool    `json:"use_stdout"`
}

// ConfigError reports an invalid or incomplete configuration.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}

// Credentials returns the channel's platform credentials.
func (c ChannelConfig) Credentials() PlatformCredentials {
	return PlatformCredentials{
		AccessToken: c.AccessToken,
		PageID:      c.PageID,
		PageName:    c.PageName,
	}
}
