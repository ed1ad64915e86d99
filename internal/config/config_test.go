package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"database": {"path": "test.db"},
		"facebook": {"access_token": "fb-token", "page_id": "page-1"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8084, cfg.Server.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 90, cfg.RetentionDays)
	assert.Equal(t, 30000, cfg.Facebook.SyncIntervalMs)
	assert.Equal(t, 30000, cfg.Instagram.SyncIntervalMs)
	assert.Equal(t, 30, cfg.Facebook.TimeoutSec)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, "smiledesk", cfg.Tracing.ServiceName)
	assert.Equal(t, "0 3 * * *", cfg.Content.CleanupCron)
}

func TestLoadClampsSyncInterval(t *testing.T) {
	path := writeConfig(t, `{
		"database": {"path": "test.db"},
		"facebook": {"access_token": "t", "page_id": "p", "syncIntervalMs": 1000}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Facebook.SyncIntervalMs)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("SMILEDESK_FACEBOOK_ACCESS_TOKEN", "env-token")
	t.Setenv("SMILEDESK_VERIFY_TOKEN", "env-verify")
	t.Setenv("SMILEDESK_DB_PATH", "/tmp/override.db")

	path := writeConfig(t, `{
		"database": {"path": "test.db"},
		"facebook": {"access_token": "file-token", "page_id": "page-1"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Facebook.AccessToken)
	assert.Equal(t, "env-verify", cfg.Server.VerifyToken)
	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsTraversalPath(t *testing.T) {
	_, err := Load("../config.json")
	assert.Error(t, err)
}

func TestLoadProductionRequiresVerifyToken(t *testing.T) {
	t.Setenv("SMILEDESK_ENV", "production")

	path := writeConfig(t, `{"database": {"path": "test.db"}}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verify token")
}

func TestLoadProductionRejectsDebugLogging(t *testing.T) {
	t.Setenv("SMILEDESK_ENV", "production")
	t.Setenv("SMILEDESK_VERIFY_TOKEN", "verify-token")

	path := writeConfig(t, `{"database": {"path": "test.db"}, "log_level": "debug"}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "debug logging")
}
