package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the minimum environment for LoadConfig to succeed
// and unsets every optional variable so ambient values cannot leak in.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_APP_TOKEN", "xapp-test")
	for _, key := range []string{
		"APP_ENV", "DEBUG", "VERSION", "SENTRY_DSN",
		"MONGODB_URI", "MONGODB_DATABASE",
		"DEFAULT_MAX_COUNT", "REPORT_MODE", "BOT_LANG",
	} {
		// t.Setenv registers the restore; Unsetenv leaves the variable
		// absent for the duration of the test.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "xoxb-test", cfg.SlackBotToken)
	assert.Equal(t, "xapp-test", cfg.SlackAppToken)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "dev", cfg.Version)
	assert.Equal(t, DefaultMaxCount, cfg.DefaultMaxCount)
	assert.Equal(t, ReportModeSplit, cfg.ReportMode)
	assert.Equal(t, "en", cfg.DefaultLanguage)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DEBUG", "true")
	t.Setenv("VERSION", "1.4.0")
	t.Setenv("DEFAULT_MAX_COUNT", "25")
	t.Setenv("REPORT_MODE", "combined")
	t.Setenv("BOT_LANG", "ru")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "1.4.0", cfg.Version)
	assert.Equal(t, 25, cfg.DefaultMaxCount)
	assert.Equal(t, ReportModeCombined, cfg.ReportMode)
	assert.Equal(t, "ru", cfg.DefaultLanguage)
}

func TestLoadConfigMissingBotToken(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SLACK_BOT_TOKEN", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SLACK_BOT_TOKEN")
}

func TestLoadConfigMissingAppToken(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SLACK_APP_TOKEN", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SLACK_APP_TOKEN")
}

func TestLoadConfigInvalidMaxCount(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("DEFAULT_MAX_COUNT", "abc")
	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEFAULT_MAX_COUNT")

	t.Setenv("DEFAULT_MAX_COUNT", "-5")
	_, err = LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), ">= 0")
}

func TestLoadConfigZeroMaxCountIsValid(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DEFAULT_MAX_COUNT", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Zero(t, cfg.DefaultMaxCount)
}

func TestLoadConfigInvalidReportMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REPORT_MODE", "everything")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REPORT_MODE")
}

func TestLoadConfigMongoRequiresDatabase(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGODB_DATABASE")

	t.Setenv("MONGODB_DATABASE", "ghosts")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "ghosts", cfg.MongoDBDatabase)
}
