package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "cantina", cfg.MongoDB.DBName)
	assert.Equal(t, "0 1 * * *", cfg.Reporting.CronSchedule)
	assert.Equal(t, time.Duration(0), cfg.JWT.TTL)
	assert.False(t, cfg.SheetsEnabled())
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("JWT_SECRET", "secret")
	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "")
	_, err = Load("")
	assert.Error(t, err)
}

func TestJWTTTLParsing(t *testing.T) {
	setRequired(t)

	t.Setenv("JWT_TTL", "4h")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4*time.Hour, cfg.JWT.TTL)

	t.Setenv("JWT_TTL", "eight hours")
	_, err = Load("")
	assert.Error(t, err)
}

func TestSheetsMustBeConfiguredTogether(t *testing.T) {
	setRequired(t)

	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/tmp/creds.json")
	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "sheet-id")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.SheetsEnabled())
}
