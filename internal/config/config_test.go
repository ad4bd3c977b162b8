package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "", cfg.Input.Format)
	assert.Equal(t, "markdown", cfg.Report.Format)
	assert.Equal(t, "", cfg.Schema.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.InDelta(t, 20, cfg.Server.RateLimitRPS, 0.001)
	assert.Equal(t, 40, cfg.Server.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxBodyBytes)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
  format: console
input:
  format: csv
report:
  format: json
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "csv", cfg.Input.Format)
	assert.Equal(t, "json", cfg.Report.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.Equal(t, 40, cfg.Server.RateLimitBurst)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
report:
  format: csv
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("CAMPAIGN_REPORT_FORMAT", "json")
	t.Setenv("CAMPAIGN_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "json", cfg.Report.Format)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("CAMPAIGN_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unterminated"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Log.Format = "json"
	cfg.Report.Format = "markdown"
	cfg.Server.Port = 8080
	cfg.Server.RateLimitRPS = 20
	cfg.Server.RateLimitBurst = 40
	cfg.Server.MaxBodyBytes = 10 << 20
	return cfg
}

func TestValidateScore_Defaults(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("score"))
}

func TestValidateScore_BadFormats(t *testing.T) {
	cfg := validDefaults()
	cfg.Input.Format = "parquet"
	cfg.Report.Format = "pdf"

	err := cfg.Validate("score")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input.format must be json, csv or xlsx")
	assert.Contains(t, err.Error(), "report.format must be markdown, json, csv or xlsx")
}

func TestValidateServe_ValidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 9090

	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateServe_RateLimit(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.RateLimitBurst = 0

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.rate_limit_burst must be > 0")

	// Disabling the limiter makes the burst irrelevant.
	cfg.Server.RateLimitRPS = 0
	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateBadLogFormat(t *testing.T) {
	cfg := validDefaults()
	cfg.Log.Format = "xml"

	err := cfg.Validate("score")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format must be json or console")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
