package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "propcalc.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.Server.Timeout())
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 30, cfg.Share.TTLDays)
	assert.Equal(t, 30*24*time.Hour, cfg.Share.TTL())
	assert.Equal(t, "@hourly", cfg.Sweeper.Schedule)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.Model)
	assert.Equal(t, 2048, cfg.Anthropic.MaxTokens)
	assert.Equal(t, 30, cfg.Anthropic.RequestsPerMinute)
	assert.Empty(t, cfg.Anthropic.Key)
	assert.Empty(t, cfg.Risk.WeightsFile)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/propcalc
log:
  level: debug
  format: console
server:
  port: 9090
share:
  ttl_days: 7
risk:
  weights_file: weights.yaml
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/propcalc", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 7, cfg.Share.TTLDays)
	assert.Equal(t, "weights.yaml", cfg.Risk.WeightsFile)
	// Defaults still apply for unset values
	assert.Equal(t, "@hourly", cfg.Sweeper.Schedule)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("PROPCALC_STORE_DRIVER", "postgres")
	t.Setenv("PROPCALC_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("PROPCALC_SERVER_PORT", "3000")
	t.Setenv("PROPCALC_ANTHROPIC_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "sk-test", cfg.Anthropic.Key)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [\n"), 0o644))

	_, err := Load()
	assert.Error(t, err)
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

func validDefaults() *Config {
	return &Config{
		Store:   StoreConfig{Driver: "sqlite", DatabaseURL: "propcalc.db"},
		Server:  ServerConfig{Port: 8080, TimeoutSecs: 60},
		Share:   ShareConfig{TTLDays: 30},
		Sweeper: SweeperConfig{Schedule: "@hourly", TimeoutSecs: 60},
	}
}

func TestValidate_AllCommands(t *testing.T) {
	cfg := validDefaults()
	for _, cmd := range []string{"serve", "migrate", "import", "sweep", "export", "calc", "loan", "roi", "tax"} {
		assert.NoError(t, cfg.Validate(cmd), cmd)
	}
}

func TestValidate_ComputeCommandsIgnoreStore(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, cfg.Validate("calc"))
	assert.NoError(t, cfg.Validate("loan"))
}

func TestValidate_UnknownCommand(t *testing.T) {
	err := validDefaults().Validate("frobnicate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestValidate_BadDriver(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "mysql"
	err := cfg.Validate("migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mysql")
}

func TestValidate_MissingDatabaseURL(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.DatabaseURL = ""
	err := cfg.Validate("import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url")
}

func TestValidate_ServePort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate("serve"))

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate("serve"))
}

func TestValidate_ServeNeedsShareAndSweeper(t *testing.T) {
	cfg := validDefaults()
	cfg.Share.TTLDays = 0
	cfg.Sweeper.Schedule = ""
	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "share.ttl_days")
	assert.Contains(t, err.Error(), "sweeper.schedule")
}
