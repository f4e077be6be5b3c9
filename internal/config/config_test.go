package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"LINGUA_LLM_PROVIDER", "LINGUA_OPENROUTER_API_KEY", "LINGUA_OPENROUTER_MODEL",
	"LINGUA_ANTHROPIC_API_KEY", "LINGUA_OPENAI_API_KEY", "LINGUA_GEMINI_API_KEY",
	"LINGUA_DB", "LINGUA_DB_DRIVER", "LINGUA_DB_DSN", "LINGUA_ADDR",
	"LINGUA_TELEGRAM_TOKEN", "LINGUA_APP_URL", "LINGUA_ROUTE_MODELS",
	"OPENROUTER_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
}

func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cleanEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "openrouter", cfg.LLM.Provider)
	assert.False(t, cfg.LLMExplicit)
	assert.True(t, cfg.Tutor.RouteModels)
	assert.Equal(t, 0.7, cfg.Tutor.Temperature)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 6*time.Hour, cfg.Reminder.SnapshotEvery)
	assert.Equal(t, 10, cfg.Reminder.SnapshotKeep)
	assert.Empty(t, cfg.Telegram.Token)
}

func TestLoad_FileThenEnv(t *testing.T) {
	cleanEnv(t)
	path := writeConfig(t, `
[llm]
provider = "anthropic"
model = "claude-sonnet"
api-key = "file-key"
temperature = 0.4

[server]
addr = "127.0.0.1:9000"

[reminder]
snapshot-hours = 12
snapshot-keep = 3

[telegram]
token = "file-token"
`)
	t.Setenv("LINGUA_ADDR", ":7000")
	t.Setenv("LINGUA_ANTHROPIC_API_KEY", "env-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.True(t, cfg.LLMExplicit)
	assert.Equal(t, "claude-sonnet", cfg.LLM.Anthropic.Model)
	assert.Equal(t, "env-key", cfg.LLM.Anthropic.APIKey, "env wins over file")
	assert.Equal(t, 0.4, cfg.Tutor.Temperature)
	assert.False(t, cfg.Tutor.RouteModels, "route models only apply to openrouter")
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, 12*time.Hour, cfg.Reminder.SnapshotEvery)
	assert.Equal(t, 3, cfg.Reminder.SnapshotKeep)
	assert.Equal(t, "file-token", cfg.Telegram.Token)
}

func TestLoad_DiscoversProvider(t *testing.T) {
	cleanEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "g-key", cfg.LLM.Gemini.APIKey)
}

func TestLoad_DotEnv(t *testing.T) {
	cleanEnv(t)
	os.Unsetenv("LINGUA_TELEGRAM_TOKEN")
	require.NoError(t, os.WriteFile(".env", []byte("LINGUA_TELEGRAM_TOKEN=dotenv-token\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LINGUA_TELEGRAM_TOKEN") })

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "dotenv-token", cfg.Telegram.Token)
}

func TestLoad_InvalidInput(t *testing.T) {
	cleanEnv(t)

	_, err := Load(writeConfig(t, "[llm\nprovider = "))
	assert.Error(t, err)

	t.Setenv("LINGUA_ROUTE_MODELS", "sometimes")
	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := Default()
	cfg.DB.Path = filepath.Join(t.TempDir(), "nested", "lingua.db")

	driver, dsn, err := cfg.DatabaseDSN()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", driver)
	assert.Equal(t, cfg.DB.Path, dsn)
	assert.DirExists(t, filepath.Dir(cfg.DB.Path))

	cfg.DB.Driver = "postgres"
	_, _, err = cfg.DatabaseDSN()
	assert.Error(t, err)

	cfg.DB.DSN = "postgres://lingua@localhost/lingua?sslmode=disable"
	driver, dsn, err = cfg.DatabaseDSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres", driver)
	assert.Equal(t, cfg.DB.DSN, dsn)
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/lingua/config.toml", DefaultConfigPath())
}
