// Package config loads lingua's settings from defaults, a TOML file, a
// .env file and LINGUA_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/abhisek/lingua/internal/llm"
	"github.com/abhisek/lingua/internal/store"
	"github.com/abhisek/lingua/internal/tutor"
)

// Config is the resolved application configuration.
type Config struct {
	LLM      llm.Config
	Tutor    tutor.Config
	DB       DBConfig
	Server   ServerConfig
	Telegram TelegramConfig
	Reminder ReminderConfig

	// LLMExplicit is set when the provider was chosen by the file or
	// LINGUA_LLM_PROVIDER rather than left at its default.
	LLMExplicit bool
}

// DBConfig selects the state database.
type DBConfig struct {
	Driver string // "sqlite" or "postgres"
	DSN    string // Postgres DSN, or a SQLite path override
	Path   string // SQLite file; empty means the XDG data path
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string
	AllowOrigins string
}

// TelegramConfig configures the chat bot. An empty token disables it.
type TelegramConfig struct {
	Token   string
	Timeout int // long-poll seconds
}

// ReminderConfig configures the background jobs.
type ReminderConfig struct {
	Enabled       bool
	SnapshotEvery time.Duration
	SnapshotKeep  int
}

// Default returns the built-in configuration.
func Default() Config {
	tc := tutor.DefaultConfig()
	tc.RouteModels = true
	return Config{
		LLM:   llm.DefaultConfig(),
		Tutor: tc,
		DB:    DBConfig{Driver: store.DriverSQLite},
		Server: ServerConfig{
			Addr:         ":8080",
			AllowOrigins: "*",
		},
		Telegram: TelegramConfig{Timeout: 60},
		Reminder: ReminderConfig{
			Enabled:       true,
			SnapshotEvery: 6 * time.Hour,
			SnapshotKeep:  10,
		},
	}
}

// FileConfig represents the TOML configuration file. Pointer fields
// distinguish unset keys from zero values.
type FileConfig struct {
	LLM      LLMFile      `toml:"llm"`
	DB       DBFile       `toml:"db"`
	Server   ServerFile   `toml:"server"`
	Telegram TelegramFile `toml:"telegram"`
	Reminder ReminderFile `toml:"reminder"`
}

// LLMFile maps the [llm] table.
type LLMFile struct {
	Provider    *string  `toml:"provider"`
	Model       *string  `toml:"model"`
	APIKey      *string  `toml:"api-key"`
	BaseURL     *string  `toml:"base-url"`
	AppURL      *string  `toml:"app-url"`
	RouteModels *bool    `toml:"route-models"`
	Temperature *float64 `toml:"temperature"`
	MaxTokens   *int     `toml:"max-tokens"`
}

// DBFile maps the [db] table.
type DBFile struct {
	Driver *string `toml:"driver"`
	DSN    *string `toml:"dsn"`
	Path   *string `toml:"path"`
}

// ServerFile maps the [server] table.
type ServerFile struct {
	Addr         *string `toml:"addr"`
	AllowOrigins *string `toml:"allow-origins"`
}

// TelegramFile maps the [telegram] table.
type TelegramFile struct {
	Token   *string `toml:"token"`
	Timeout *int    `toml:"timeout"`
}

// ReminderFile maps the [reminder] table.
type ReminderFile struct {
	Enabled       *bool `toml:"enabled"`
	SnapshotHours *int  `toml:"snapshot-hours"`
	SnapshotKeep  *int  `toml:"snapshot-keep"`
}

// LoadFile reads a TOML config from path. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("stat config: %w", err)
	}
	var fc FileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return fc, nil
}

// Load resolves the configuration. path may be empty for the default
// location. A .env file in the working directory is loaded into the
// environment first; variables already set win over it.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		path = DefaultConfigPath()
	}
	fc, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	cfg.apply(fc)
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if !cfg.LLMExplicit && !cfg.LLM.HasCredentials() {
		if found, ok := llm.DiscoverConfig(); ok {
			found.OpenRouter.AppURL = cfg.LLM.OpenRouter.AppURL
			cfg.LLM = found
		}
	}
	cfg.Tutor.RouteModels = cfg.Tutor.RouteModels && cfg.LLM.Provider == "openrouter"
	return cfg, nil
}

// apply copies the set file values over cfg.
func (cfg *Config) apply(fc FileConfig) {
	if v := fc.LLM.Provider; v != nil {
		cfg.LLM.Provider = *v
		cfg.LLMExplicit = true
	}
	if v := fc.LLM.Model; v != nil {
		cfg.setModel(*v)
	}
	if v := fc.LLM.APIKey; v != nil {
		cfg.setAPIKey(*v)
	}
	if v := fc.LLM.BaseURL; v != nil {
		cfg.LLM.OpenAI.BaseURL = *v
		cfg.LLM.OpenRouter.BaseURL = *v
	}
	if v := fc.LLM.AppURL; v != nil {
		cfg.LLM.OpenRouter.AppURL = *v
	}
	if v := fc.LLM.RouteModels; v != nil {
		cfg.Tutor.RouteModels = *v
	}
	if v := fc.LLM.Temperature; v != nil {
		cfg.Tutor.Temperature = *v
	}
	if v := fc.LLM.MaxTokens; v != nil {
		cfg.Tutor.MaxTokens = *v
	}

	if v := fc.DB.Driver; v != nil {
		cfg.DB.Driver = *v
	}
	if v := fc.DB.DSN; v != nil {
		cfg.DB.DSN = *v
	}
	if v := fc.DB.Path; v != nil {
		cfg.DB.Path = *v
	}

	if v := fc.Server.Addr; v != nil {
		cfg.Server.Addr = *v
	}
	if v := fc.Server.AllowOrigins; v != nil {
		cfg.Server.AllowOrigins = *v
	}

	if v := fc.Telegram.Token; v != nil {
		cfg.Telegram.Token = *v
	}
	if v := fc.Telegram.Timeout; v != nil {
		cfg.Telegram.Timeout = *v
	}

	if v := fc.Reminder.Enabled; v != nil {
		cfg.Reminder.Enabled = *v
	}
	if v := fc.Reminder.SnapshotHours; v != nil && *v > 0 {
		cfg.Reminder.SnapshotEvery = time.Duration(*v) * time.Hour
	}
	if v := fc.Reminder.SnapshotKeep; v != nil && *v > 0 {
		cfg.Reminder.SnapshotKeep = *v
	}
}

// setModel sets the model of the selected provider.
func (cfg *Config) setModel(m string) {
	switch cfg.LLM.Provider {
	case "anthropic":
		cfg.LLM.Anthropic.Model = m
	case "openai":
		cfg.LLM.OpenAI.Model = m
	case "gemini":
		cfg.LLM.Gemini.Model = m
	default:
		cfg.LLM.OpenRouter.Model = m
	}
}

// setAPIKey sets the key of the selected provider.
func (cfg *Config) setAPIKey(k string) {
	switch cfg.LLM.Provider {
	case "anthropic":
		cfg.LLM.Anthropic.APIKey = k
	case "openai":
		cfg.LLM.OpenAI.APIKey = k
	case "gemini":
		cfg.LLM.Gemini.APIKey = k
	default:
		cfg.LLM.OpenRouter.APIKey = k
	}
}

func (cfg *Config) applyEnv() error {
	if os.Getenv("LINGUA_LLM_PROVIDER") != "" {
		cfg.LLMExplicit = true
	}
	cfg.LLM.ApplyEnv()

	if v := os.Getenv("LINGUA_DB_DRIVER"); v != "" {
		cfg.DB.Driver = v
	}
	if v := os.Getenv("LINGUA_DB_DSN"); v != "" {
		cfg.DB.DSN = v
	}
	if v := os.Getenv("LINGUA_DB"); v != "" {
		cfg.DB.Path = v
	}
	if v := os.Getenv("LINGUA_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LINGUA_TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("LINGUA_ROUTE_MODELS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LINGUA_ROUTE_MODELS: %w", err)
		}
		cfg.Tutor.RouteModels = b
	}
	return nil
}

// DatabaseDSN returns the driver and DSN to open. For SQLite without an
// explicit DSN it resolves the XDG data path.
func (cfg Config) DatabaseDSN() (driver, dsn string, err error) {
	driver = cfg.DB.Driver
	if driver == "" {
		driver = store.DriverSQLite
	}
	if cfg.DB.DSN != "" {
		return driver, cfg.DB.DSN, nil
	}
	if driver != store.DriverSQLite {
		return "", "", fmt.Errorf("%s driver needs a DSN (LINGUA_DB_DSN)", driver)
	}
	if cfg.DB.Path != "" {
		return driver, cfg.DB.Path, store.EnsureDir(cfg.DB.Path)
	}
	p, err := store.DefaultDBPath()
	return driver, p, err
}
