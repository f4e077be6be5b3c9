package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/config"
	"github.com/abhisek/lingua/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "lingua",
	Short: "AI language tutor",
	Long:  "Lingua is an AI language tutor for English, Spanish and German with spaced-repetition vocabulary, lessons and progress tracking.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config.toml (default $XDG_CONFIG_HOME/lingua/config.toml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LINGUA_DB env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(vocabCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger returns the logger shared by long-running components.
func newLogger() *log.Logger {
	return log.New(os.Stderr, "[lingua] ", log.LstdFlags|log.Lshortfile)
}

// loadConfig resolves the configuration. The --db flag wins over the file
// and the environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DB.Driver = store.DriverSQLite
		cfg.DB.DSN = ""
		cfg.DB.Path = p
	}
	return cfg, nil
}

// openStore opens the configured database.
func openStore(cfg config.Config) (*store.Store, error) {
	driver, dsn, err := cfg.DatabaseDSN()
	if err != nil {
		return nil, fmt.Errorf("resolve database: %w", err)
	}
	st, err := store.OpenDriver(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
