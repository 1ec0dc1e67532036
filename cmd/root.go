package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/revuhq/revu/internal/ai"
	"github.com/revuhq/revu/internal/output"
	"github.com/revuhq/revu/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui        *output.UI
	dataStore store.Store

	verbose bool

	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "revu",
	Short: "AI code review and bug finder",
	Long: `revu turns a source-code snippet or file into a structured AI review:
bugs, security issues, complexity analysis, clean-code notes, and a
refactored version — stored per user and retrievable later.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/revu/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "revu")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("REVU")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	home, _ := os.UserHomeDir()
	defaultConfigDir := filepath.Join(home, ".config", "revu")

	viper.SetDefault("db_path", filepath.Join(defaultConfigDir, "revu.db"))
	viper.SetDefault("port", 8080)
	viper.SetDefault("session_ttl", "168h")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("ai.provider", "openai")
	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.base_url", ai.DefaultBaseURL)
	viper.SetDefault("ai.model", ai.DefaultModel)
	viper.SetDefault("ai.fallback_model", "")
	viper.SetDefault("ai.timeout", "120s")
	viper.SetDefault("ai.max_retries", 0)
	viper.SetDefault("mcp.user", "")

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
}

// getStore returns the shared store, initializing it on first call.
func getStore() (store.Store, error) {
	if dataStore != nil {
		return dataStore, nil
	}

	dbPath := viper.GetString("db_path")
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := s.Migrate(rootCmd.Context()); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	dataStore = s
	return dataStore, nil
}

// aiConfig assembles the adapter configuration from viper.
func aiConfig() ai.Config {
	return ai.Config{
		Provider:      viper.GetString("ai.provider"),
		APIKey:        viper.GetString("ai.api_key"),
		BaseURL:       viper.GetString("ai.base_url"),
		Model:         viper.GetString("ai.model"),
		FallbackModel: viper.GetString("ai.fallback_model"),
		Timeout:       viper.GetDuration("ai.timeout"),
		MaxRetries:    viper.GetInt("ai.max_retries"),
	}
}

// newLogger builds the slog logger selected by log.format and log.level.
func newLogger() *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(viper.GetString("log.level")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	var h slog.Handler
	if strings.ToLower(viper.GetString("log.format")) == "text" {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}
