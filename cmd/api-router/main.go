// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the api-router CLI. It routes
// natural-language queries to Google Search, Alpha Vantage, a lexicon
// sentiment analyzer or Open-Meteo, and exposes each API directly.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/api-router/internal/logging"
	"github.com/pdiddy/api-router/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Set

// restoreLogger flushes and uninstalls the CLI logger.
var restoreLogger = func() {}

// rootCmd is the base command for the api-router CLI.
var rootCmd = &cobra.Command{
	Use:   "api-router",
	Short: "Route natural-language queries to the right API",
	Long: `api-router reads a natural-language query, asks a language model (or a
keyword classifier when no model key is configured) which API answers it,
extracts the call parameters and calls the API.

Routable APIs: Google Search, Stock Data (Alpha Vantage), Sentiment Analysis
and Weather (Open-Meteo). Each is also available as its own subcommand.
Routed queries are recorded in a local SQLite history.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := logging.New(viper.GetBool("verbose"))
		if err != nil {
			return err
		}
		restoreLogger = logging.Install(logger)

		s, err := secrets.Load(viper.GetString("secrets_dir"))
		if err != nil {
			return err
		}
		loadedSecrets = s
		if names := s.Names(); len(names) > 0 {
			zap.S().Debugw("loaded secrets", "keys", names)
		}
		if f := viper.ConfigFileUsed(); f != "" {
			zap.S().Debugw("using config file", "path", f)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./api-router.yaml or ~/.config/api-router/api-router.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("no-history", false, "do not record routed queries")
	rootCmd.PersistentFlags().String("secrets-dir", secrets.DefaultSecretsDir, "directory holding API key files")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("secrets_dir", rootCmd.PersistentFlags().Lookup("secrets-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("api-router")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "api-router"))
		}
	}

	viper.SetEnvPrefix("API_ROUTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "warning: reading config: %v\n", err)
		}
	}
}

func main() {
	err := rootCmd.Execute()
	restoreLogger()
	if err != nil {
		os.Exit(1)
	}
}
