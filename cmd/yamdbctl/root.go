// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
)

// settings holds the environment defaults every subcommand shares.
type settings struct {
	DatabaseURL   string `env:"DATABASE_URL"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
}

var (
	databaseURL string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "yamdbctl",
	Short: "Operator tooling for the yamdb API",
	Long: `yamdbctl manages the yamdb database outside the API process.

It applies or rolls back schema migrations and seeds the catalogue
from the CSV exports kept under static/data.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database", "", "PostgreSQL URL (defaults to $DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(migrateCmd)
}

// loadSettings merges flags over the environment.
func loadSettings() (settings, error) {
	var cfg settings
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}

	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("a database URL is required: pass --database or set DATABASE_URL")
	}

	return cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "yamdbctl"))
}
