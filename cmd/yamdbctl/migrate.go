// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/platform/migration"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back schema migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE:      runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsDir, "path", "", "Migrations directory (defaults to $MIGRATION_PATH)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	path := cfg.MigrationPath
	if migrationsDir != "" {
		path = migrationsDir
	}

	logger := newLogger()
	if args[0] == "down" {
		return migration.RunDown(cfg.DatabaseURL, path, logger)
	}
	return migration.RunUp(cfg.DatabaseURL, path, logger)
}
