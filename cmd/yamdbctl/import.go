// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/importer"
)

var (
	importDir      string
	importManifest string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Seed the database from CSV files",
	Long: `Load users, categories, genres, titles, reviews and comments from CSV.

Rows that already exist are left untouched, so the command can be re-run.
Rows that reference missing parents or fail validation are reported and skipped.`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importDir, "dir", "", "Directory holding the CSV files (overrides the manifest)")
	importCmd.Flags().StringVar(&importManifest, "manifest", "", "YAML manifest naming the CSV files")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	manifest, err := importer.LoadManifest(importManifest)
	if err != nil {
		return err
	}
	if importDir != "" {
		manifest.Dir = importDir
	}

	db, err := importer.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.PingContext(cmd.Context()); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	summary, err := importer.New(db, newLogger()).Run(cmd.Context(), manifest)
	printSummary(cmd, summary)
	if err != nil {
		return err
	}

	if failed := summary.Failed(); failed > 0 {
		cmd.PrintErrf("%d rows were skipped, see the log above\n", failed)
	}
	return nil
}

func printSummary(cmd *cobra.Command, summary importer.Summary) {
	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "DATASET\tFILE\tINSERTED\tEXISTING\tFAILED")

	for _, file := range summary.Files {
		if file.Missing {
			fmt.Fprintf(writer, "%s\t%s\t-\t-\t-\n", file.Dataset, file.Path)
			continue
		}
		fmt.Fprintf(writer, "%s\t%s\t%d\t%d\t%d\n", file.Dataset, file.Path, file.Inserted, file.Existing, file.Failed)
	}

	writer.Flush()
}
