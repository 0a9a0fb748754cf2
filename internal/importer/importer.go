// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package importer seeds the database from the CSV exports shipped in static/data.

Files are loaded in dependency order (users, category, genre, titles,
genre_title, review, comments). Each row is inserted with get-or-create
semantics, so re-running an import is harmless. A row that cannot be converted,
references a missing parent or is rejected by the database is logged and
skipped; the import carries on with the next row.

Once every file is loaded the identity sequences are moved past the highest
imported id so that rows created through the API do not collide.
*/
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// DriverName is the database/sql driver the importer opens.
const DriverName = "pgx"

// Open connects to PostgreSQL through database/sql for the importer.
func Open(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("importer: failed to open database: %w", err)
	}
	return db, nil
}

// # Results

// FileSummary counts the outcome of one CSV file.
type FileSummary struct {
	Dataset  string
	Path     string
	Missing  bool
	Inserted int
	Existing int
	Failed   int
}

// Summary is the outcome of a whole import.
type Summary struct {
	Files []FileSummary
}

// Failed reports the number of rows skipped because of errors.
func (summary Summary) Failed() int {
	total := 0
	for _, file := range summary.Files {
		total += file.Failed
	}
	return total
}

// # Importer

// Importer loads CSV datasets into PostgreSQL.
type Importer struct {
	db     *sqlx.DB
	logger *slog.Logger

	// known caches parent ids already confirmed to exist, per table.
	known map[string]map[int64]bool
}

// New constructs an [Importer] over db.
func New(db *sqlx.DB, logger *slog.Logger) *Importer {
	return &Importer{db: db, logger: logger, known: map[string]map[int64]bool{}}
}

/*
Run imports every dataset named by the manifest and resynchronises sequences.

Returns:
  - Summary: Per-file counters
  - error: Only for failures that stop the whole import (unreadable file, sequence reset)
*/
func (importer *Importer) Run(context context.Context, manifest Manifest) (Summary, error) {
	var summary Summary

	for _, set := range datasets {
		file, err := importer.load(context, set, manifest.Path(set))
		summary.Files = append(summary.Files, file)
		if err != nil {
			return summary, err
		}
	}

	if err := importer.resync(context); err != nil {
		return summary, err
	}

	return summary, nil
}

// load imports a single CSV file.
func (importer *Importer) load(context context.Context, set dataset, path string) (FileSummary, error) {
	summary := FileSummary{Dataset: set.name, Path: path}
	logger := importer.logger.With(slog.String("file", path))

	handle, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("import_file_missing")
		summary.Missing = true
		return summary, nil
	}
	if err != nil {
		return summary, fmt.Errorf("importer: failed to open %s: %w", path, err)
	}
	defer handle.Close()

	reader := csv.NewReader(handle)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return summary, nil
	}
	if err != nil {
		return summary, fmt.Errorf("importer: failed to read header of %s: %w", path, err)
	}

	columns, indexes := set.bind(header)
	if len(columns) == 0 {
		return summary, fmt.Errorf("importer: %s has no recognised columns", path)
	}
	query := set.insertQuery(columns)

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Error("import_row_unreadable", slog.Int("line", line), slog.Any("error", err))
			summary.Failed++
			continue
		}

		inserted, err := importer.insert(context, query, columns, indexes, record)
		switch {
		case err != nil:
			logger.Error("import_row_failed", slog.Int("line", line), slog.Any("error", err))
			summary.Failed++
		case inserted:
			summary.Inserted++
		default:
			summary.Existing++
		}
	}

	logger.Info("import_file_loaded",
		slog.Int("inserted", summary.Inserted),
		slog.Int("existing", summary.Existing),
		slog.Int("failed", summary.Failed),
	)
	return summary, nil
}

// insert converts, checks and stores one record. It reports false when the row already existed.
func (importer *Importer) insert(context context.Context, query string, columns []column, indexes []int, record []string) (bool, error) {
	row := make(map[string]any, len(columns))

	for i, col := range columns {
		if indexes[i] >= len(record) {
			return false, fmt.Errorf("column %s: missing cell", col.header)
		}

		value, err := col.convert(record[indexes[i]])
		if err != nil {
			return false, err
		}

		if col.ref != "" && value != nil {
			if err := importer.resolve(context, col, value.(int64)); err != nil {
				return false, err
			}
		}

		row[col.name] = value
	}

	result, err := importer.db.NamedExecContext(context, query, row)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// resolve checks that the parent row referenced by col exists.
func (importer *Importer) resolve(context context.Context, col column, id int64) error {
	if importer.known[col.ref][id] {
		return nil
	}

	var exists bool
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", col.ref)
	if err := importer.db.GetContext(context, &exists, query, id); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("column %s: %s %d does not exist", col.header, col.ref, id)
	}

	if importer.known[col.ref] == nil {
		importer.known[col.ref] = map[int64]bool{}
	}
	importer.known[col.ref][id] = true
	return nil
}

// resync moves every identity sequence past the largest stored id.
func (importer *Importer) resync(context context.Context) error {
	for _, set := range datasets {
		query := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM %s",
			set.table, set.table,
		)
		if _, err := importer.db.ExecContext(context, query); err != nil {
			return fmt.Errorf("importer: failed to resync %s sequence: %w", set.table, err)
		}
	}

	importer.logger.Info("import_sequences_resynced")
	return nil
}
