// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a SQLite history of converted files so earlier batch
// runs can be listed and exported.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/imgbatch/pkg/types"
)

const defaultMaxResults = 50

// Ledger records conversion outcomes in a SQLite database.
type Ledger struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the ledger database at cfg.Path, creating its
// parent directory and schema when missing.
func Open(cfg types.LedgerConfig) (*Ledger, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("ledger path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	l := &Ledger{db: db, maxResults: maxResults}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			name TEXT NOT NULL,
			mode TEXT NOT NULL,
			input_dir TEXT,
			output_dir TEXT,
			width INTEGER,
			height INTEGER,
			status TEXT NOT NULL,
			error TEXT,
			converted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_run_id ON conversions(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_mode ON conversions(mode)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts one conversion outcome.
func (l *Ledger) Record(ctx context.Context, rec types.ConversionRecord) error {
	at := rec.ConvertedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO conversions (run_id, name, mode, input_dir, output_dir, width, height, status, error, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Name, rec.Mode, rec.InputDir, rec.OutputDir,
		rec.Width, rec.Height, string(rec.Status), rec.Error,
		at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting record for %s: %w", rec.Name, err)
	}
	return nil
}

// Query filters a listing. Empty fields match everything.
type Query struct {
	Mode   string
	RunID  string
	Status types.ConversionStatus

	// Limit caps the number of records. Zero uses the ledger default.
	Limit int
}

// List returns matching records, newest first.
func (l *Ledger) List(ctx context.Context, q Query) ([]types.ConversionRecord, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = l.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT run_id, name, mode, input_dir, output_dir, width, height, status, error, converted_at
		FROM conversions WHERE 1=1`)
	if q.Mode != "" {
		qb.WriteString(` AND mode = ?`)
		args = append(args, q.Mode)
	}
	if q.RunID != "" {
		qb.WriteString(` AND run_id = ?`)
		args = append(args, q.RunID)
	}
	if q.Status != "" {
		qb.WriteString(` AND status = ?`)
		args = append(args, string(q.Status))
	}
	qb.WriteString(` ORDER BY id DESC LIMIT ?`)
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	records := make([]types.ConversionRecord, 0)
	for rows.Next() {
		var (
			rec                 types.ConversionRecord
			inputDir, outputDir sql.NullString
			errMsg              sql.NullString
			status, at          string
		)
		if err := rows.Scan(&rec.RunID, &rec.Name, &rec.Mode, &inputDir, &outputDir,
			&rec.Width, &rec.Height, &status, &errMsg, &at); err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}
		rec.InputDir = inputDir.String
		rec.OutputDir = outputDir.String
		rec.Error = errMsg.String
		rec.Status = types.ConversionStatus(status)
		if t, err := time.Parse(time.RFC3339Nano, at); err == nil {
			rec.ConvertedAt = t
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ledger rows: %w", err)
	}
	return records, nil
}
