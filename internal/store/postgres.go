package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"
)

// PostgresStore persists tables in a single sheet_rows relation:
// (tenant, tbl, idx, cells) with cells JSON-encoded. idx preserves insertion
// order per table, which the event resolver relies on.
type PostgresStore struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewPostgresStore(db *dbpg.DB, log *zerolog.Logger) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &PostgresStore{db: db, log: log}, nil
}

func (s *PostgresStore) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := s.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	s.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (s *PostgresStore) ReadTable(ctx context.Context, tenant, table string) ([][]string, error) {
	query := `
		SELECT cells
		FROM sheet_rows
		WHERE tenant = $1 AND tbl = $2
		ORDER BY idx ASC
	`

	rows, err := s.db.QueryContext(ctx, query, tenant, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s/%s: %w", tenant, table, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("failed to decode row cells: %w", err)
		}
		out = append(out, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate table rows: %w", err)
	}

	return out, nil
}

func (s *PostgresStore) AppendRow(ctx context.Context, tenant, table string, row []string) error {
	raw, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to encode row cells: %w", err)
	}

	query := `
		INSERT INTO sheet_rows (tenant, tbl, idx, cells)
		SELECT $1, $2, COALESCE(MAX(idx), -1) + 1, $3
		FROM sheet_rows
		WHERE tenant = $1 AND tbl = $2
	`
	if _, err := s.db.ExecContext(ctx, query, tenant, table, string(raw)); err != nil {
		return fmt.Errorf("failed to append row to %s/%s: %w", tenant, table, err)
	}
	return nil
}

func (s *PostgresStore) UpdateCell(ctx context.Context, tenant, table string, rowIdx, colIdx int, value string) error {
	query := `
		SELECT cells
		FROM sheet_rows
		WHERE tenant = $1 AND tbl = $2 AND idx = $3
	`
	var raw string
	if err := s.db.QueryRowContext(ctx, query, tenant, table, rowIdx).Scan(&raw); err != nil {
		return ErrRowOutOfRange
	}

	var cells []string
	if err := json.Unmarshal([]byte(raw), &cells); err != nil {
		return fmt.Errorf("failed to decode row cells: %w", err)
	}
	if colIdx < 0 || colIdx >= len(cells) {
		return ErrCellOutOfRange
	}
	cells[colIdx] = value

	updated, err := json.Marshal(cells)
	if err != nil {
		return fmt.Errorf("failed to encode row cells: %w", err)
	}

	update := `
		UPDATE sheet_rows
		SET cells = $4
		WHERE tenant = $1 AND tbl = $2 AND idx = $3
	`
	if _, err := s.db.ExecContext(ctx, update, tenant, table, rowIdx, string(updated)); err != nil {
		return fmt.Errorf("failed to update cell in %s/%s: %w", tenant, table, err)
	}
	return nil
}
