package store

import (
	"context"
	"errors"
)

var (
	ErrRowOutOfRange  = errors.New("row index out of range")
	ErrCellOutOfRange = errors.New("cell index out of range")
)

// TableStore is the spreadsheet-style backend the registration pipeline runs
// against. A tenant owns a set of named tables; each table is an ordered list
// of rows and each row an ordered list of string cells. Reading a table that
// was never written returns an empty slice, not an error. AppendRow is atomic
// per row; there are no guarantees across calls.
type TableStore interface {
	ReadTable(ctx context.Context, tenant, table string) ([][]string, error)
	AppendRow(ctx context.Context, tenant, table string, row []string) error
	// UpdateCell rewrites a single cell in place. Used only by the admin
	// surface to flip status cells; the registration pipeline never updates.
	UpdateCell(ctx context.Context, tenant, table string, rowIdx, colIdx int, value string) error
}
