package store

import (
	"context"
	"sync"
)

// MemoryStore keeps tables in process memory. It backs the default local
// configuration and the test suite.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][][]string)}
}

func tableKey(tenant, table string) string {
	return tenant + "\x00" + table
}

func (m *MemoryStore) ReadTable(_ context.Context, tenant, table string) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.tables[tableKey(tenant, table)]
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (m *MemoryStore) AppendRow(_ context.Context, tenant, table string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := tableKey(tenant, table)
	m.tables[key] = append(m.tables[key], append([]string(nil), row...))
	return nil
}

func (m *MemoryStore) UpdateCell(_ context.Context, tenant, table string, rowIdx, colIdx int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.tables[tableKey(tenant, table)]
	if rowIdx < 0 || rowIdx >= len(rows) {
		return ErrRowOutOfRange
	}
	if colIdx < 0 || colIdx >= len(rows[rowIdx]) {
		return ErrCellOutOfRange
	}
	rows[rowIdx][colIdx] = value
	return nil
}
