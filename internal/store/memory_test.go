package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RamezHany/Edit/internal/store"
)

func TestMemoryStore_AppendAndRead(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	rows, err := st.ReadTable(ctx, "acme", "events")
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, st.AppendRow(ctx, "acme", "events", []string{"first"}))
	require.NoError(t, st.AppendRow(ctx, "acme", "events", []string{"second", "extra"}))

	rows, err = st.ReadTable(ctx, "acme", "events")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"first"}, rows[0])
	assert.Equal(t, []string{"second", "extra"}, rows[1])
}

func TestMemoryStore_TenantIsolation(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, st.AppendRow(ctx, "acme", "events", []string{"a"}))
	require.NoError(t, st.AppendRow(ctx, "globex", "events", []string{"b"}))

	rows, err := st.ReadTable(ctx, "acme", "events")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0][0])
}

func TestMemoryStore_UpdateCell(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, st.AppendRow(ctx, "acme", "events", []string{"name", "enabled"}))
	require.NoError(t, st.UpdateCell(ctx, "acme", "events", 0, 1, "disabled"))

	rows, err := st.ReadTable(ctx, "acme", "events")
	require.NoError(t, err)
	assert.Equal(t, "disabled", rows[0][1])

	assert.ErrorIs(t, st.UpdateCell(ctx, "acme", "events", 5, 0, "x"), store.ErrRowOutOfRange)
	assert.ErrorIs(t, st.UpdateCell(ctx, "acme", "events", 0, 5, "x"), store.ErrCellOutOfRange)
}

func TestMemoryStore_ReadReturnsCopies(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, st.AppendRow(ctx, "acme", "events", []string{"original"}))

	rows, err := st.ReadTable(ctx, "acme", "events")
	require.NoError(t, err)
	rows[0][0] = "mutated"

	fresh, err := st.ReadTable(ctx, "acme", "events")
	require.NoError(t, err)
	assert.Equal(t, "original", fresh[0][0])
}
