package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasticrookie/portfolio"
)

// exerciseStore runs the behaviour every Store must share.
func exerciseStore(t *testing.T, s portfolio.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, portfolio.TradesSlot)
	assert.ErrorIs(t, err, portfolio.ErrSlotNotFound)

	require.NoError(t, s.Put(ctx, portfolio.TradesSlot, []byte(`[1]`)))
	require.NoError(t, s.Put(ctx, portfolio.TradesSlot, []byte(`[1,2]`)))
	data, err := s.Get(ctx, portfolio.TradesSlot)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))

	_, err = s.Get(ctx, portfolio.WatchlistSlot)
	assert.ErrorIs(t, err, portfolio.ErrSlotNotFound, "slots are independent")
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemory_CopiesData(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	buf := []byte("abc")
	require.NoError(t, m.Put(ctx, "x", buf))
	buf[0] = 'z'

	got, err := m.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "store")
	f, err := NewFile(dir)
	require.NoError(t, err)
	exerciseStore(t, f)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary file must be left behind")
	assert.Equal(t, "trades.json", entries[0].Name())
}

func TestFile_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)

	ledger := portfolio.NewLedger(f)
	_, err = ledger.Add(ctx, "AAPL", portfolio.Buy, 3, 150)
	require.NoError(t, err)

	reopened, err := NewFile(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, portfolio.LoadLedger(ctx, reopened).Len())
}

func TestFile_InvalidSlotName(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, f.Put(context.Background(), "../escape", []byte("x")))
	_, err = f.Get(context.Background(), "a/b")
	assert.Error(t, err)
}

func TestFile_CancelledContext(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, f.Put(ctx, "trades", []byte("[]")), context.Canceled)
}
