package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tourflow/internal/adapters/file"
	"github.com/aretw0/tourflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.KeyValueStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	ports.RunKeyValueStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_EscapesKeys(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "../outside/key", "v"))
	_, err := os.Stat(filepath.Join(dir, "..", "outside"))
	assert.True(t, os.IsNotExist(err))

	v, err := store.Get(ctx, "../outside/key")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"../outside/key"}, keys)
}

func TestFileStore_OverwriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	for _, v := range []string{`["a"]`, `["a","b"]`} {
		require.NoError(t, store.Set(ctx, "tourflow_completed", v))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tourflow_completed.val", entries[0].Name())
}

func TestFileStore_EmptyKey(t *testing.T) {
	store := file.New(t.TempDir())
	assert.Error(t, store.Set(context.Background(), "", "v"))
}

func TestFileStore_MissingDirectory(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "absent"))
	keys, err := store.Keys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}
