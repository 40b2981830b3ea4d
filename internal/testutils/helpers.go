// Package testutils holds fixtures shared by the adapter and CLI tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// SeedRepo writes files into a temporary directory and initializes a Loam repository over it.
// It returns the absolute directory path and the repository, failing the test on error.
func SeedRepo(t *testing.T, files map[string]string, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	dir := WriteFiles(t, files)
	repo, err := loam.Init(dir, opts...)
	require.NoError(t, err, "Failed to init loam repo")
	return dir, repo
}

// WriteFiles writes files (name to content) into a fresh temporary directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)

	for name, content := range files {
		p := filepath.Join(absPath, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return absPath
}
