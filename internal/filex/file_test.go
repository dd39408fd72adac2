package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesDirectory(t *testing.T) {
	tmp := t.TempDir()

	got, err := EnsureDir(filepath.Join(tmp, "cache", "blobs"))
	require.NoError(t, err)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")
}

func TestEnsureDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "cache")

	first, err := EnsureDir(dir)
	require.NoError(t, err)

	second, err := EnsureDir(dir)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "cache")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o660))

	_, err := EnsureDir(target)
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestWriteTemp_WritesContentToFreshFile(t *testing.T) {
	tmp := t.TempDir()

	p1, err := WriteTemp(tmp, "rec-*.bin", []byte("one"))
	require.NoError(t, err)
	p2, err := WriteTemp(tmp, "rec-*.bin", []byte("two"))
	require.NoError(t, err)

	require.NotEqual(t, p1, p2, "each call must produce a distinct file")

	b, err := os.ReadFile(p1)
	require.NoError(t, err)
	require.Equal(t, []byte("one"), b)

	b, err = os.ReadFile(p2)
	require.NoError(t, err)
	require.Equal(t, []byte("two"), b)
}

func TestWriteTemp_FailsOnMissingDir(t *testing.T) {
	_, err := WriteTemp(filepath.Join(t.TempDir(), "nope"), "rec-*.bin", []byte("x"))
	require.Error(t, err)
}
