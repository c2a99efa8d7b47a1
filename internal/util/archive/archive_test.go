package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "nested"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM scratch\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "nested", "main.go"), []byte("package main\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref\n"), 0o644))
	return dir
}

func readTar(t *testing.T, r io.Reader) map[string]string {
	t.Helper()
	out := map[string]string{}
	tr := tar.NewReader(r)
	for {
		h, err := tr.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		body, err := io.ReadAll(tr)
		require.NoError(t, err)
		out[h.Name] = string(body)
	}
}

func TestTar_SkipsMatchingEntries(t *testing.T) {
	t.Parallel()

	dir := writeTree(t)
	var buf bytes.Buffer
	require.NoError(t, Tar(dir, &buf, func(rel string) bool { return rel == ".git" }))

	entries := readTar(t, &buf)
	assert.Equal(t, "FROM scratch\n", entries["Dockerfile"])
	assert.Equal(t, "package main\n", entries["src/nested/main.go"])
	assert.Contains(t, entries, "src/")
	assert.NotContains(t, entries, ".git/")
	assert.NotContains(t, entries, ".git/HEAD")
}

func TestTarGz(t *testing.T) {
	t.Parallel()

	data, err := TarGz(writeTree(t))
	require.NoError(t, err)

	zr, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	entries := readTar(t, zr)
	assert.Equal(t, "ref\n", entries[".git/HEAD"])
}

func TestTarGz_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := TarGz(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
