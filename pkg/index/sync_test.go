package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallReplacesDeps(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "zlib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "zlib", "index.toml"), []byte(`libs = ["z"]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "math.yaml"), []byte("packages: []\n"), 0o644))

	cache := t.TempDir()
	dst := DepsDir(cache)
	require.NoError(t, os.MkdirAll(filepath.Join(dst, "stale"), 0o755))

	n, err := install(src, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(filepath.Join(dst, "zlib", "index.toml"))
	require.NoError(t, err)
	assert.Equal(t, `libs = ["z"]`, string(data))

	assert.NoDirExists(t, filepath.Join(dst, "stale"))
	assert.NoDirExists(t, dst+".new")
	assert.NoDirExists(t, dst+".old")
}

func TestInstallMissingSourceKeepsOld(t *testing.T) {
	cache := t.TempDir()
	dst := DepsDir(cache)
	require.NoError(t, os.MkdirAll(filepath.Join(dst, "zlib"), 0o755))

	_, err := install(filepath.Join(t.TempDir(), "deps"), dst)
	require.Error(t, err)
	assert.DirExists(t, filepath.Join(dst, "zlib"))
}
