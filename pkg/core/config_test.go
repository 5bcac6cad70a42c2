package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv(RegistryEnv, "")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ProbeCompiler, cfg.ProbeMode)
	assert.Equal(t, DefaultProbeTimeout, cfg.ProbeTimeout)
	assert.Equal(t, 1, cfg.Parallel)
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	t.Setenv(RegistryEnv, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compiler: clang\nprobe_timeout: 5s\nextra_roots: [/opt/sw]\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "clang", cfg.Compiler)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, []string{"/opt/sw"}, cfg.ExtraRoots)
	assert.Equal(t, ProbeCompiler, cfg.ProbeMode, "unset fields keep defaults")
}

func TestLoadConfigRegistryEnv(t *testing.T) {
	t.Setenv(RegistryEnv, "/srv/registry")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("registry_dir: /elsewhere\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/registry", cfg.RegistryDir)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("probe_mode: guess\n"), 0o644))
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "probe_mode")

	require.NoError(t, os.WriteFile(path, []byte("compiler: [\n"), 0o644))
	_, err = LoadConfig(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Setenv(RegistryEnv, "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Compiler = "gcc"
	cfg.ProbeMode = ProbeFS
	require.NoError(t, SaveConfig(cfg, path))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
