package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithNoFileOrEnv(t *testing.T) {
	os.Unsetenv(envDataRoot)
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, defaultDataRoot, s.DataRoot)
}

func TestLoadFromFile(t *testing.T) {
	os.Unsetenv(envDataRoot)
	dir := t.TempDir()
	path := filepath.Join(dir, "rowkeep.toml")
	require.NoError(t, os.WriteFile(path, []byte(`data_root = "/tmp/custom"`), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom", s.DataRoot)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rowkeep.toml")
	require.NoError(t, os.WriteFile(path, []byte(`data_root = "/tmp/custom"`), 0o644))

	t.Setenv(envDataRoot, "/tmp/from-env")
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env", s.DataRoot)
}

func TestValidateCreatesAndAcceptsDirectory(t *testing.T) {
	dir := t.TempDir()
	s := &Settings{DataRoot: filepath.Join(dir, "nested")}
	require.NoError(t, s.Validate())

	info, err := os.Stat(s.DataRoot)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
