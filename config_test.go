package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_file_size = 1024\nshow_hidden = true\n"), 0o644))

	cfg := loadConfigFile(path, nil)
	assert.Equal(t, int64(1024), cfg.MaxFileSize)
	assert.True(t, cfg.ShowHidden)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, DefaultConfig().MaxClipboardSize, cfg.MaxClipboardSize)
	assert.True(t, cfg.RespectGitignore)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg := loadConfigFile(filepath.Join(t.TempDir(), "nope.toml"), nil)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigMalformedFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_file_size = {{{"), 0o644))

	cfg := loadConfigFile(path, nil)
	assert.Equal(t, DefaultConfig(), cfg)
}
