package ingest

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the on-disk settings. Every field has a sane default;
// command-line flags override whatever the file provides.
type Config struct {
	MaxFileSize      int64 `toml:"max_file_size"`
	MaxClipboardSize int   `toml:"max_clipboard_size"`
	RespectGitignore bool  `toml:"respect_gitignore"`
	ShowHidden       bool  `toml:"show_hidden"`
	IncludeMetadata  bool  `toml:"include_metadata"`
}

// DefaultConfig returns the built-in settings: 2 MiB caps, gitignore
// respected, hidden files and metadata off.
func DefaultConfig() Config {
	return Config{
		MaxFileSize:      2 * 1024 * 1024,
		MaxClipboardSize: 2 * 1024 * 1024,
		RespectGitignore: true,
	}
}

// ConfigPath returns the per-user config file location.
func ConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ingest", "config.toml"), nil
}

// LoadConfig reads the user's config file. A missing or unreadable file
// yields the defaults; a malformed one is reported via the logger and also
// yields the defaults. Configuration trouble never aborts a run.
func LoadConfig(logger *slog.Logger) Config {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg
	}
	return loadConfigFile(path, logger)
}

func loadConfigFile(path string, logger *slog.Logger) Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		if logger != nil {
			logger.Warn("ignoring malformed config", "path", path, "error", err)
		}
		return DefaultConfig()
	}
	return cfg
}
