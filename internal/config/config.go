package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	LibraryDir string `toml:"library_dir"`
	LogDir     string `toml:"log_dir"`
	APIBind    string `toml:"api_bind"`
}

// Tools contains the external transcoder binaries.
type Tools struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Store contains catalog lock tuning.
type Store struct {
	LockAttempts     int `toml:"lock_attempts"`
	LockBackoffMS    int `toml:"lock_backoff_ms"`
	LockBackoffMaxMS int `toml:"lock_backoff_max_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for clipshelf.
//
// Configuration sections by subsystem:
//   - Paths: library root, log directory, and API bind address
//   - Tools: ffmpeg/ffprobe binary overrides
//   - Store: catalog file-lock retry tuning
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Tools   Tools   `toml:"tools"`
	Store   Store   `toml:"store"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/clipshelf/config.toml")
}

// SampleConfig returns the embedded sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("clipshelf.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// CatalogPath returns the location of the catalog document inside the library.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.Paths.LibraryDir, "catalog.json")
}

// AnalysesDir returns the directory holding per-analysis text and JSON files.
func (c *Config) AnalysesDir() string {
	return filepath.Join(c.Paths.LibraryDir, "analyses")
}

// TranscriptsDir returns the directory holding per-analysis transcripts.
func (c *Config) TranscriptsDir() string {
	return filepath.Join(c.Paths.LibraryDir, "transcripts")
}

// ClipsDir returns the root of the date-foldered clip collection.
func (c *Config) ClipsDir() string {
	return filepath.Join(c.Paths.LibraryDir, "clips")
}

// EnsureDirectories creates the library layout and log directory.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.LibraryDir,
		c.AnalysesDir(),
		c.TranscriptsDir(),
		c.ClipsDir(),
		c.Paths.LogDir,
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
