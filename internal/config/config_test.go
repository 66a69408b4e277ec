package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing config file")
	}
	if cfg.Tools.FFmpegBinary != "ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.Tools.FFmpegBinary)
	}
	if cfg.Store.LockAttempts != 5 {
		t.Fatalf("unexpected lock attempts: %d", cfg.Store.LockAttempts)
	}
	if !filepath.IsAbs(cfg.Paths.LibraryDir) {
		t.Fatalf("library dir not absolute: %q", cfg.Paths.LibraryDir)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
library_dir = "` + filepath.Join(dir, "library") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[tools]
ffmpeg_binary = "/opt/ffmpeg/bin/ffmpeg"

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected resolved path %q with exists=true, got %q/%v", path, resolved, exists)
	}
	if cfg.Tools.FFmpegBinary != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("ffmpeg override not applied: %q", cfg.Tools.FFmpegBinary)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("logging level override not applied: %q", cfg.Logging.Level)
	}
	// Unset fields fall back to defaults.
	if cfg.Tools.FFprobeBinary != "ffprobe" {
		t.Fatalf("ffprobe default missing: %q", cfg.Tools.FFprobeBinary)
	}
}

func TestValidateRejectsBadLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging.format error, got %v", err)
	}
}

func TestValidateRejectsBadBackoff(t *testing.T) {
	cfg := Default()
	cfg.Store.LockBackoffMS = 500
	cfg.Store.LockBackoffMaxMS = 100
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "lock_backoff_max_ms") {
		t.Fatalf("expected backoff error, got %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	cfg := Default()
	dir := t.TempDir()
	cfg.Paths.LibraryDir = filepath.Join(dir, "library")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, want := range []string{cfg.AnalysesDir(), cfg.TranscriptsDir(), cfg.ClipsDir(), cfg.Paths.LogDir} {
		info, err := os.Stat(want)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s, err=%v", want, err)
		}
	}
	// Idempotent.
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("second EnsureDirectories: %v", err)
	}
}
