package testsupport

import (
	"path/filepath"
	"testing"

	"clipshelf/internal/config"
)

// NewConfig returns a validated config rooted in a per-test temp directory.
// Lock backoff is tightened so contention tests stay fast.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LibraryDir = filepath.Join(dir, "library")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Store.LockBackoffMS = 5
	cfg.Store.LockBackoffMaxMS = 20

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}
