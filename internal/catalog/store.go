package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"clipshelf/internal/config"
	"clipshelf/internal/fileutil"
	"clipshelf/internal/logging"
)

// Store manages catalog persistence backed by a locked JSON document.
type Store struct {
	path       string
	lockPath   string
	attempts   int
	backoff    time.Duration
	backoffMax time.Duration
	logger     *slog.Logger

	mu       sync.RWMutex
	snapshot *Catalog
}

// Open ensures the library layout exists and loads the catalog, creating an
// empty one when the document is missing. Idempotent.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("catalog store requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, wrap(ErrStoreIO, "ensure directories", err)
	}

	store := &Store{
		path:       cfg.CatalogPath(),
		lockPath:   cfg.CatalogPath() + ".lock",
		attempts:   cfg.Store.LockAttempts,
		backoff:    time.Duration(cfg.Store.LockBackoffMS) * time.Millisecond,
		backoffMax: time.Duration(cfg.Store.LockBackoffMaxMS) * time.Millisecond,
		logger:     logger,
	}
	if err := store.Initialize(); err != nil {
		return nil, err
	}
	return store, nil
}

// Initialize loads the catalog into the snapshot cache, persisting an empty
// document first when none exists on disk.
func (s *Store) Initialize() error {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		if err := s.Transaction(func(*Catalog) error { return nil }); err != nil {
			return err
		}
		s.logger.Info("created empty catalog", slog.String("path", s.path))
		return nil
	}
	return s.Reload()
}

// Path returns the catalog document location.
func (s *Store) Path() string {
	return s.path
}

// Transaction reloads the catalog from disk, applies mutate to the in-memory
// structure, and persists the result. This is the only path that changes
// state. The filesystem lock is retried with doubling backoff; exhaustion
// fails the whole operation with no partial apply.
func (s *Store) Transaction(mutate func(*Catalog) error) error {
	lock := flock.New(s.lockPath)
	locked := false
	backoff := s.backoff
	for attempt := 0; attempt < s.attempts; attempt++ {
		ok, err := lock.TryLock()
		if err != nil {
			return wrap(ErrStoreIO, "acquire catalog lock", err)
		}
		if ok {
			locked = true
			break
		}
		time.Sleep(backoff)
		backoff *= 2
		if backoff > s.backoffMax {
			backoff = s.backoffMax
		}
	}
	if !locked {
		return wrap(ErrStoreIO, fmt.Sprintf("catalog lock still held after %d attempts", s.attempts), nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release catalog lock", slog.String("error", err.Error()))
		}
	}()

	cat, err := s.load()
	if err != nil {
		return err
	}
	if err := mutate(cat); err != nil {
		return err
	}
	cat.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	if err := s.persist(cat); err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = cat
	s.mu.Unlock()
	return nil
}

// Reload refreshes the snapshot cache from disk without writing.
func (s *Store) Reload() error {
	cat, err := s.load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snapshot = cat
	s.mu.Unlock()
	return nil
}

// load reads and parses the catalog document. A missing file yields an empty
// catalog; a parse failure fails fast rather than silently dropping data.
func (s *Store) load() (*Catalog, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return newCatalog(), nil
	}
	if err != nil {
		return nil, wrap(ErrStoreIO, "read catalog", err)
	}

	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, wrap(ErrStoreIO, "parse catalog", err)
	}
	if cat.Clips == nil {
		cat.Clips = map[string]Clip{}
	}
	if cat.Analyses == nil {
		cat.Analyses = []Analysis{}
	}
	if cat.SchemaVersion == "" {
		cat.SchemaVersion = SchemaVersion
	}
	return &cat, nil
}

// persist refreshes the .backup sibling, writes the serialized catalog to a
// .tmp sibling, and renames it over the original.
func (s *Store) persist(cat *Catalog) error {
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return wrap(ErrStoreIO, "serialize catalog", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		if err := fileutil.CopyFile(s.path, s.path+".backup"); err != nil {
			return wrap(ErrStoreIO, "refresh catalog backup", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return wrap(ErrStoreIO, "write catalog temp file", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return wrap(ErrStoreIO, "replace catalog", err)
	}
	return nil
}

// view runs fn against the cached snapshot under a read lock.
func (s *Store) view(fn func(*Catalog)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return
	}
	fn(s.snapshot)
}
