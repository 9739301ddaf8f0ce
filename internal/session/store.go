// ABOUTME: File-backed single-slot store for the raw session credential
// ABOUTME: Atomic last-writer-wins replacement, survives process restarts

package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store holds at most one credential in a file on disk. The zero value
// is not usable; construct with NewStore.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store backed by the file at path. The file is not
// touched until the first Set.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Get returns the stored credential, or "" when no credential exists.
// The value is re-read from disk on every call; callers must not cache it.
func (s *Store) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading credential: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Set replaces the stored credential. The write goes through a temp file
// and rename so a crash never leaves a torn slot.
func (s *Store) Set(credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating credential directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credential-*")
	if err != nil {
		return fmt.Errorf("creating temp credential file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(credential + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing credential: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting credential file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing credential file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing credential file: %w", err)
	}
	return nil
}

// Clear removes the stored credential. Clearing an already-empty slot
// is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing credential: %w", err)
	}
	return nil
}
