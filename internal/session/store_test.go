// ABOUTME: Tests for the file-backed credential slot
// ABOUTME: Covers persistence across instances, replacement, and idempotent clear

package session

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "credential"))
}

func TestStore_GetEmpty(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "" {
		t.Errorf("Get() = %q, want empty", got)
	}
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("token-abc"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := s.Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "token-abc" {
		t.Errorf("Get() = %q, want %q", got, "token-abc")
	}
}

func TestStore_LastWriterWins(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("first"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set("second"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, _ := s.Get()
	if got != "second" {
		t.Errorf("Get() = %q, want %q", got, "second")
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential")

	if err := NewStore(path).Set("persisted"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := NewStore(path).Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "persisted" {
		t.Errorf("Get() = %q, want %q", got, "persisted")
	}
}

func TestStore_ClearIdempotent(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("token"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear() error = %v, want nil", err)
	}

	got, _ := s.Get()
	if got != "" {
		t.Errorf("Get() after Clear() = %q, want empty", got)
	}
}

func TestStore_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "credential")
	s := NewStore(path)

	if err := s.Set("token"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("credential file missing: %v", err)
	}
}
