// ABOUTME: Tests for the local operation journal
// ABOUTME: Covers schema creation, append defaults, ordering, and limits

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJournal(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppend_GeneratesIDAndTimestamp(t *testing.T) {
	s := newTestJournal(t)

	e := &Entry{Action: ActionUpload, Target: "report.pdf", Actor: "alice"}
	require.NoError(t, s.Append(context.Background(), e))

	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
}

func TestList_NewestFirst(t *testing.T) {
	s := newTestJournal(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, target := range []string{"old", "middle", "new"} {
		require.NoError(t, s.Append(ctx, &Entry{
			Action:    ActionDownload,
			Target:    target,
			Actor:     "alice",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "new", entries[0].Target)
	assert.Equal(t, "old", entries[2].Target)
	assert.Equal(t, ActionDownload, entries[0].Action)
}

func TestList_Limit(t *testing.T) {
	s := newTestJournal(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(ctx, &Entry{
			Action: ActionSearch,
			Target: "query",
			Actor:  "alice",
		}))
	}

	entries, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestOpen_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Append(context.Background(), &Entry{
		Action: ActionDelete, Target: "f1", Actor: "alice",
	}))
}

func TestJournal_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, &Entry{Action: ActionUpload, Target: "a", Actor: "alice"}))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
