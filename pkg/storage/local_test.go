package storage

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	info, err := s.SaveUpload(ctx, "user-1", "sales.csv", []byte("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, "sales.csv", info.Name)
	assert.Equal(t, int64(8), info.Size)

	rc, err := s.Open(ctx, info.Path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "a,b\n1,2\n", string(data))

	require.NoError(t, s.Delete(ctx, info.Path))
	_, err = s.Open(ctx, info.Path)
	assert.Error(t, err)
}

func TestLocalStorageRejectsEscapes(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Open(ctx, "/etc/passwd")
	assert.Error(t, err)

	info, err := s.SaveUpload(ctx, "../../outside", "../../../evil.csv", []byte("x"))
	require.NoError(t, err)
	assert.True(t, s.contains(info.Path))
}

func TestPruneOlderThan(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	old, err := s.SaveUpload(ctx, "user-1", "old.csv", []byte("a\n"))
	require.NoError(t, err)
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old.Path, stale, stale))

	fresh, err := s.SaveUpload(ctx, "user-1", "fresh.csv", []byte("b\n"))
	require.NoError(t, err)

	removed, err := s.PruneOlderThan(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = s.Open(ctx, old.Path)
	assert.Error(t, err)
	rc, err := s.Open(ctx, fresh.Path)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
}
