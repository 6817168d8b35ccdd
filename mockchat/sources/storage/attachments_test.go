package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalAttachmentsRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "uploads")
	files, err := NewLocalAttachments(dir)
	require.NoError(t, err)

	require.NoError(t, files.Put(ctx, "abc", "notes.txt", []byte("hello")))
	data, err := files.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, files.Delete(ctx, "abc"))
	_, err = os.Stat(filepath.Join(dir, "abc"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	require.NoError(t, files.Delete(ctx, "abc"))
}

func TestLocalAttachmentsRejectsPaths(t *testing.T) {
	files, err := NewLocalAttachments(t.TempDir())
	require.NoError(t, err)
	for _, id := range []string{"", "..", "../x", `a\b`} {
		assert.Error(t, files.Put(context.Background(), id, "f", nil), id)
	}
}

func TestExpirerDeletesAfterTTL(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	files, err := NewLocalAttachments(dir)
	require.NoError(t, err)
	require.NoError(t, files.Put(ctx, "tmp", "a.txt", []byte("x")))

	e := NewExpirer(files, 10*time.Millisecond)
	e.Schedule("tmp")
	assert.Equal(t, 1, e.Pending())

	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "tmp"))
		return os.IsNotExist(err)
	}, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return e.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestExpirerCloseFlushesPending(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	files, err := NewLocalAttachments(dir)
	require.NoError(t, err)
	require.NoError(t, files.Put(ctx, "keep", "a.txt", []byte("x")))

	e := NewExpirer(files, time.Hour)
	e.Schedule("keep")
	e.Close()

	_, err = os.Stat(filepath.Join(dir, "keep"))
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 0, e.Pending())
}
