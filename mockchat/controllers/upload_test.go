package controllers

import (
	"context"
	"testing"
	"time"

	"mockchat/mockchat/sources/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUpload(t *testing.T, maxBytes int64) (*UploadController, *storage.LocalAttachments, *storage.Expirer) {
	t.Helper()
	files, err := storage.NewLocalAttachments(t.TempDir())
	require.NoError(t, err)
	expirer := storage.NewExpirer(files, time.Hour)
	t.Cleanup(expirer.Close)
	return NewUploadController(files, expirer, maxBytes), files, expirer
}

func TestUploadText(t *testing.T) {
	ctx := context.Background()
	ctrl, files, expirer := newTestUpload(t, 1024)

	resp, err := ctrl.Upload(ctx, "notes.txt", []byte("line one\nline two"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AttachmentID)
	assert.Equal(t, "notes.txt", resp.Filename)
	assert.Equal(t, "line one\nline two", resp.Text)
	assert.Equal(t, 1, expirer.Pending())

	stored, err := files.Get(ctx, resp.AttachmentID)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", string(stored))
}

func TestUploadOtherTypesHaveNoText(t *testing.T) {
	ctrl, _, _ := newTestUpload(t, 1024)
	resp, err := ctrl.Upload(context.Background(), "photo.png", []byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	assert.Equal(t, "", resp.Text)
}

func TestUploadBrokenPDF(t *testing.T) {
	ctrl, _, _ := newTestUpload(t, 1024)
	resp, err := ctrl.Upload(context.Background(), "broken.pdf", []byte("not a pdf"))
	require.NoError(t, err)
	assert.Equal(t, "[Could not extract text from broken.pdf]", resp.Text)
}

func TestUploadTooLarge(t *testing.T) {
	ctrl, _, expirer := newTestUpload(t, 4)
	_, err := ctrl.Upload(context.Background(), "big.txt", []byte("12345"))
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, 0, expirer.Pending())
}

func TestUploadIDsAreUnique(t *testing.T) {
	ctrl, _, _ := newTestUpload(t, 0)
	a, err := ctrl.Upload(context.Background(), "a.txt", []byte("a"))
	require.NoError(t, err)
	b, err := ctrl.Upload(context.Background(), "a.txt", []byte("a"))
	require.NoError(t, err)
	assert.NotEqual(t, a.AttachmentID, b.AttachmentID)
}
