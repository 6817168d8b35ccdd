package controllers

import (
	"context"

	"mockchat/mockchat/services/extract"
	"mockchat/mockchat/sources/storage"
	"mockchat/mockchat/utils/logging"
	"mockchat/mockchat/utils/types"

	"github.com/lithammer/shortuuid/v4"
	"go.uber.org/zap"
)

type UploadController struct {
	files    storage.Attachments
	expirer  *storage.Expirer
	maxBytes int64
}

func NewUploadController(files storage.Attachments, expirer *storage.Expirer, maxBytes int64) *UploadController {
	return &UploadController{files: files, expirer: expirer, maxBytes: maxBytes}
}

func (c *UploadController) MaxBytes() int64 {
	return c.maxBytes
}

// Upload keeps the file until it expires and returns whatever text could be
// extracted from it.
func (c *UploadController) Upload(ctx context.Context, filename string, data []byte) (types.UploadResponse, error) {
	if c.maxBytes > 0 && int64(len(data)) > c.maxBytes {
		return types.UploadResponse{}, ErrFileTooLarge
	}
	id := shortuuid.New()
	if err := c.files.Put(ctx, id, filename, data); err != nil {
		logging.ErrorLogger.Error("failed to store upload", zap.String("filename", filename), zap.Error(err))
		return types.UploadResponse{}, err
	}
	c.expirer.Schedule(id)

	text := extract.Text(filename, data)
	logging.AppLogger.Info("file uploaded",
		zap.String("attachment_id", id),
		zap.String("filename", filename),
		zap.Int("bytes", len(data)),
		zap.Int("text_chars", len(text)))
	return types.UploadResponse{AttachmentID: id, Text: text, Filename: filename}, nil
}
