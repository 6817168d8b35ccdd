package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Attachments keeps uploaded files until they expire.
type Attachments interface {
	Put(ctx context.Context, id, filename string, data []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

// LocalAttachments stores uploads as files in a directory.
type LocalAttachments struct {
	dir string
}

func NewLocalAttachments(dir string) (*LocalAttachments, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create upload dir %s", dir)
	}
	return &LocalAttachments{dir: dir}, nil
}

func (l *LocalAttachments) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", errors.Errorf("invalid attachment id %q", id)
	}
	return filepath.Join(l.dir, id), nil
}

func (l *LocalAttachments) Put(_ context.Context, id, _ string, data []byte) error {
	p, err := l.path(id)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return errors.Wrap(err, "create attachment")
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		f.Close()
		return errors.Wrap(err, "write attachment")
	}
	return f.Close()
}

func (l *LocalAttachments) Get(_ context.Context, id string) ([]byte, error) {
	p, err := l.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, errors.Wrap(err, "read attachment")
	}
	return data, nil
}

func (l *LocalAttachments) Delete(_ context.Context, id string) error {
	p, err := l.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "delete attachment")
	}
	return nil
}
