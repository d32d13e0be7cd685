// Package storage keeps uploaded media (post audio, demos, avatars).
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrFileNotFound = errors.New("file not found")

type FileInfo struct {
	ID          string
	Name        string
	ContentType string
	Size        int64
	UploadedAt  time.Time
}

type FileStore interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Open(ctx context.Context, id string) (io.ReadCloser, FileInfo, error)
	Delete(ctx context.Context, id string) error
}
