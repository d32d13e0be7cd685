package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultContentType = "application/octet-stream"

type GridFSStore struct {
	bucket *gridfs.Bucket
}

func NewGridFSStore(bucket *gridfs.Bucket) *GridFSStore {
	return &GridFSStore{bucket: bucket}
}

func (s *GridFSStore) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	if contentType == "" {
		contentType = defaultContentType
	}
	fileID := primitive.NewObjectID()
	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})

	uploadStream, err := s.bucket.OpenUploadStreamWithID(fileID, name, opts)
	if err != nil {
		return "", err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = uploadStream.SetWriteDeadline(deadline)
	}
	if _, err := io.Copy(uploadStream, r); err != nil {
		_ = uploadStream.Abort()
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if err := uploadStream.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return fileID.Hex(), nil
}

func (s *GridFSStore) Open(ctx context.Context, id string) (io.ReadCloser, FileInfo, error) {
	fileID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, FileInfo{}, ErrFileNotFound
	}
	stream, err := s.bucket.OpenDownloadStream(fileID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, FileInfo{}, ErrFileNotFound
		}
		return nil, FileInfo{}, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetReadDeadline(deadline)
	}

	file := stream.GetFile()
	info := FileInfo{
		ID:          id,
		Name:        file.Name,
		Size:        file.Length,
		UploadedAt:  file.UploadDate,
		ContentType: defaultContentType,
	}
	if file.Metadata != nil {
		if ct, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok && ct != "" {
			info.ContentType = ct
		}
	}
	return stream, info, nil
}

func (s *GridFSStore) Delete(ctx context.Context, id string) error {
	fileID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrFileNotFound
	}
	if err := s.bucket.DeleteContext(ctx, fileID); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrFileNotFound
		}
		return err
	}
	return nil
}
