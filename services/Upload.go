package services

import (
	"context"
	"io"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/SuperDex7/FeatureMe-sub000/storage"
)

// Upload is a file received from a client, opened lazily.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

func (u Upload) isImage() bool {
	return strings.HasPrefix(u.ContentType, "image/")
}

func storeUpload(ctx context.Context, files storage.FileStore, u Upload) (string, error) {
	r, err := u.Open()
	if err != nil {
		return "", err
	}
	defer r.Close()
	return files.Upload(ctx, u.Name, u.ContentType, r)
}

// storeUploads stores every upload concurrently. On failure the files that
// did make it are removed again.
func storeUploads(ctx context.Context, files storage.FileStore, uploads []Upload) ([]string, error) {
	ids := make([]string, len(uploads))
	g, gctx := errgroup.WithContext(ctx)
	for i, u := range uploads {
		i, u := i, u
		g.Go(func() error {
			id, err := storeUpload(gctx, files, u)
			if err != nil {
				return err
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		removeFiles(context.WithoutCancel(ctx), files, ids)
		return nil, err
	}
	return ids, nil
}

func removeFiles(ctx context.Context, files storage.FileStore, ids []string) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		if err := files.Delete(ctx, id); err != nil {
			log.Printf("removing file %s: %v", id, err)
		}
	}
}
