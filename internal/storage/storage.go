// Package storage persists raw resume documents by opaque key.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

// maxSuffix bounds the collision search in SaveUnique.
const maxSuffix = 10000

// Storage is the document store used by the upload pipeline.
type Storage interface {
	Exists(ctx context.Context, key string) (bool, error)
	Save(ctx context.Context, key string, content []byte) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// SaveUnique saves content under dir/filename. If that key is taken it tries
// name_1.ext, name_2.ext and so on, returning the key actually written.
func SaveUnique(ctx context.Context, s Storage, dir, filename string, content []byte) (string, error) {
	filename = path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if filename == "." || filename == "/" || filename == "" {
		return "", fmt.Errorf("invalid filename %q", filename)
	}

	ext := path.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	for i := 0; i <= maxSuffix; i++ {
		name := filename
		if i > 0 {
			name = fmt.Sprintf("%s_%d%s", base, i, ext)
		}
		key := path.Join(dir, name)

		exists, err := s.Exists(ctx, key)
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", key, err)
		}
		if exists {
			continue
		}
		if err := s.Save(ctx, key, content); err != nil {
			return "", fmt.Errorf("saving %s: %w", key, err)
		}
		return key, nil
	}
	return "", fmt.Errorf("no free name for %s after %d attempts", filename, maxSuffix)
}

// ReadAll opens key and reads it fully.
func ReadAll(ctx context.Context, s Storage, key string) ([]byte, error) {
	rc, err := s.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return data, nil
}

func joinURL(base, key string) string {
	if base == "" {
		return key
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
