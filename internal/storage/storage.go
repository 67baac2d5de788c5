package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var ErrInvalidPath = errors.New("storage: invalid object path")

// Store keeps uploaded files. Stored paths are relative object names such
// as "cv/<id>/<uuid>.pdf"; they are what the documents record.
type Store interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
	// Open fails with utils.ErrNotFound when nothing is stored under storedPath.
	Open(ctx context.Context, storedPath string) (io.ReadCloser, error)
	// Delete removes storedPath. Deleting a missing object is not an error.
	Delete(ctx context.Context, storedPath string) error
	// PublicURL is the address browsers fetch publicly served objects from.
	PublicURL(storedPath string) string
}

// CleanObjectName normalises name and rejects absolute or escaping paths.
func CleanObjectName(name string) (string, error) {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	if name == "" || strings.HasPrefix(name, "/") {
		return "", ErrInvalidPath
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidPath
	}
	return clean, nil
}
