package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yoockh/jobboard/internal/utils"
)

// LocalStore writes objects below a directory on disk.
type LocalStore struct {
	root      string
	urlPrefix string
}

// NewLocalStore creates root if needed. urlPrefix is the route the
// directory is mounted on, e.g. "/uploads".
func NewLocalStore(root, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{root: root, urlPrefix: urlPrefix}, nil
}

func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) Upload(ctx context.Context, objectName string, _ string, r io.Reader) (string, error) {
	name, err := CleanObjectName(objectName)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", err
	}
	return name, nil
}

func (s *LocalStore) Open(_ context.Context, storedPath string) (io.ReadCloser, error) {
	name, err := CleanObjectName(storedPath)
	if err != nil {
		return nil, utils.ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, utils.ErrNotFound
	}
	return f, err
}

func (s *LocalStore) Delete(_ context.Context, storedPath string) error {
	name, err := CleanObjectName(storedPath)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *LocalStore) PublicURL(storedPath string) string {
	return s.urlPrefix + "/" + storedPath
}
