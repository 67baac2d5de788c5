package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobboard/internal/utils"
)

func TestLocalStore_UploadOpen(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root, "/uploads")
	require.NoError(t, err)

	p, err := s.Upload(context.Background(), "cv/abc/file.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "cv/abc/file.pdf", p)

	_, err = os.Stat(filepath.Join(root, "cv", "abc", "file.pdf"))
	require.NoError(t, err)

	rc, err := s.Open(context.Background(), p)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(b))

	assert.Equal(t, "/uploads/cv/abc/file.pdf", s.PublicURL(p))
}

func TestLocalStore_NoTempLeftovers(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root, "/uploads")
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), "images/jobs/a.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(root, "images", "jobs"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.png", entries[0].Name())
}

func TestLocalStore_OpenMissing(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = s.Open(context.Background(), "cv/nope.pdf")
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = s.Open(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestLocalStore_Delete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	p, err := s.Upload(ctx, "cv/abc/old.pdf", "application/pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, p))
	_, err = s.Open(ctx, p)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	assert.NoError(t, s.Delete(ctx, p), "second delete")
	assert.ErrorIs(t, s.Delete(ctx, "../outside.pdf"), ErrInvalidPath)
}

func TestCleanObjectName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "cv/a/b.pdf", want: "cv/a/b.pdf"},
		{in: "cv//a/./b.pdf", want: "cv/a/b.pdf"},
		{in: `images\jobs\x.png`, want: "images/jobs/x.png"},
		{in: "/etc/passwd", wantErr: true},
		{in: "../secret", wantErr: true},
		{in: "cv/../../x", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CleanObjectName(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
