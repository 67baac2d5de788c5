package handlers

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobboard/internal/services"
	"github.com/yoockh/jobboard/internal/utils"
)

// upload is an opened multipart file whose first bytes were sniffed.
type upload struct {
	name string
	size int64
	file multipart.File
	r    io.Reader
}

func (u *upload) Close() error { return u.file.Close() }

// openUpload opens the multipart field and checks the sniffed content
// type against what the extension promises.
func openUpload(c *gin.Context, op, field string, accept func(ext, sniffed string) bool) (*upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("missing multipart field '%s'", field), err)
	}
	file, err := fh.Open()
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to open upload", err)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		file.Close()
		return nil, utils.E(utils.CodeInternal, op, "failed to read upload", err)
	}
	head = head[:n]

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !accept(ext, http.DetectContentType(head)) {
		file.Close()
		return nil, utils.E(utils.CodeInvalidArgument, op, "file content does not match its extension", nil)
	}

	return &upload{
		name: fh.Filename,
		size: fh.Size,
		file: file,
		r:    io.MultiReader(bytes.NewReader(head), file),
	}, nil
}

func acceptCV(ext, sniffed string) bool {
	switch ext {
	case ".pdf":
		return sniffed == "application/pdf"
	case ".docx":
		// docx is a zip container
		return sniffed == "application/zip"
	case ".doc":
		return sniffed == "application/octet-stream"
	}
	// unknown extensions are rejected by the service with a clearer message
	return true
}

func acceptImage(ext, sniffed string) bool {
	switch ext {
	case ".jpg", ".jpeg":
		return sniffed == "image/jpeg"
	case ".png":
		return sniffed == "image/png"
	case ".webp":
		return sniffed == "image/webp"
	}
	return true
}

func sendFile(c *gin.Context, f *services.FileDownload) {
	defer f.Body.Close()
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": f.Name})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition)
	c.DataFromReader(http.StatusOK, -1, f.ContentType, f.Body, nil)
}
