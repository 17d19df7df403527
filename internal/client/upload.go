package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwalitptl/smarthealth/internal/model"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeFileName lower-cases name and collapses every run of
// non-alphanumerics into one underscore, keeping the extension.
func SanitizeFileName(name string) string {
	name = strings.ToLower(filepath.Base(strings.TrimSpace(name)))
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	base = strings.Trim(nonAlnum.ReplaceAllString(base, "_"), "_")
	ext = nonAlnum.ReplaceAllString(strings.TrimPrefix(ext, "."), "")
	if base == "" {
		base = "file"
	}
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// Upload posts r as a multipart file into folder
func (c *Client) Upload(ctx context.Context, folder, name string, r io.Reader) (model.UploadResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", SanitizeFileName(name))
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return model.UploadResult{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := w.WriteField("folder", folder); err != nil {
		return model.UploadResult{}, fmt.Errorf("failed to write folder field: %w", err)
	}
	if err := w.Close(); err != nil {
		return model.UploadResult{}, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	var out model.UploadResult
	if err := c.send(ctx, http.MethodPost, "/files", nil, &buf, w.FormDataContentType(), &out); err != nil {
		return model.UploadResult{}, err
	}
	return out, nil
}
