package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jwalitptl/smarthealth/internal/client"
	"github.com/jwalitptl/smarthealth/internal/model"
	apperrors "github.com/jwalitptl/smarthealth/pkg/errors"
)

// Folders the backend accepts uploads into
const (
	FolderLab          = "lab"
	FolderPrescription = "prescriptions"
	FolderAvatar       = "avatars"
)

type Service struct {
	client *client.Client
}

func NewService(c *client.Client) *Service {
	return &Service{client: c}
}

func (s *Service) Upload(ctx context.Context, folder, name string, r io.Reader) (model.UploadResult, error) {
	if folder == "" {
		return model.UploadResult{}, apperrors.Precondition("Folder is required")
	}
	res, err := s.client.Upload(ctx, folder, name, r)
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return res, nil
}

// UploadPath uploads a local file
func (s *Service) UploadPath(ctx context.Context, folder, path string) (model.UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.UploadResult{}, apperrors.Precondition(fmt.Sprintf("Cannot open %s", path))
	}
	defer f.Close()
	return s.Upload(ctx, folder, filepath.Base(path), f)
}
