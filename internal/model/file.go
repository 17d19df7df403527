package model

import (
	"time"
)

// UploadResult is returned by the file endpoint
type UploadResult struct {
	FileName   string    `json:"fileName"`
	UploadedAt time.Time `json:"uploadedAt"`
}
