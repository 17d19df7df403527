package mockapi

import (
	"io"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/smarthealth/pkg/httputil"
)

const (
	defaultFolder = "misc"
	maxUploadSize = 10 << 20
)

type storedFile struct {
	contentType string
	data        []byte
}

type fileStore struct {
	mu    sync.RWMutex
	files map[string]storedFile
}

func newFileStore() *fileStore {
	return &fileStore{files: map[string]storedFile{}}
}

func (s *Server) uploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "file is required")
		return
	}
	if header.Size > maxUploadSize {
		httputil.RespondWithError(c, http.StatusRequestEntityTooLarge, "File is too large")
		return
	}

	f, err := header.Open()
	if err != nil {
		respondErr(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respondErr(c, err)
		return
	}

	folder := strings.Trim(path.Clean("/"+c.PostForm("folder")), "/")
	if folder == "" {
		folder = defaultFolder
	}
	name := folder + "/" + path.Base(header.Filename)

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	s.files.mu.Lock()
	s.files.files[name] = storedFile{contentType: contentType, data: data}
	s.files.mu.Unlock()

	httputil.RespondWithSuccess(c, http.StatusCreated, gin.H{
		"fileName":   name,
		"uploadedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) downloadFile(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("name"), "/")

	s.files.mu.RLock()
	f, ok := s.files.files[name]
	s.files.mu.RUnlock()
	if !ok {
		httputil.RespondWithError(c, http.StatusNotFound, "File not found")
		return
	}
	c.Data(http.StatusOK, f.contentType, f.data)
}
