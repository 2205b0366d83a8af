// Package media stores user-uploaded images (post pictures and avatars)
// under the configured media directory.
package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"yatube/internal/models"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	KindPosts   = "posts"
	KindAvatars = "avatars"
)

const (
	DefaultMaxUploadSizeMB = 5
	msgInvalidImage        = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

// Upload is a file received from a form.
type Upload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Store writes validated images below Dir using random file names.
type Store struct {
	dir                string
	maxUploadSizeBytes int64
}

func NewStore(dir string, maxUploadSizeBytes int64) *Store {
	if maxUploadSizeBytes <= 0 {
		maxUploadSizeBytes = DefaultMaxUploadSizeMB * 1024 * 1024
	}
	return &Store{dir: dir, maxUploadSizeBytes: maxUploadSizeBytes}
}

// Dir is the root directory uploads are written to and served from.
func (s *Store) Dir() string {
	return s.dir
}

// ReadFileHeader loads a multipart file into memory, refusing files larger
// than the store's limit.
func (s *Store) ReadFileHeader(fh *multipart.FileHeader) (Upload, error) {
	if fh.Size > s.maxUploadSizeBytes {
		return Upload{}, s.tooLarge()
	}
	f, err := fh.Open()
	if err != nil {
		return Upload{}, models.NewInternalError(err)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(io.LimitReader(f, s.maxUploadSizeBytes+1))
	if err != nil {
		return Upload{}, models.NewInternalError(err)
	}
	return Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

// Save validates in as an image and writes it under kind. It returns the
// slash-separated path relative to Dir, e.g. "posts/<uuid>.png".
func (s *Store) Save(kind string, in Upload) (string, error) {
	if len(in.Content) == 0 {
		return "", models.NewValidationError("The submitted file is empty.")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return "", s.tooLarge()
	}
	if !isAllowedImageMIME(http.DetectContentType(in.Content)) {
		return "", models.NewValidationError(msgInvalidImage)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(in.Content))
	if err != nil {
		return "", models.NewValidationError(msgInvalidImage)
	}
	ext := formatExtension(format)
	if ext == "" {
		return "", models.NewValidationError(msgInvalidImage)
	}

	rel := filepath.ToSlash(filepath.Join(kind, uuid.NewString()+ext))
	if err := writeBytesToFile(filepath.Join(s.dir, filepath.FromSlash(rel)), in.Content); err != nil {
		return "", models.NewInternalError(err)
	}
	return rel, nil
}

// Remove deletes a previously saved file. Missing files are ignored.
func (s *Store) Remove(rel string) {
	if rel == "" || strings.Contains(rel, "..") {
		return
	}
	_ = os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel)))
}

func (s *Store) tooLarge() error {
	return models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(mediaType)
}

func formatExtension(format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	case "webp":
		return ".webp"
	default:
		return ""
	}
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
