// Package filestore manages uploaded document files on local disk. Files
// live under <root>/<user-id>/<random-name>.<ext> so one user's documents
// never collide with another's.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileType classifies a stored file by extension.
type FileType string

const (
	TypePdf     FileType = "pdf"
	TypeImage   FileType = "image"
	TypeUnknown FileType = "unknown"
)

var allowedExtensions = map[string]FileType{
	".pdf":  TypePdf,
	".jpg":  TypeImage,
	".jpeg": TypeImage,
	".png":  TypeImage,
	".webp": TypeImage,
}

// ErrUnsupportedType reports an extension outside the allowed set.
type ErrUnsupportedType struct {
	Ext string
}

func (e *ErrUnsupportedType) Error() string {
	return fmt.Sprintf("unsupported file type %q (allowed: .pdf, .jpg, .jpeg, .png, .webp)", e.Ext)
}

// ErrTooLarge reports a file over the configured size limit.
type ErrTooLarge struct {
	Size, Limit int64
}

func (e *ErrTooLarge) Error() string {
	return fmt.Sprintf("file of %d bytes exceeds the %d byte limit", e.Size, e.Limit)
}

// Store writes and reads uploaded files under a root directory.
type Store struct {
	root    string
	maxSize int64
}

func NewStore(root string, maxSize int64) *Store {
	return &Store{root: root, maxSize: maxSize}
}

// DetectType classifies a file name by its extension.
func DetectType(fileName string) FileType {
	t, ok := allowedExtensions[strings.ToLower(filepath.Ext(fileName))]
	if !ok {
		return TypeUnknown
	}
	return t
}

// Save validates and persists an upload, returning the path relative to the
// store root together with the detected file type.
func (s *Store) Save(userID string, fileName string, data []byte) (string, FileType, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	fileType, ok := allowedExtensions[ext]
	if !ok {
		return "", TypeUnknown, &ErrUnsupportedType{Ext: ext}
	}
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return "", fileType, &ErrTooLarge{Size: int64(len(data)), Limit: s.maxSize}
	}

	dir := filepath.Join(s.root, userID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fileType, fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.New().String() + ext
	relPath := filepath.Join(userID, name)
	if err := os.WriteFile(filepath.Join(s.root, relPath), data, 0o640); err != nil {
		return "", fileType, fmt.Errorf("write upload: %w", err)
	}
	return relPath, fileType, nil
}

// Read loads a stored file by its relative path. Paths escaping the store
// root are rejected.
func (s *Store) Read(relPath string) ([]byte, error) {
	full, err := s.resolve(relPath)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

// Delete removes a stored file. A missing file is not an error.
func (s *Store) Delete(relPath string) error {
	full, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) resolve(relPath string) (string, error) {
	full := filepath.Join(s.root, relPath)
	rootAbs, err := filepath.Abs(s.root)
	if err != nil {
		return "", err
	}
	fullAbs, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}
	if fullAbs != rootAbs && !strings.HasPrefix(fullAbs, rootAbs+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes storage root", relPath)
	}
	return full, nil
}

// ContentType maps a stored file name to the MIME type served for it.
func ContentType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
