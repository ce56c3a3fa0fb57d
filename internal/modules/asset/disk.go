package asset

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/ewpharma/tradelink-backend/internal/storage"
)

// DiskStore keeps assets under <baseDir>/documents/<folder>/<field>/.
type DiskStore struct {
	baseDir string
}

// NewDiskStore creates a disk-backed asset store rooted at baseDir.
func NewDiskStore(baseDir string) *DiskStore {
	return &DiskStore{baseDir: baseDir}
}

func (s *DiskStore) Save(folder, field string, file multipart.File, header *multipart.FileHeader) (string, error) {
	ext, ok := mimeExtensions[header.Header.Get("Content-Type")]
	if !ok {
		return "", storage.ErrInvalidAsset
	}
	if header.Size > MaxFileSize {
		return "", fmt.Errorf("%w: file exceeds %d bytes", storage.ErrInvalidAsset, MaxFileSize)
	}

	if folder == "" {
		folder = DefaultFolder
	}
	// Base strips any path separators a client smuggles into the folder name.
	dir := filepath.Join(s.baseDir, "documents", filepath.Base(folder), field)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	target := filepath.Join(dir, field+"."+ext)
	out, err := os.Create(target)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", err
	}
	return filepath.ToSlash(target), nil
}

func (s *DiskStore) Remove(path string) error {
	return os.Remove(filepath.FromSlash(path))
}
