// Package asset stores uploaded images and certificate documents on disk
// behind an opaque path-keyed interface, and removes them when the owning
// record goes away.
package asset

import (
	"mime/multipart"
)

// MaxFileSize is the upload limit in bytes.
const MaxFileSize = 500000

// DefaultFolder receives uploads that name no folder of their own.
const DefaultFolder = "miscellaneous"

// mimeExtensions is the allow-list of accepted upload types.
var mimeExtensions = map[string]string{
	"image/png":       "png",
	"image/jpeg":      "jpeg",
	"image/jpg":       "jpg",
	"application/pdf": "pdf",
}

// Store writes uploaded files and removes stored ones.
type Store interface {
	// Save validates the upload and stores it under a deterministic
	// field-derived name. Two uploads to the same folder and field
	// overwrite each other.
	Save(folder, field string, file multipart.File, header *multipart.FileHeader) (string, error)

	// Remove unlinks a stored file.
	Remove(path string) error
}
