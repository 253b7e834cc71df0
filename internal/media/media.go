// Package media stores uploaded files and reports where they can be fetched.
package media

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/clubhub/clubhub/internal/config"
)

// Kind is the coarse media kind recorded on posts.
type Kind string

const (
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindDocument Kind = "document"
)

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Stored is the result of a successful upload.
type Stored struct {
	URL  string
	Kind Kind
}

// Store persists uploads.
type Store interface {
	Store(ctx context.Context, up Upload) (Stored, error)
}

// ErrUnsupportedFormat is returned for file extensions outside the allow list.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var allowedExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true,
	"mp4": true,
	"pdf": true, "doc": true, "docx": true,
	"ppt": true, "pptx": true, "xls": true, "xlsx": true,
}

// CheckExtension rejects file names whose extension is not allowed.
// extra widens the allow list for a single call.
func CheckExtension(filename string, extra ...string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if allowedExtensions[ext] {
		return nil
	}
	for _, e := range extra {
		if ext == e {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
}

// DetectKind classifies an upload from its content type and, when known,
// the resource type reported by the storage backend.
func DetectKind(contentType, resourceType string) Kind {
	ct := strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(ct, "video"), resourceType == "video":
		return KindVideo
	case ct == "application/pdf",
		strings.Contains(ct, "word"),
		strings.Contains(ct, "document"),
		strings.Contains(ct, "presentation"),
		strings.Contains(ct, "spreadsheet"),
		resourceType == "raw":
		return KindDocument
	default:
		return KindImage
	}
}

// New builds the store selected by cfg.Driver.
func New(cfg config.MediaConfig) (Store, error) {
	switch cfg.Driver {
	case "cloudinary":
		return NewCloudinary(cfg), nil
	case "disk":
		return NewDiskStore(cfg.DiskDir, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.Driver)
	}
}
