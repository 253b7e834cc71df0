package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskStore writes uploads to a local directory served under a public URL prefix.
type DiskStore struct {
	dir       string
	publicURL string
}

// NewDiskStore creates dir if needed.
func NewDiskStore(dir, publicURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &DiskStore{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Dir is the directory files are written to.
func (d *DiskStore) Dir() string { return d.dir }

func (d *DiskStore) Store(_ context.Context, up Upload) (Stored, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(up.Filename))
	if err := os.WriteFile(filepath.Join(d.dir, name), up.Data, 0o644); err != nil {
		return Stored{}, fmt.Errorf("write upload: %w", err)
	}
	return Stored{URL: d.publicURL + "/" + name, Kind: DetectKind(up.ContentType, "")}, nil
}
