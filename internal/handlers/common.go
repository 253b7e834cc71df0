// Package handlers implements the JSON API endpoints.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/clubhub/clubhub/auth"
	"github.com/clubhub/clubhub/httpx"
	"github.com/clubhub/clubhub/internal/media"
	"github.com/clubhub/clubhub/internal/models"
	"gorm.io/gorm"
)

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const multipartMemory = 8 << 20

// caller returns the verified identity. Routes using it sit behind
// auth.Middleware.Authenticate.
func caller(r *http.Request) (auth.Identity, error) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return auth.Identity{}, httpx.Unauthenticated("no token, authorization denied")
	}
	return id, nil
}

// first loads one row by id into dest, mapping a miss to NotFound(msg).
func first(ctx context.Context, db *gorm.DB, dest any, id, msg string) error {
	err := db.WithContext(ctx).Where("id = ?", id).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httpx.NotFound(msg)
	}
	if err != nil {
		return fmt.Errorf("load %T: %w", dest, err)
	}
	return nil
}

func loadClub(ctx context.Context, db *gorm.DB, id string) (*models.Club, error) {
	var club models.Club
	if err := first(ctx, db, &club, id, "Club not found"); err != nil {
		return nil, err
	}
	return &club, nil
}

// parseMultipart parses the multipart body of r.
func parseMultipart(r *http.Request) error {
	if httpx.MediaType(r) != "multipart/form-data" {
		return httpx.Invalid("multipart/form-data body required", nil)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return httpx.Invalid("File too large", nil)
		}
		return httpx.Invalid("File upload error", err.Error())
	}
	return nil
}

// readUpload reads the "file" part of an already parsed multipart form.
func readUpload(r *http.Request, extraExt ...string) (media.Upload, error) {
	f, hdr, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return media.Upload{}, httpx.Invalid("No file uploaded", nil)
		}
		return media.Upload{}, httpx.Invalid("File upload error", err.Error())
	}
	defer f.Close()

	if err := media.CheckExtension(hdr.Filename, extraExt...); err != nil {
		return media.Upload{}, httpx.Invalid("Unsupported file format", err.Error())
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return media.Upload{}, fmt.Errorf("read upload: %w", err)
	}

	ct := hdr.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(hdr.Filename)); byExt != "" {
			ct = byExt
		} else {
			ct = http.DetectContentType(data)
		}
	}
	return media.Upload{Filename: hdr.Filename, ContentType: ct, Data: data}, nil
}

func storeUpload(ctx context.Context, store media.Store, up media.Upload) (media.Stored, error) {
	stored, err := store.Store(ctx, up)
	if err != nil {
		return media.Stored{}, httpx.Upstream("media upload failed", err)
	}
	return stored, nil
}
