package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/clubhub/clubhub/auth"
	"github.com/clubhub/clubhub/internal/models"
	"gorm.io/gorm"
)

// Default super admin credentials for a fresh install.
const (
	DefaultAdminEmail    = "admin@college.edu"
	DefaultAdminPassword = "password123"
)

// SeedOptions configures Seed.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
}

// Seed creates the super admin account if no account uses its email yet.
// It reports whether the account was created.
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(opts.AdminEmail))
	if email == "" {
		email = DefaultAdminEmail
	}
	password := opts.AdminPassword
	if password == "" {
		password = DefaultAdminPassword
	}

	var existing models.Account
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("look up admin: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	admin := models.Account{
		Email:        email,
		PasswordHash: hash,
		Role:         auth.RoleSuperAdmin,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}
