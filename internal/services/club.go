// Package services holds the multi-step operations that span several tables.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/clubhub/clubhub/auth"
	"github.com/clubhub/clubhub/httpx"
	"github.com/clubhub/clubhub/internal/models"
	"github.com/clubhub/clubhub/validation"
	"gorm.io/gorm"
)

// ProvisionInput describes a new club and its admin account.
type ProvisionInput struct {
	Name        string
	Email       string
	Password    string
	Description string
	Category    string
}

// Provisioned is the pair of rows created by Provision.
type Provisioned struct {
	Club    models.Club    `json:"club"`
	Account models.Account `json:"account"`
}

type ClubService struct{ DB *gorm.DB }

func NewClubService(db *gorm.DB) *ClubService { return &ClubService{DB: db} }

var (
	errDuplicateName  = httpx.Invalid("Club name already exists", validation.Violations{"name": "duplicate"})
	errDuplicateEmail = httpx.Invalid("Email already registered", validation.Violations{"email": "duplicate"})
)

// Provision creates a club and its club admin account in one transaction.
// A duplicate club name or account email leaves no rows behind.
func (s *ClubService) Provision(ctx context.Context, in ProvisionInput) (*Provisioned, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var out Provisioned
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if taken, err := exists(tx, &models.Club{}, "name = ?", in.Name); err != nil {
			return err
		} else if taken {
			return errDuplicateName
		}
		if taken, err := exists(tx, &models.Account{}, "email = ?", in.Email); err != nil {
			return err
		} else if taken {
			return errDuplicateEmail
		}

		club := models.Club{Name: in.Name, Description: in.Description, Category: in.Category}
		if err := tx.Create(&club).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errDuplicateName
			}
			return fmt.Errorf("create club: %w", err)
		}
		account := models.Account{
			Email:              in.Email,
			PasswordHash:       hash,
			Role:               auth.RoleClubAdmin,
			ClubID:             &club.ID,
			MustChangePassword: true,
		}
		if err := tx.Create(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errDuplicateEmail
			}
			return fmt.Errorf("create account: %w", err)
		}
		out = Provisioned{Club: club, Account: account}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a club with its accounts, posts, events and applications.
func (s *ClubService) Delete(ctx context.Context, clubID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var club models.Club
		if err := tx.Where("id = ?", clubID).First(&club).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httpx.NotFound("Club not found")
			}
			return fmt.Errorf("load club: %w", err)
		}
		for _, dep := range []any{&models.Post{}, &models.Event{}, &models.Application{}, &models.Account{}} {
			if err := tx.Where("club_id = ?", clubID).Delete(dep).Error; err != nil {
				return fmt.Errorf("delete %T: %w", dep, err)
			}
		}
		if err := tx.Delete(&club).Error; err != nil {
			return fmt.Errorf("delete club: %w", err)
		}
		return nil
	})
}

// ClubListing is a club with the email of the account managing it.
type ClubListing struct {
	models.Club
	AdminEmail string `json:"adminEmail,omitempty"`
}

// ListWithAdmins returns every club in name order with its admin email.
func (s *ClubService) ListWithAdmins(ctx context.Context) ([]ClubListing, error) {
	var clubs []models.Club
	if err := s.DB.WithContext(ctx).Order("name").Find(&clubs).Error; err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	var accounts []models.Account
	if err := s.DB.WithContext(ctx).Where("role = ?", auth.RoleClubAdmin).Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	emails := make(map[string]string, len(accounts))
	for _, a := range accounts {
		emails[a.ClubRef()] = a.Email
	}
	out := make([]ClubListing, len(clubs))
	for i, c := range clubs {
		out[i] = ClubListing{Club: c, AdminEmail: emails[c.ID]}
	}
	return out, nil
}

func exists(tx *gorm.DB, model any, query string, args ...any) (bool, error) {
	var n int64
	if err := tx.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check %T: %w", model, err)
	}
	return n > 0, nil
}
