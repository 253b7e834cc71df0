package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/clubhub/clubhub/auth"
	"github.com/clubhub/clubhub/httpx"
	"github.com/clubhub/clubhub/internal/models"
	"gorm.io/gorm"
)

// UnknownClubName is reported for accounts without a club.
const UnknownClubName = "Unknown Club"

// LoginResult is a freshly issued credential and the account it names.
type LoginResult struct {
	Token    string
	Account  models.Account
	ClubName string
}

type AuthService struct {
	DB    *gorm.DB
	Codec *auth.Codec
}

func NewAuthService(db *gorm.DB, codec *auth.Codec) *AuthService {
	return &AuthService{DB: db, Codec: codec}
}

var errInvalidCredentials = httpx.Invalid("Invalid Credentials", nil)

// Login checks email and password and issues a credential carrying the
// account's stored role and club.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var acc models.Account
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	if !auth.CheckPassword(acc.PasswordHash, password) {
		return nil, errInvalidCredentials
	}

	clubName := UnknownClubName
	if acc.ClubID != nil {
		var club models.Club
		err := s.DB.WithContext(ctx).Select("name").Where("id = ?", *acc.ClubID).First(&club).Error
		switch {
		case err == nil:
			clubName = club.Name
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("load club: %w", err)
		}
	}

	token, err := s.Codec.Issue(acc.Identity())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, Account: acc, ClubName: clubName}, nil
}

// ChangePassword sets a new password and clears the forced-change flag.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, newPassword string) error {
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Model(&models.Account{}).Where("id = ?", accountID).
		Updates(map[string]any{"password_hash": hash, "must_change_password": false})
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return httpx.NotFound("Account not found")
	}
	return nil
}

// AccountExists backs auth.AccountVerifier.
func (s *AuthService) AccountExists(ctx context.Context, accountID string) (bool, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.Account{}).Where("id = ?", accountID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count accounts: %w", err)
	}
	return n > 0, nil
}
