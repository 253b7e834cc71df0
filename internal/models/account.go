package models

import (
	"errors"
	"time"

	"github.com/clubhub/clubhub/auth"
	"gorm.io/gorm"
)

// Account is a login identity.
type Account struct {
	ID        string    `gorm:"primaryKey;size:26" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"` // bcrypt, never exposed
	Role         auth.Role `gorm:"size:20;not null" json:"role"`
	// ClubID is set for club admins and nil for the super admin.
	ClubID *string `gorm:"size:26;index" json:"clubId,omitempty"`

	MustChangePassword bool `gorm:"not null;default:false" json:"mustChangePassword"`
}

var (
	ErrClubAdminWithoutClub = errors.New("club admin must reference a club")
	ErrSuperAdminWithClub   = errors.New("super admin must not reference a club")
)

// BeforeCreate assigns an id and checks the role/club pairing.
func (a *Account) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return a.CheckRole()
}

// CheckRole enforces that a club admin references exactly one club and the
// super admin references none.
func (a *Account) CheckRole() error {
	switch a.Role {
	case auth.RoleClubAdmin:
		if a.ClubID == nil || *a.ClubID == "" {
			return ErrClubAdminWithoutClub
		}
	case auth.RoleSuperAdmin:
		if a.ClubID != nil {
			return ErrSuperAdminWithClub
		}
	default:
		return errors.New("unknown role " + string(a.Role))
	}
	return nil
}

// ClubRef returns the managed club id, or "" for the super admin.
func (a *Account) ClubRef() string {
	if a.ClubID == nil {
		return ""
	}
	return *a.ClubID
}

// Identity returns the credential subject for this account.
func (a *Account) Identity() auth.Identity {
	return auth.Identity{SubjectID: a.ID, Role: a.Role, ClubID: a.ClubRef()}
}
