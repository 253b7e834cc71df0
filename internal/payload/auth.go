package payload

import (
	"fmt"
	"strings"

	"github.com/clubhub/clubhub/internal/models"
	"github.com/clubhub/clubhub/validation"
)

// MinPasswordLength applies to every password set through the API.
const MinPasswordLength = 6

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() { r.Email = normalizeEmail(r.Email) }

func (r *LoginRequest) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("email", r.Email, v)
	validation.Required("password", r.Password, v)
	return v
}

// RegisterClubRequest provisions a club together with its admin account.
type RegisterClubRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (r *RegisterClubRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
}

func (r *RegisterClubRequest) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", r.Name, v)
	validation.MaxLength("name", r.Name, 255, v)
	validation.Required("email", r.Email, v)
	validation.Email("email", r.Email, v)
	validation.Required("password", r.Password, v)
	if r.Password != "" {
		validation.MinLength("password", r.Password, MinPasswordLength, v)
	}
	validation.MaxLength("category", r.Category, 100, v)
	return v
}

// UpdateProfileRequest changes the editable parts of a club profile.
// Absent fields are left unchanged.
type UpdateProfileRequest struct {
	Description *string             `json:"description"`
	Category    *string             `json:"category"`
	Socials     *models.Socials     `json:"socials"`
	CoreTeam    []models.TeamMember `json:"coreTeam"`
}

func (r *UpdateProfileRequest) Validate() validation.Violations {
	v := validation.Violations{}
	if r.Category != nil {
		validation.MaxLength("category", *r.Category, 100, v)
	}
	if r.Socials != nil {
		validation.MaxLength("socials.instagram", r.Socials.Instagram, 500, v)
		validation.MaxLength("socials.linkedin", r.Socials.LinkedIn, 500, v)
		validation.URL("socials.website", r.Socials.Website, v)
	}
	for i, m := range r.CoreTeam {
		validation.Required(fmt.Sprintf("coreTeam[%d].name", i), m.Name, v)
	}
	return v
}

// Apply copies the present fields onto club.
func (r *UpdateProfileRequest) Apply(club *models.Club) {
	if r.Description != nil {
		club.Description = *r.Description
	}
	if r.Category != nil {
		club.Category = *r.Category
	}
	if r.Socials != nil {
		club.Socials = *r.Socials
	}
	if r.CoreTeam != nil {
		club.CoreTeam = r.CoreTeam
	}
}

type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (r *ChangePasswordRequest) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("newPassword", r.NewPassword, v)
	if r.NewPassword != "" {
		validation.MinLength("newPassword", r.NewPassword, MinPasswordLength, v)
	}
	return v
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
