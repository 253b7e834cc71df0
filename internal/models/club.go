package models

import (
	"time"

	"gorm.io/gorm"
)

// Socials are a club's external links.
type Socials struct {
	Instagram string `gorm:"column:instagram;size:500" json:"instagram"`
	LinkedIn  string `gorm:"column:linkedin;size:500" json:"linkedin"`
	Website   string `gorm:"column:website;size:500" json:"website"`
}

// TeamMember is one entry of a club's core team roster.
type TeamMember struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Club is a public club profile, managed by the club admin account whose
// ClubID points at it.
type Club struct {
	ID        string    `gorm:"primaryKey;size:26" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name        string       `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Category    string       `gorm:"size:100" json:"category"`
	LogoURL     string       `gorm:"size:500" json:"logoUrl"`
	BannerURL   string       `gorm:"size:500" json:"bannerUrl"`
	Socials     Socials      `gorm:"embedded;embeddedPrefix:social_" json:"socials"`
	CoreTeam    []TeamMember `gorm:"type:text;serializer:json" json:"coreTeam"`
}

func (c *Club) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// OwnerClubID implements ClubOwned: a club is owned by itself.
func (c *Club) OwnerClubID() string { return c.ID }

// ClubRef is the club summary embedded in feeds.
type ClubRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl"`
}
