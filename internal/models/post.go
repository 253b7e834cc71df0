package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MediaImage    = "image"
	MediaVideo    = "video"
	MediaDocument = "document"
)

// Post is a media item with a caption, published by a club.
type Post struct {
	ID        string    `gorm:"primaryKey;size:26" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	ClubID    string   `gorm:"size:26;index;not null" json:"clubId"`
	Club      *ClubRef `gorm:"-" json:"club,omitempty"`
	MediaURL  string   `gorm:"size:1000;not null" json:"mediaUrl"`
	MediaType string   `gorm:"size:20;not null;default:image" json:"mediaType"`
	Caption   string   `gorm:"type:text" json:"caption"`
}

func (p *Post) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// OwnerClubID implements ClubOwned.
func (p *Post) OwnerClubID() string { return p.ClubID }

// SetClub implements ClubAttachable.
func (p *Post) SetClub(c *ClubRef) { p.Club = c }

// ClubKey implements ClubAttachable.
func (p *Post) ClubKey() string { return p.ClubID }
