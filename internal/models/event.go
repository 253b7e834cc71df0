package models

import (
	"time"

	"gorm.io/gorm"
)

// Event is a scheduled activity created by an account.
type Event struct {
	ID        string    `gorm:"primaryKey;size:26" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	// CreatorID is the account that created the event and the only one
	// allowed to delete it.
	CreatorID string `gorm:"column:user_id;size:26;index;not null" json:"user"`
	// ClubID is the creator's club at creation time, empty for the super admin.
	ClubID string   `gorm:"size:26;index" json:"clubId,omitempty"`
	Club   *ClubRef `gorm:"-" json:"club,omitempty"`

	Title            string    `gorm:"size:255;not null" json:"title"`
	Description      string    `gorm:"type:text" json:"description"`
	Date             time.Time `gorm:"index;not null" json:"date"`
	Location         string    `gorm:"size:255;not null" json:"location"`
	RegistrationLink string    `gorm:"size:1000" json:"registrationLink"`
}

func (e *Event) BeforeCreate(*gorm.DB) error {
	assignID(&e.ID)
	return nil
}

// GetCreatorID implements Created.
func (e *Event) GetCreatorID() string { return e.CreatorID }

// SetClub implements ClubAttachable.
func (e *Event) SetClub(c *ClubRef) { e.Club = c }

// ClubKey implements ClubAttachable.
func (e *Event) ClubKey() string { return e.ClubID }
