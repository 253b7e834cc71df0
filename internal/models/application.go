package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Statuses lists the allowed application statuses.
var Statuses = []string{StatusPending, StatusAccepted, StatusRejected}

// Application is a prospective member's request to join a club.
// A student may apply to a given club once.
type Application struct {
	ID        string    `gorm:"primaryKey;size:26" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ClubID       string `gorm:"size:26;not null;uniqueIndex:idx_applications_club_email" json:"clubId"`
	StudentName  string `gorm:"size:255;not null" json:"studentName"`
	StudentEmail string `gorm:"size:255;not null;uniqueIndex:idx_applications_club_email" json:"studentEmail"`
	RollNumber   string `gorm:"size:100;not null" json:"rollNumber"`
	Reason       string `gorm:"type:text" json:"reason"`
	Status       string `gorm:"size:20;not null;default:pending" json:"status"`
}

func (a *Application) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	if a.Status == "" {
		a.Status = StatusPending
	}
	return nil
}

// OwnerClubID implements ClubOwned.
func (a *Application) OwnerClubID() string { return a.ClubID }
