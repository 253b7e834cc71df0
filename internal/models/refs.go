package models

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// ClubAttachable is a resource that embeds the summary of its club.
type ClubAttachable interface {
	ClubKey() string
	SetClub(*ClubRef)
}

// AttachClubs loads the club summaries referenced by items in one query and
// attaches them. Items without a club are left untouched.
func AttachClubs[T ClubAttachable](ctx context.Context, db *gorm.DB, items []T) error {
	seen := make(map[string]bool)
	var keys []string
	for _, it := range items {
		if k := it.ClubKey(); k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	var refs []ClubRef
	if err := db.WithContext(ctx).Model(&Club{}).Where("id IN ?", keys).Find(&refs).Error; err != nil {
		return fmt.Errorf("load club refs: %w", err)
	}
	byID := make(map[string]*ClubRef, len(refs))
	for i := range refs {
		byID[refs[i].ID] = &refs[i]
	}
	for _, it := range items {
		if ref, ok := byID[it.ClubKey()]; ok {
			it.SetClub(ref)
		}
	}
	return nil
}
