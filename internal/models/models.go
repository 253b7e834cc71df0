// Package models holds the persisted entities.
package models

import "github.com/clubhub/clubhub/internal/ids"

// All lists every model in migration order.
func All() []any {
	return []any{&Club{}, &Account{}, &Post{}, &Event{}, &Application{}}
}

// ClubOwned is implemented by resources that belong to a club.
type ClubOwned interface {
	OwnerClubID() string
}

// Created is implemented by resources that belong to the account that created them.
type Created interface {
	GetCreatorID() string
}

func assignID(id *string) {
	if *id == "" {
		*id = ids.New()
	}
}
