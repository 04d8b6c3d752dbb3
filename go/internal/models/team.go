package models

import "time"

// Team represents a competing startup team
type Team struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TeamRef is the minimal team reference carried by live state snapshots.
// Name may be empty when the id could not be resolved against the store.
type TeamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Ref returns the live-state reference for a team
func (t Team) Ref() TeamRef {
	return TeamRef{ID: t.ID, Name: t.Name}
}
