package models

import "time"

// Division is a bracket of players competing under one ruleset within a league.
// Slots caps the number of entries; the cap is enforced at registration time.
type Division struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Platform  string    `json:"platform" db:"platform"`
	LeagueID  int       `json:"league_id" db:"league_id"`
	Slots     int       `json:"slots" db:"slots"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	League  *League  `json:"league,omitempty" db:"-"`
	Entries []*Entry `json:"entries,omitempty" db:"-"`
}
