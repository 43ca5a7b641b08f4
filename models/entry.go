package models

import "time"

type EntryStatus string

const (
	EntryStatusConfirmed EntryStatus = "CONFIRMED"
	EntryStatusWithdrawn EntryStatus = "WITHDRAWN"
)

// Entry is a player's registration into a division. At most one entry exists
// per (division, user) pair.
type Entry struct {
	ID         int         `json:"id" db:"id"`
	DivisionID int         `json:"division_id" db:"division_id"`
	UserID     int         `json:"user_id" db:"user_id"`
	Paid       bool        `json:"paid" db:"paid"`
	Status     EntryStatus `json:"status" db:"status"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
}
