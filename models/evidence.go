package models

import "time"

// Evidence is an append-only record supporting a dispute. Records are never
// mutated or deleted.
type Evidence struct {
	ID          int       `json:"id" db:"id"`
	MatchID     int       `json:"match_id" db:"match_id"`
	SubmittedBy string    `json:"submitted_by" db:"submitted_by"`
	EvidenceURL string    `json:"evidence_url" db:"evidence_url"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
