package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "SCHEDULED"
	MatchStatusCompleted MatchStatus = "COMPLETED"
	MatchStatusDisputed  MatchStatus = "DISPUTED"
	MatchStatusCancelled MatchStatus = "CANCELLED"
)

// Match is a single fixture between two entries of the same division.
//
// HomeScore/AwayScore hold the latest reported pair (or the admin-final pair
// once resolved). The FirstReport* fields retain the first submission so the
// dispute view can show exactly what each side reported; FirstReporterEntryID
// is only known when strict score reporting is enabled.
type Match struct {
	ID                   int         `json:"id" db:"id"`
	DivisionID           int         `json:"division_id" db:"division_id"`
	HomeEntryID          int         `json:"home_entry_id" db:"home_entry_id"`
	AwayEntryID          int         `json:"away_entry_id" db:"away_entry_id"`
	HomeScore            *int        `json:"home_score,omitempty" db:"home_score"`
	AwayScore            *int        `json:"away_score,omitempty" db:"away_score"`
	FirstReportHomeScore *int        `json:"first_report_home_score,omitempty" db:"first_report_home_score"`
	FirstReportAwayScore *int        `json:"first_report_away_score,omitempty" db:"first_report_away_score"`
	FirstReporterEntryID *int        `json:"first_reporter_entry_id,omitempty" db:"first_reporter_entry_id"`
	ScheduledAt          time.Time   `json:"scheduled_at" db:"scheduled_at"`
	Status               MatchStatus `json:"status" db:"status"`
	RoundNumber          int         `json:"round_number" db:"round_number"`
	CreatedAt            time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at" db:"updated_at"`

	HomeEntry *Entry `json:"home_entry,omitempty" db:"-"`
	AwayEntry *Entry `json:"away_entry,omitempty" db:"-"`
}

// AwaitingSecondReport reports whether a first score pair has been filed but
// the match has not yet completed or gone to dispute.
func (m *Match) AwaitingSecondReport() bool {
	return m.Status == MatchStatusScheduled && m.HomeScore != nil && m.AwayScore != nil
}
