package models

// League groups divisions competing in the same game within a season.
type League struct {
	ID       int     `json:"id" db:"id"`
	Title    string  `json:"title" db:"title"`
	Game     string  `json:"game" db:"game"`
	RulesURL *string `json:"rules_url,omitempty" db:"rules_url"`
	SeasonID int     `json:"season_id" db:"season_id"`

	Season *Season `json:"season,omitempty" db:"-"`
}
