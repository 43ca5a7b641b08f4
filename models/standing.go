package models

// Standing is a derived ranking row. It is recomputed from completed matches
// on every query and never persisted.
type Standing struct {
	Entry             *Entry `json:"entry"`
	Wins              int    `json:"wins"`
	Losses            int    `json:"losses"`
	PointDifferential int    `json:"point_differential"`
	GamesPlayed       int    `json:"games_played"`
}
