package schedule

import (
	"context"
	"time"

	"github.com/openleague/league-system/models"
)

type GenerateParams struct {
	Division *models.Division
	Entries  []*models.Entry
	// Now anchors the first round's kickoff; fixtures land on Wednesdays
	// strictly after this instant.
	Now time.Time
}

type FixtureGenerator interface {
	GenerateFixtures(ctx context.Context, params GenerateParams) ([]*models.Match, error)

	GetName() string
}
