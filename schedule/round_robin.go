package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/openleague/league-system/models"
)

// kickoffHour is the local hour every fixture starts at (Wednesday 20:00).
const kickoffHour = 20

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() FixtureGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateFixtures produces a single round-robin fixture list using the
// circle method: one entry stays fixed while the rest rotate, so every entry
// meets every other entry exactly once. Odd rosters get a bye each round.
// Round r is scheduled on the next Wednesday 20:00 local plus (r-1) weeks,
// rounds numbered from 1.
func (g *RoundRobinGenerator) GenerateFixtures(_ context.Context, params GenerateParams) ([]*models.Match, error) {
	entries := params.Entries
	division := params.Division

	if len(entries) < 2 {
		return nil, fmt.Errorf("RoundRobinGenerator: not enough entries (found %d, min 2 required)", len(entries))
	}

	// Entry order is taken as-is; no shuffling or seeding. A zero ID marks
	// the bye slot for odd rosters.
	ring := make([]int, 0, len(entries)+1)
	for _, entry := range entries {
		ring = append(ring, entry.ID)
	}
	if len(ring)%2 != 0 {
		ring = append(ring, 0)
	}

	n := len(ring)
	rounds := n - 1
	firstKickoff := nextWednesdayKickoff(params.Now)

	matches := make([]*models.Match, 0, rounds*(n/2))
	for round := 1; round <= rounds; round++ {
		scheduledAt := firstKickoff.AddDate(0, 0, 7*(round-1))

		for i := 0; i < n/2; i++ {
			home := ring[i]
			away := ring[n-1-i]
			if home == 0 || away == 0 {
				continue
			}
			matches = append(matches, &models.Match{
				DivisionID:  division.ID,
				HomeEntryID: home,
				AwayEntryID: away,
				ScheduledAt: scheduledAt,
				Status:      models.MatchStatusScheduled,
				RoundNumber: round,
			})
		}

		rotate(ring)
	}

	return matches, nil
}

// Rounds reports how many rounds a roster of the given size produces, which
// is also the number of weeks the schedule spans.
func Rounds(entryCount int) int {
	if entryCount < 2 {
		return 0
	}
	if entryCount%2 != 0 {
		return entryCount
	}
	return entryCount - 1
}

// rotate keeps ring[0] fixed and shifts the remainder one position clockwise.
func rotate(ring []int) {
	n := len(ring)
	last := ring[n-1]
	copy(ring[2:], ring[1:n-1])
	ring[1] = last
}

func nextWednesdayKickoff(now time.Time) time.Time {
	days := (int(time.Wednesday) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	next := now.AddDate(0, 0, days)
	return time.Date(next.Year(), next.Month(), next.Day(), kickoffHour, 0, 0, 0, now.Location())
}
