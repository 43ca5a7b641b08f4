package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories"
	"golang.org/x/sync/errgroup"
)

type StandingsService interface {
	ComputeStandings(ctx context.Context, divisionID int) ([]*models.Standing, error)
}

type standingsService struct {
	divisionRepo repositories.DivisionRepository
	entryRepo    repositories.EntryRepository
	matchRepo    repositories.MatchRepository
}

func NewStandingsService(
	divisionRepo repositories.DivisionRepository,
	entryRepo repositories.EntryRepository,
	matchRepo repositories.MatchRepository,
) StandingsService {
	return &standingsService{
		divisionRepo: divisionRepo,
		entryRepo:    entryRepo,
		matchRepo:    matchRepo,
	}
}

// ComputeStandings derives the division ranking from completed matches. The
// table is rebuilt on every call; nothing is persisted. A tie adds a game
// for both sides but neither a win nor a loss.
func (s *standingsService) ComputeStandings(ctx context.Context, divisionID int) ([]*models.Standing, error) {
	if _, err := s.divisionRepo.GetByID(ctx, divisionID); err != nil {
		if errors.Is(err, repositories.ErrDivisionNotFound) {
			return nil, ErrDivisionNotFound
		}
		return nil, fmt.Errorf("failed to get division %d: %w", divisionID, err)
	}

	var (
		entries []*models.Entry
		matches []*models.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.entryRepo.ListByDivision(gctx, divisionID)
		return err
	})
	g.Go(func() error {
		completed := models.MatchStatusCompleted
		var err error
		matches, err = s.matchRepo.ListByDivision(gctx, divisionID, &completed)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load standings data for division %d: %w", divisionID, err)
	}

	standings := make([]*models.Standing, 0, len(entries))
	byEntryID := make(map[int]*models.Standing, len(entries))
	for _, entry := range entries {
		standing := &models.Standing{Entry: entry}
		standings = append(standings, standing)
		byEntryID[entry.ID] = standing
	}

	for _, match := range matches {
		if match.HomeScore == nil || match.AwayScore == nil {
			continue
		}
		home := byEntryID[match.HomeEntryID]
		away := byEntryID[match.AwayEntryID]
		if home == nil || away == nil {
			continue
		}

		homeScore, awayScore := *match.HomeScore, *match.AwayScore
		home.GamesPlayed++
		away.GamesPlayed++
		home.PointDifferential += homeScore - awayScore
		away.PointDifferential += awayScore - homeScore

		switch {
		case homeScore > awayScore:
			home.Wins++
			away.Losses++
		case awayScore > homeScore:
			away.Wins++
			home.Losses++
		}
	}

	// Wins first, point differential second; remaining ties keep entry
	// insertion order.
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		return standings[i].PointDifferential > standings[j].PointDifferential
	})

	return standings, nil
}
