package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openleague/league-system/live"
	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories"
	"github.com/openleague/league-system/schedule"
)

type GeneratedSchedule struct {
	Matches []*models.Match `json:"matches"`
	Weeks   int             `json:"weeks"`
}

type ScheduleService interface {
	GenerateSchedule(ctx context.Context, divisionID int) (*GeneratedSchedule, error)
}

type scheduleService struct {
	db           TxBeginner
	divisionRepo repositories.DivisionRepository
	entryRepo    repositories.EntryRepository
	matchRepo    repositories.MatchRepository
	generator    schedule.FixtureGenerator
	hub          *live.Hub
	now          func() time.Time
}

func NewScheduleService(
	db TxBeginner,
	divisionRepo repositories.DivisionRepository,
	entryRepo repositories.EntryRepository,
	matchRepo repositories.MatchRepository,
	generator schedule.FixtureGenerator,
	hub *live.Hub,
) ScheduleService {
	return &scheduleService{
		db:           db,
		divisionRepo: divisionRepo,
		entryRepo:    entryRepo,
		matchRepo:    matchRepo,
		generator:    generator,
		hub:          hub,
		now:          time.Now,
	}
}

// GenerateSchedule builds the full fixture list for a division. Schedule
// generation is a one-time operation per division: the existence check and
// the batch insert run as one atomic unit under a division row lock, so
// concurrent calls cannot double-schedule.
func (s *scheduleService) GenerateSchedule(ctx context.Context, divisionID int) (*GeneratedSchedule, error) {
	division, err := s.divisionRepo.GetByID(ctx, divisionID)
	if err != nil {
		if errors.Is(err, repositories.ErrDivisionNotFound) {
			return nil, ErrDivisionNotFound
		}
		return nil, fmt.Errorf("failed to get division %d: %w", divisionID, err)
	}

	entries, err := s.entryRepo.ListByDivision(ctx, divisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for division %d: %w", divisionID, err)
	}
	if len(entries) < 2 {
		return nil, ErrInsufficientPlayers
	}

	fixtures, err := s.generator.GenerateFixtures(ctx, schedule.GenerateParams{
		Division: division,
		Entries:  entries,
		Now:      s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s generator failed for division %d: %w", s.generator.GetName(), divisionID, err)
	}

	err = runInTx(ctx, s.db, func(exec repositories.SQLExecutor) error {
		if lockErr := s.divisionRepo.LockByID(ctx, exec, divisionID); lockErr != nil {
			return lockErr
		}

		existing, countErr := s.matchRepo.CountByDivision(ctx, exec, divisionID)
		if countErr != nil {
			return countErr
		}
		if existing > 0 {
			return ErrScheduleExists
		}

		for _, match := range fixtures {
			if createErr := s.matchRepo.Create(ctx, exec, match); createErr != nil {
				return fmt.Errorf("failed to create match (round %d): %w", match.RoundNumber, createErr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &GeneratedSchedule{
		Matches: fixtures,
		Weeks:   schedule.Rounds(len(entries)),
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.DivisionRoom(divisionID), live.Message{
			Type:    live.EventScheduleGenerated,
			Payload: result,
		})
	}
	return result, nil
}
