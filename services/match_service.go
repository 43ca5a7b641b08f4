package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/openleague/league-system/live"
	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories"
)

type ReportScoreInput struct {
	MatchID        int
	ReporterUserID int
	HomeScore      int
	AwayScore      int
}

type MatchService interface {
	GetMatchByID(ctx context.Context, id int) (*models.Match, error)
	ListMatchesByDivision(ctx context.Context, divisionID int) ([]*models.Match, error)
	ListDisputedMatches(ctx context.Context) ([]*models.Match, error)
	ReportScore(ctx context.Context, input ReportScoreInput) (*models.Match, error)
	ResolveDispute(ctx context.Context, matchID, finalHomeScore, finalAwayScore int) (*models.Match, error)
	CancelMatch(ctx context.Context, matchID int) (*models.Match, error)
}

type matchService struct {
	matchRepo repositories.MatchRepository
	entryRepo repositories.EntryRepository
	hub       *live.Hub

	// strictReporting requires the reporter to be one of the two
	// participants and records which side filed the pending report.
	strictReporting bool

	// The dispute/complete decision reads the prior score pair and then
	// writes the transition, so concurrent reports for the same match are
	// serialized through a per-match lock. Entries are refcounted and
	// dropped once the last holder releases, so the map only holds
	// matches with an operation in flight.
	locksMu sync.Mutex
	locks   map[int]*matchLock
}

type matchLock struct {
	mu      sync.Mutex
	holders int
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	entryRepo repositories.EntryRepository,
	hub *live.Hub,
	strictReporting bool,
) MatchService {
	return &matchService{
		matchRepo:       matchRepo,
		entryRepo:       entryRepo,
		hub:             hub,
		strictReporting: strictReporting,
		locks:           make(map[int]*matchLock),
	}
}

func (s *matchService) GetMatchByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return match, nil
}

func (s *matchService) ListMatchesByDivision(ctx context.Context, divisionID int) ([]*models.Match, error) {
	return s.matchRepo.ListByDivision(ctx, divisionID, nil)
}

func (s *matchService) ListDisputedMatches(ctx context.Context) ([]*models.Match, error) {
	return s.matchRepo.ListByStatus(ctx, models.MatchStatusDisputed)
}

// ReportScore applies one side's score submission to the match.
//
// The first report is stored verbatim and the match stays SCHEDULED awaiting
// the second report. The second report either confirms the pending pair
// (exact match on both scores, COMPLETED) or contradicts it (DISPUTED, with
// the canonical scores set to the second report while the first report's
// pair is retained for the resolving admin).
func (s *matchService) ReportScore(ctx context.Context, input ReportScoreInput) (*models.Match, error) {
	if input.HomeScore < 0 || input.AwayScore < 0 {
		return nil, ErrNegativeScore
	}

	unlock := s.lockMatch(input.MatchID)
	defer unlock()

	match, err := s.GetMatchByID(ctx, input.MatchID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchStatusScheduled {
		return nil, ErrMatchNotReportable
	}

	reporterEntryID, err := s.resolveReporter(ctx, match, input.ReporterUserID)
	if err != nil {
		return nil, err
	}

	if match.HomeScore == nil && match.AwayScore == nil {
		// First report: keep the pair pending.
		home, away := input.HomeScore, input.AwayScore
		match.HomeScore = &home
		match.AwayScore = &away
		match.FirstReportHomeScore = &home
		match.FirstReportAwayScore = &away
		match.FirstReporterEntryID = reporterEntryID
	} else if *match.HomeScore == input.HomeScore && *match.AwayScore == input.AwayScore {
		match.Status = models.MatchStatusCompleted
	} else {
		// Conflicting second report: the latest pair becomes canonical,
		// the first report stays on the record.
		home, away := input.HomeScore, input.AwayScore
		match.HomeScore = &home
		match.AwayScore = &away
		match.Status = models.MatchStatusDisputed
	}

	if err := s.matchRepo.UpdateScoreState(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to update match %d: %w", match.ID, err)
	}

	s.broadcastMatch(match)
	return match, nil
}

// ResolveDispute is the only path out of DISPUTED: the admin-supplied scores
// become final and the match completes regardless of what either side
// reported.
func (s *matchService) ResolveDispute(ctx context.Context, matchID, finalHomeScore, finalAwayScore int) (*models.Match, error) {
	if finalHomeScore < 0 || finalAwayScore < 0 {
		return nil, ErrNegativeScore
	}

	unlock := s.lockMatch(matchID)
	defer unlock()

	match, err := s.GetMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchStatusDisputed {
		return nil, ErrMatchNotDisputed
	}

	match.HomeScore = &finalHomeScore
	match.AwayScore = &finalAwayScore
	match.Status = models.MatchStatusCompleted

	if err := s.matchRepo.UpdateScoreState(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to resolve match %d: %w", matchID, err)
	}

	s.broadcastMatch(match)
	return match, nil
}

func (s *matchService) CancelMatch(ctx context.Context, matchID int) (*models.Match, error) {
	unlock := s.lockMatch(matchID)
	defer unlock()

	match, err := s.GetMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchStatusScheduled {
		return nil, ErrMatchNotCancellable
	}

	match.Status = models.MatchStatusCancelled
	if err := s.matchRepo.UpdateScoreState(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to cancel match %d: %w", matchID, err)
	}

	s.broadcastMatch(match)
	return match, nil
}

// resolveReporter maps the reporting user onto one of the match's entries.
// In permissive mode an unknown reporter is accepted and the side left
// unrecorded; strict mode rejects anyone who is not a participant.
func (s *matchService) resolveReporter(ctx context.Context, match *models.Match, reporterUserID int) (*int, error) {
	if reporterUserID == 0 {
		if s.strictReporting {
			return nil, ErrReporterNotParticipant
		}
		return nil, nil
	}

	for _, entryID := range []int{match.HomeEntryID, match.AwayEntryID} {
		entry, err := s.entryRepo.GetByID(ctx, entryID)
		if err != nil {
			if errors.Is(err, repositories.ErrEntryNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load entry %d: %w", entryID, err)
		}
		if entry.UserID == reporterUserID {
			id := entry.ID
			return &id, nil
		}
	}

	if s.strictReporting {
		return nil, ErrReporterNotParticipant
	}
	return nil, nil
}

func (s *matchService) lockMatch(id int) func() {
	s.locksMu.Lock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &matchLock{}
		s.locks[id] = lock
	}
	lock.holders++
	s.locksMu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()

		s.locksMu.Lock()
		lock.holders--
		if lock.holders == 0 {
			delete(s.locks, id)
		}
		s.locksMu.Unlock()
	}
}

func (s *matchService) broadcastMatch(match *models.Match) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(live.DivisionRoom(match.DivisionID), live.Message{
		Type:    live.EventMatchUpdated,
		Payload: match,
	})
}
