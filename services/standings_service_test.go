package services

import (
	"context"
	"errors"
	"testing"

	"github.com/openleague/league-system/models"
)

type standingsFixture struct {
	store   *testStore
	svc     StandingsService
	divID   int
	entries []*models.Entry
}

func newStandingsFixture(t *testing.T, players int) *standingsFixture {
	t.Helper()

	store := newTestStore()
	division := store.addDivision(t, 16)

	entries := make([]*models.Entry, 0, players)
	for i := 0; i < players; i++ {
		user := store.addUser(t, string(rune('a'+i))+"-player")
		entries = append(entries, store.addEntry(t, division.ID, user.ID))
	}

	return &standingsFixture{
		store:   store,
		svc:     NewStandingsService(store.division, store.entries, store.matches),
		divID:   division.ID,
		entries: entries,
	}
}

func (f *standingsFixture) addCompletedMatch(t *testing.T, home, away, homeScore, awayScore int) {
	t.Helper()

	match := &models.Match{
		DivisionID:  f.divID,
		HomeEntryID: f.entries[home].ID,
		AwayEntryID: f.entries[away].ID,
		HomeScore:   &homeScore,
		AwayScore:   &awayScore,
		Status:      models.MatchStatusCompleted,
		RoundNumber: 1,
	}
	if err := f.store.matches.Create(context.Background(), nil, match); err != nil {
		t.Fatalf("create match: %v", err)
	}
}

func TestStandings_RankedByWinsThenDifferential(t *testing.T) {
	t.Parallel()

	f := newStandingsFixture(t, 3)

	// Entry 0 beats everyone; 1 and 2 each have one win, separated only by
	// point differential.
	f.addCompletedMatch(t, 0, 1, 3, 0)
	f.addCompletedMatch(t, 0, 2, 2, 1)
	f.addCompletedMatch(t, 1, 2, 5, 0)
	f.addCompletedMatch(t, 2, 1, 4, 3)

	standings, err := f.svc.ComputeStandings(context.Background(), f.divID)
	if err != nil {
		t.Fatalf("compute standings: %v", err)
	}
	if len(standings) != 3 {
		t.Fatalf("unexpected standings length: %d", len(standings))
	}

	if standings[0].Entry.ID != f.entries[0].ID {
		t.Fatalf("leader should be entry %d, got %d", f.entries[0].ID, standings[0].Entry.ID)
	}
	if standings[0].Wins != 2 || standings[0].Losses != 0 {
		t.Fatalf("leader record wrong: %d-%d", standings[0].Wins, standings[0].Losses)
	}

	// Entry 1: won 5-0, lost 0-3 and 3-4 → diff +1. Entry 2: won 4-3,
	// lost 1-2 and 0-5 → diff -5. Entry 1 ranks second.
	if standings[1].Entry.ID != f.entries[1].ID {
		t.Fatalf("second place should be entry %d, got %d", f.entries[1].ID, standings[1].Entry.ID)
	}
	if standings[1].PointDifferential != 1 {
		t.Fatalf("second place differential: %d, want 1", standings[1].PointDifferential)
	}
	if standings[2].PointDifferential != -5 {
		t.Fatalf("third place differential: %d, want -5", standings[2].PointDifferential)
	}
}

func TestStandings_TieAddsGameButNoWin(t *testing.T) {
	t.Parallel()

	f := newStandingsFixture(t, 2)
	f.addCompletedMatch(t, 0, 1, 2, 2)

	standings, err := f.svc.ComputeStandings(context.Background(), f.divID)
	if err != nil {
		t.Fatalf("compute standings: %v", err)
	}

	for _, s := range standings {
		if s.GamesPlayed != 1 {
			t.Fatalf("entry %d games played: %d, want 1", s.Entry.ID, s.GamesPlayed)
		}
		if s.Wins != 0 || s.Losses != 0 {
			t.Fatalf("tie should not count as win or loss: %+v", s)
		}
		if s.PointDifferential != 0 {
			t.Fatalf("tie differential should be 0, got %d", s.PointDifferential)
		}
	}
}

func TestStandings_IgnoresUnfinishedMatches(t *testing.T) {
	t.Parallel()

	f := newStandingsFixture(t, 2)

	// Scheduled and disputed matches carry no standings weight.
	three, one := 3, 1
	scheduled := &models.Match{
		DivisionID:  f.divID,
		HomeEntryID: f.entries[0].ID,
		AwayEntryID: f.entries[1].ID,
		Status:      models.MatchStatusScheduled,
	}
	disputed := &models.Match{
		DivisionID:  f.divID,
		HomeEntryID: f.entries[0].ID,
		AwayEntryID: f.entries[1].ID,
		HomeScore:   &three,
		AwayScore:   &one,
		Status:      models.MatchStatusDisputed,
	}
	ctx := context.Background()
	if err := f.store.matches.Create(ctx, nil, scheduled); err != nil {
		t.Fatalf("create scheduled match: %v", err)
	}
	if err := f.store.matches.Create(ctx, nil, disputed); err != nil {
		t.Fatalf("create disputed match: %v", err)
	}

	standings, err := f.svc.ComputeStandings(ctx, f.divID)
	if err != nil {
		t.Fatalf("compute standings: %v", err)
	}
	for _, s := range standings {
		if s.GamesPlayed != 0 {
			t.Fatalf("unfinished matches counted for entry %d", s.Entry.ID)
		}
	}
}

func TestStandings_EmptyDivision(t *testing.T) {
	t.Parallel()

	f := newStandingsFixture(t, 0)

	standings, err := f.svc.ComputeStandings(context.Background(), f.divID)
	if err != nil {
		t.Fatalf("compute standings: %v", err)
	}
	if len(standings) != 0 {
		t.Fatalf("expected empty standings, got %d rows", len(standings))
	}
}

func TestStandings_UnknownDivision(t *testing.T) {
	t.Parallel()

	f := newStandingsFixture(t, 0)

	_, err := f.svc.ComputeStandings(context.Background(), 999)
	if !errors.Is(err, ErrDivisionNotFound) {
		t.Fatalf("expected ErrDivisionNotFound, got %v", err)
	}
}

func TestStandings_GamesPlayedMatchesCompletedMatches(t *testing.T) {
	t.Parallel()

	f := newStandingsFixture(t, 4)
	f.addCompletedMatch(t, 0, 1, 1, 0)
	f.addCompletedMatch(t, 2, 3, 2, 2)
	f.addCompletedMatch(t, 0, 2, 4, 1)

	standings, err := f.svc.ComputeStandings(context.Background(), f.divID)
	if err != nil {
		t.Fatalf("compute standings: %v", err)
	}

	totalGames := 0
	for _, s := range standings {
		totalGames += s.GamesPlayed
	}
	// Each completed match counts once for both sides.
	if totalGames != 6 {
		t.Fatalf("total games played: %d, want 6", totalGames)
	}
}
