package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/schedule"
)

func newScheduleService(store *testStore) ScheduleService {
	return NewScheduleService(
		nil, // no transactional backend in memory-backed tests
		store.division,
		store.entries,
		store.matches,
		schedule.NewRoundRobinGenerator(),
		nil,
	)
}

func TestScheduleService_GenerateSchedule(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	svc := newScheduleService(store)
	division := store.addDivision(t, 8)
	for _, tag := range []string{"a", "b", "c", "d"} {
		user := store.addUser(t, tag)
		store.addEntry(t, division.ID, user.ID)
	}

	result, err := svc.GenerateSchedule(context.Background(), division.ID)
	if err != nil {
		t.Fatalf("generate schedule: %v", err)
	}

	if len(result.Matches) != 6 {
		t.Fatalf("unexpected match count: got=%d want=6", len(result.Matches))
	}
	if result.Weeks != 3 {
		t.Fatalf("unexpected weeks: got=%d want=3", result.Weeks)
	}

	stored, err := store.matches.ListByDivision(context.Background(), division.ID, nil)
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(stored) != 6 {
		t.Fatalf("matches not persisted: got=%d want=6", len(stored))
	}
	for _, m := range stored {
		if m.Status != models.MatchStatusScheduled {
			t.Fatalf("match %d created with status %s", m.ID, m.Status)
		}
		if m.ScheduledAt.Weekday() != time.Wednesday {
			t.Fatalf("match %d not on a Wednesday: %v", m.ID, m.ScheduledAt)
		}
	}
}

func TestScheduleService_SecondGenerationRejected(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	svc := newScheduleService(store)
	division := store.addDivision(t, 8)
	for _, tag := range []string{"a", "b"} {
		user := store.addUser(t, tag)
		store.addEntry(t, division.ID, user.ID)
	}

	if _, err := svc.GenerateSchedule(context.Background(), division.ID); err != nil {
		t.Fatalf("first generation: %v", err)
	}

	_, err := svc.GenerateSchedule(context.Background(), division.ID)
	if !errors.Is(err, ErrScheduleExists) {
		t.Fatalf("expected ErrScheduleExists, got %v", err)
	}

	stored, err := store.matches.ListByDivision(context.Background(), division.ID, nil)
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("second generation changed the schedule: %d matches", len(stored))
	}
}

func TestScheduleService_InsufficientPlayers(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	svc := newScheduleService(store)
	division := store.addDivision(t, 8)
	user := store.addUser(t, "solo")
	store.addEntry(t, division.ID, user.ID)

	_, err := svc.GenerateSchedule(context.Background(), division.ID)
	if !errors.Is(err, ErrInsufficientPlayers) {
		t.Fatalf("expected ErrInsufficientPlayers, got %v", err)
	}
}

func TestScheduleService_UnknownDivision(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	svc := newScheduleService(store)

	_, err := svc.GenerateSchedule(context.Background(), 99)
	if !errors.Is(err, ErrDivisionNotFound) {
		t.Fatalf("expected ErrDivisionNotFound, got %v", err)
	}
}

func TestScheduleService_OddRosterWeeks(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	svc := newScheduleService(store)
	division := store.addDivision(t, 8)
	for _, tag := range []string{"a", "b", "c", "d", "e"} {
		user := store.addUser(t, tag)
		store.addEntry(t, division.ID, user.ID)
	}

	result, err := svc.GenerateSchedule(context.Background(), division.ID)
	if err != nil {
		t.Fatalf("generate schedule: %v", err)
	}
	if len(result.Matches) != 10 {
		t.Fatalf("unexpected match count: got=%d want=10", len(result.Matches))
	}
	if result.Weeks != 5 {
		t.Fatalf("unexpected weeks for odd roster: got=%d want=5", result.Weeks)
	}
}
