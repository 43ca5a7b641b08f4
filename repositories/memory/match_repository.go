package memory

import (
	"context"
	"sync"
	"time"

	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories"
)

type MatchRepository struct {
	mu     sync.RWMutex
	items  map[int]models.Match
	orders []int
	nextID int
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		items:  make(map[int]models.Match),
		nextID: 1,
	}
}

func (r *MatchRepository) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	match.ID = r.nextID
	r.nextID++
	if match.Status == "" {
		match.Status = models.MatchStatusScheduled
	}
	now := time.Now()
	if match.CreatedAt.IsZero() {
		match.CreatedAt = now
	}
	if match.UpdatedAt.IsZero() {
		match.UpdatedAt = now
	}
	r.items[match.ID] = *match
	r.orders = append(r.orders, match.ID)

	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, id int) (*models.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	match, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}

	return &match, nil
}

func (r *MatchRepository) ListByDivision(_ context.Context, divisionID int, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Match, 0)
	for _, id := range r.orders {
		match := r.items[id]
		if match.DivisionID != divisionID {
			continue
		}
		if statusFilter != nil && match.Status != *statusFilter {
			continue
		}
		m := match
		out = append(out, &m)
	}

	return out, nil
}

func (r *MatchRepository) ListByStatus(_ context.Context, status models.MatchStatus) ([]*models.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Match, 0)
	for _, id := range r.orders {
		match := r.items[id]
		if match.Status != status {
			continue
		}
		m := match
		out = append(out, &m)
	}

	return out, nil
}

func (r *MatchRepository) CountByDivision(_ context.Context, _ repositories.SQLExecutor, divisionID int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, match := range r.items {
		if match.DivisionID == divisionID {
			count++
		}
	}

	return count, nil
}

func (r *MatchRepository) UpdateScoreState(_ context.Context, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[match.ID]; !ok {
		return repositories.ErrMatchNotFound
	}

	match.UpdatedAt = time.Now()
	r.items[match.ID] = *match

	return nil
}
