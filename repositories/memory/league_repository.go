package memory

import (
	"context"
	"sync"

	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories"
)

type LeagueRepository struct {
	mu     sync.RWMutex
	items  map[int]models.League
	orders []int
}

func NewLeagueRepository(leagues []models.League) *LeagueRepository {
	items := make(map[int]models.League, len(leagues))
	orders := make([]int, 0, len(leagues))

	for _, l := range leagues {
		items[l.ID] = l
		orders = append(orders, l.ID)
	}

	return &LeagueRepository{
		items:  items,
		orders: orders,
	}
}

func (r *LeagueRepository) GetByID(_ context.Context, id int) (*models.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	league, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrLeagueNotFound
	}

	return &league, nil
}

func (r *LeagueRepository) List(_ context.Context) ([]*models.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.League, 0, len(r.orders))
	for _, id := range r.orders {
		league := r.items[id]
		out = append(out, &league)
	}

	return out, nil
}
