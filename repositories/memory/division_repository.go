package memory

import (
	"context"
	"sync"
	"time"

	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories"
)

type DivisionRepository struct {
	mu     sync.RWMutex
	items  map[int]models.Division
	orders []int
	nextID int

	leagues *LeagueRepository
}

// NewDivisionRepository builds an empty division store. The league repository
// is used to validate foreign keys and to hydrate the League field on reads,
// mirroring what the SQL implementation's JOIN does.
func NewDivisionRepository(leagues *LeagueRepository) *DivisionRepository {
	return &DivisionRepository{
		items:   make(map[int]models.Division),
		nextID:  1,
		leagues: leagues,
	}
}

func (r *DivisionRepository) Create(ctx context.Context, division *models.Division) error {
	if r.leagues != nil {
		if _, err := r.leagues.GetByID(ctx, division.LeagueID); err != nil {
			return repositories.ErrDivisionLeagueInvalid
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	division.ID = r.nextID
	r.nextID++
	if division.CreatedAt.IsZero() {
		division.CreatedAt = time.Now()
	}
	r.items[division.ID] = *division
	r.orders = append(r.orders, division.ID)

	return nil
}

func (r *DivisionRepository) GetByID(ctx context.Context, id int) (*models.Division, error) {
	r.mu.RLock()
	division, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return nil, repositories.ErrDivisionNotFound
	}

	if r.leagues != nil {
		if league, err := r.leagues.GetByID(ctx, division.LeagueID); err == nil {
			division.League = league
		}
	}

	return &division, nil
}

func (r *DivisionRepository) List(ctx context.Context) ([]*models.Division, error) {
	r.mu.RLock()
	ids := make([]int, len(r.orders))
	copy(ids, r.orders)
	r.mu.RUnlock()

	out := make([]*models.Division, 0, len(ids))
	for _, id := range ids {
		division, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, division)
	}

	return out, nil
}

func (r *DivisionRepository) LockByID(_ context.Context, _ repositories.SQLExecutor, id int) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.items[id]; !ok {
		return repositories.ErrDivisionNotFound
	}

	return nil
}
