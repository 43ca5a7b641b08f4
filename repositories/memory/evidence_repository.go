package memory

import (
	"context"
	"sync"
	"time"

	"github.com/openleague/league-system/models"
)

type EvidenceRepository struct {
	mu     sync.RWMutex
	items  map[int]models.Evidence
	orders []int
	nextID int
}

func NewEvidenceRepository() *EvidenceRepository {
	return &EvidenceRepository{
		items:  make(map[int]models.Evidence),
		nextID: 1,
	}
}

func (r *EvidenceRepository) Create(_ context.Context, evidence *models.Evidence) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	evidence.ID = r.nextID
	r.nextID++
	if evidence.CreatedAt.IsZero() {
		evidence.CreatedAt = time.Now()
	}
	r.items[evidence.ID] = *evidence
	r.orders = append(r.orders, evidence.ID)

	return nil
}

func (r *EvidenceRepository) ListByMatch(_ context.Context, matchID int) ([]*models.Evidence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Evidence, 0)
	for _, id := range r.orders {
		evidence := r.items[id]
		if evidence.MatchID != matchID {
			continue
		}
		e := evidence
		out = append(out, &e)
	}

	return out, nil
}
