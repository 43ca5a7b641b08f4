package memory

import (
	"context"
	"sync"
	"time"

	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories"
)

type EntryRepository struct {
	mu     sync.RWMutex
	items  map[int]models.Entry
	orders []int
	nextID int

	users *UserRepository
}

func NewEntryRepository(users *UserRepository) *EntryRepository {
	return &EntryRepository{
		items:  make(map[int]models.Entry),
		nextID: 1,
		users:  users,
	}
}

func (r *EntryRepository) Create(_ context.Context, entry *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.DivisionID == entry.DivisionID && existing.UserID == entry.UserID {
			return repositories.ErrEntryConflict
		}
	}

	entry.ID = r.nextID
	r.nextID++
	if entry.Status == "" {
		entry.Status = models.EntryStatusConfirmed
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.items[entry.ID] = *entry
	r.orders = append(r.orders, entry.ID)

	return nil
}

func (r *EntryRepository) GetByID(ctx context.Context, id int) (*models.Entry, error) {
	r.mu.RLock()
	entry, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return nil, repositories.ErrEntryNotFound
	}

	r.hydrateUser(ctx, &entry)
	return &entry, nil
}

func (r *EntryRepository) FindByDivisionAndUser(ctx context.Context, divisionID, userID int) (*models.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.orders {
		entry := r.items[id]
		if entry.DivisionID == divisionID && entry.UserID == userID {
			r.hydrateUser(ctx, &entry)
			return &entry, nil
		}
	}

	return nil, repositories.ErrEntryNotFound
}

func (r *EntryRepository) ListByDivision(ctx context.Context, divisionID int) ([]*models.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Entry, 0)
	for _, id := range r.orders {
		entry := r.items[id]
		if entry.DivisionID != divisionID {
			continue
		}
		r.hydrateUser(ctx, &entry)
		out = append(out, &entry)
	}

	return out, nil
}

func (r *EntryRepository) CountByDivision(_ context.Context, _ repositories.SQLExecutor, divisionID int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, entry := range r.items {
		if entry.DivisionID == divisionID {
			count++
		}
	}

	return count, nil
}

func (r *EntryRepository) UpdatePaid(_ context.Context, id int, paid bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.items[id]
	if !ok {
		return repositories.ErrEntryNotFound
	}

	entry.Paid = paid
	r.items[id] = entry

	return nil
}

func (r *EntryRepository) hydrateUser(ctx context.Context, entry *models.Entry) {
	if r.users == nil {
		return
	}
	if user, err := r.users.GetByID(ctx, entry.UserID); err == nil {
		user.PasswordHash = ""
		entry.User = user
	}
}
