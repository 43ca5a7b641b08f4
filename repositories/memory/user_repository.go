// Package memory provides in-memory repository implementations used by
// service and handler tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories"
)

type UserRepository struct {
	mu     sync.RWMutex
	items  map[int]models.User
	nextID int
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		items:  make(map[int]models.User),
		nextID: 1,
	}
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailTaken
		}
		if existing.GamerTag == user.GamerTag {
			return repositories.ErrUserGamerTagTaken
		}
	}

	user.ID = r.nextID
	r.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.items[user.ID] = *user

	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id int) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}

	return &user, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.items {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}

	return nil, repositories.ErrUserNotFound
}
