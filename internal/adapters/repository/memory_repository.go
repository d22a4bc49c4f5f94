package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/domain"
)

var _ domain.UserRepository = (*InMemoryUserRepository)(nil)

// InMemoryUserRepository keeps every plan in memory in creation order.
// Users are cloned on the way in and out so callers never share state with
// the store.
type InMemoryUserRepository struct {
	store map[string]*domain.User
	order []string

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[user.ID]; exists {
		return domain.ErrUserAlreadyExists
	}

	r.store[user.ID] = user.Clone()
	r.order = append(r.order, user.ID)
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user.Clone(), nil
}

func (r *InMemoryUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, r.store[id].Clone())
	}
	return users, nil
}

func (r *InMemoryUserRepository) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[user.ID]; !ok {
		return domain.ErrUserNotFound
	}

	r.store[user.ID] = user.Clone()
	return nil
}

func (r *InMemoryUserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrUserNotFound
	}

	delete(r.store, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Snapshot serialises the whole collection as a JSON array in creation order.
func (r *InMemoryUserRepository) Snapshot() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, r.store[id])
	}

	data, err := json.Marshal(users)
	if err != nil {
		return nil, fmt.Errorf("repository: encode snapshot: %w", err)
	}
	return data, nil
}

// Restore replaces the collection with the users in data. On a decode error
// the current contents are left alone.
func (r *InMemoryUserRepository) Restore(data []byte) error {
	var users []*domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("repository: decode snapshot: %w", err)
	}

	store := make(map[string]*domain.User, len(users))
	order := make([]string, 0, len(users))
	for _, u := range users {
		if u == nil || u.ID == "" {
			continue
		}
		if _, dup := store[u.ID]; dup {
			continue
		}
		if u.Categories == nil {
			u.Categories = domain.NewCategories()
		}
		store[u.ID] = u
		order = append(order, u.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store = store
	r.order = order
	return nil
}

func (r *InMemoryUserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
