// Package memory provides process-local record stores. Data does not survive
// a restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cc103/storefront/internal/core/domain"
)

type UserRepository struct {
	mu         sync.RWMutex
	nextID     int64
	byID       map[int64]*domain.User
	byUsername map[string]int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[int64]*domain.User),
		byUsername: make(map[string]int64),
	}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[user.Username]; exists {
		return nil, domain.ErrUserExists
	}

	r.nextID++
	stored := *user
	stored.ID = r.nextID
	r.byID[stored.ID] = &stored
	r.byUsername[stored.Username] = stored.ID

	out := stored
	return &out, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *r.byID[id]
	return &out, nil
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

// Count reports the number of stored users.
func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

type ProductRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*domain.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{byID: make(map[int64]*domain.Product)}
}

func (r *ProductRepository) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *p
	stored.ID = r.nextID
	r.byID[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *ProductRepository) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[p.ID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	stored := *existing
	stored.Name = p.Name
	stored.Description = p.Description
	stored.Price = p.Price
	stored.Stock = p.Stock
	stored.UpdatedAt = p.UpdatedAt
	r.byID[p.ID] = &stored

	out := stored
	return &out, nil
}

func (r *ProductRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.byID, id)
	return nil
}

// List returns all products ordered by id.
func (r *ProductRepository) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.byID))
	for _, p := range r.byID {
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProductRepository) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	out := *p
	return &out, nil
}

// FindByName returns the lowest-id product with an exact name match.
func (r *ProductRepository) FindByName(_ context.Context, name string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *domain.Product
	for _, p := range r.byID {
		if p.Name == name && (found == nil || p.ID < found.ID) {
			found = p
		}
	}
	if found == nil {
		return nil, domain.ErrProductNotFound
	}
	out := *found
	return &out, nil
}

// Count reports the number of stored products.
func (r *ProductRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
