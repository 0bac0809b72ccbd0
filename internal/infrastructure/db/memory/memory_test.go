package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cc103/storefront/internal/core/domain"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	alice, err := repo.Create(ctx, &domain.User{Username: "alice", Email: "a@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), alice.ID)

	bob, err := repo.Create(ctx, &domain.User{Username: "bob", Email: "b@x.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), bob.ID)

	_, err = repo.Create(ctx, &domain.User{Username: "alice", Email: "other@x.com"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
	assert.Equal(t, 2, repo.Count())

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", found.Email)

	found, err = repo.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "bob", found.Username)

	_, err = repo.FindByUsername(ctx, "carol")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = repo.FindByID(ctx, 3)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, err := repo.Create(ctx, &domain.User{Username: "alice", Email: "a@x.com"})
	require.NoError(t, err)
	created.Email = "mutated@x.com"

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", found.Email)
}

func TestUserRepository_ConcurrentCreateSameUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, &domain.User{Username: "race"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, domain.ErrUserExists)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, repo.Count())
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	laptop, err := repo.Create(ctx, &domain.Product{Name: "Laptop", Price: 999.99, Stock: 10, CreatedAt: created, UpdatedAt: created})
	require.NoError(t, err)
	mouse, err := repo.Create(ctx, &domain.Product{Name: "Mouse", Price: 29.99, Stock: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(1), laptop.ID)
	assert.Equal(t, int64(2), mouse.ID)

	later := created.Add(time.Hour)
	updated, err := repo.Update(ctx, &domain.Product{ID: laptop.ID, Name: "Laptop Pro", Description: "new", Price: 1299, Stock: 3, UpdatedAt: later})
	require.NoError(t, err)
	assert.Equal(t, "Laptop Pro", updated.Name)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)

	got, err := repo.FindByID(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Description)
	assert.Equal(t, 1299.0, got.Price)
	assert.Equal(t, 3, got.Stock)

	_, err = repo.Update(ctx, &domain.Product{ID: 99, Name: "Ghost", Price: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, 2, repo.Count())

	byName, err := repo.FindByName(ctx, "Mouse")
	require.NoError(t, err)
	assert.Equal(t, mouse.ID, byName.ID)
	_, err = repo.FindByName(ctx, "mouse")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, int64(2), list[1].ID)

	require.NoError(t, repo.Delete(ctx, laptop.ID))
	assert.ErrorIs(t, repo.Delete(ctx, laptop.ID), domain.ErrProductNotFound)
	_, err = repo.FindByID(ctx, laptop.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	third, err := repo.Create(ctx, &domain.Product{Name: "Keyboard", Price: 79.99})
	require.NoError(t, err)
	assert.Equal(t, int64(3), third.ID, "ids are never reused")
}

func TestProductRepository_ConcurrentUpdatesLastWriterWins(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository()
	p, err := repo.Create(ctx, &domain.Product{Name: "Laptop", Price: 1, Stock: 1})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Update(ctx, &domain.Product{ID: p.ID, Name: fmt.Sprintf("v%d", i), Price: float64(i), Stock: i})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	// Every field comes from the same writer.
	assert.Equal(t, fmt.Sprintf("v%d", got.Stock), got.Name)
	assert.Equal(t, float64(got.Stock), got.Price)
}
