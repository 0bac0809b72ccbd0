package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cc103/storefront/internal/core/domain"
	"github.com/cc103/storefront/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubProductRepo struct {
	byID   map[int64]*domain.Product
	nextID int64
	err    error // if set, every call returns this error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: make(map[int64]*domain.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.nextID++
	clone := *p
	clone.ID = r.nextID
	stored := clone
	r.byID[clone.ID] = &stored
	return &clone, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	existing, ok := r.byID[p.ID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	clone.CreatedAt = existing.CreatedAt
	stored := clone
	r.byID[p.ID] = &stored
	return &clone, nil
}

func (r *stubProductRepo) Delete(_ context.Context, id int64) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.byID[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubProductRepo) List(_ context.Context) ([]*domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Product
	for _, p := range r.byID {
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) FindByName(_ context.Context, name string) (*domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, p := range r.byID {
		if p.Name == name {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func laptop() ports.ProductInput {
	return ports.ProductInput{Name: "Laptop", Description: "16GB RAM", Price: 999.99, Stock: 10}
}

func TestProductService_Add(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, zerolog.Nop())

	p, err := svc.Add(context.Background(), laptop())
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if p.ID != 1 || p.Name != "Laptop" || p.Price != 999.99 || p.Stock != 10 {
		t.Fatalf("unexpected product: %+v", p)
	}
	if p.CreatedAt.IsZero() || !p.CreatedAt.Equal(p.UpdatedAt) {
		t.Fatalf("expected matching timestamps, got %v / %v", p.CreatedAt, p.UpdatedAt)
	}

	second, err := svc.Add(context.Background(), ports.ProductInput{Name: "Mouse", Price: 29.99})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if second.ID != 2 {
		t.Fatalf("expected id 2, got %d", second.ID)
	}
}

func TestProductService_Add_Duplicate(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, zerolog.Nop())

	_, _ = svc.Add(context.Background(), laptop())
	if _, err := svc.Add(context.Background(), laptop()); !errors.Is(err, domain.ErrProductExists) {
		t.Fatalf("expected ErrProductExists, got %v", err)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected 1 product stored, got %d", len(repo.byID))
	}
}

func TestProductService_Add_Validation(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), zerolog.Nop())

	cases := []struct {
		name    string
		in      ports.ProductInput
		message string
	}{
		{"empty name", ports.ProductInput{Name: "", Price: 1}, "Product name is required"},
		{"blank name", ports.ProductInput{Name: "  ", Price: 1}, "Product name is required"},
		{"zero price", ports.ProductInput{Name: "X", Price: 0}, "Price must be greater than 0"},
		{"negative price", ports.ProductInput{Name: "X", Price: -1}, "Price must be greater than 0"},
		{"negative stock", ports.ProductInput{Name: "X", Price: 1, Stock: -1}, "Stock cannot be negative"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Add(context.Background(), tc.in)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if err.Error() != tc.message {
				t.Fatalf("expected %q, got %q", tc.message, err.Error())
			}
		})
	}
}

func TestProductService_Update(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, zerolog.Nop())
	created, _ := svc.Add(context.Background(), laptop())

	updated, err := svc.Update(context.Background(), created.ID, ports.ProductInput{Name: "Laptop Pro", Price: 1299, Stock: 4})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "Laptop Pro" || updated.Price != 1299 || updated.Stock != 4 || updated.Description != "" {
		t.Fatalf("unexpected product: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("createdAt changed on update")
	}

	if _, err := svc.Update(context.Background(), 42, laptop()); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := svc.Update(context.Background(), created.ID, ports.ProductInput{Name: "Laptop", Price: 1, Stock: -3}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for negative stock, got %v", err)
	}
}

func TestProductService_Update_AllowsDuplicateName(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), zerolog.Nop())
	_, _ = svc.Add(context.Background(), laptop())
	mouse, _ := svc.Add(context.Background(), ports.ProductInput{Name: "Mouse", Price: 29.99})

	if _, err := svc.Update(context.Background(), mouse.ID, laptop()); err != nil {
		t.Fatalf("update should not re-check name uniqueness, got %v", err)
	}
}

func TestProductService_Delete(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, zerolog.Nop())
	created, _ := svc.Add(context.Background(), laptop())

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on second delete, got %v", err)
	}
	if _, ok, _ := svc.GetByID(context.Background(), created.ID); ok {
		t.Fatalf("deleted product still visible")
	}
}

func TestProductService_ListAndLookup(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), zerolog.Nop())

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}

	_, _ = svc.Add(context.Background(), laptop())
	_, _ = svc.Add(context.Background(), ports.ProductInput{Name: "Mouse", Price: 29.99})

	list, _ = svc.List(context.Background())
	if len(list) != 2 || list[0].Name != "Laptop" || list[1].Name != "Mouse" {
		t.Fatalf("unexpected list: %+v", list)
	}

	if p, ok, err := svc.GetByName(context.Background(), "Mouse"); err != nil || !ok || p.ID != 2 {
		t.Fatalf("GetByName(Mouse) = %+v ok=%v err=%v", p, ok, err)
	}
	if _, ok, err := svc.GetByName(context.Background(), "Tablet"); err != nil || ok {
		t.Fatalf("GetByName(Tablet) ok=%v err=%v", ok, err)
	}
	if _, ok, err := svc.GetByID(context.Background(), 99); err != nil || ok {
		t.Fatalf("GetByID(99) ok=%v err=%v", ok, err)
	}
}

func TestProductService_RepoErrorsAreWrapped(t *testing.T) {
	repo := newStubProductRepo()
	repo.err = errors.New("disk full")
	svc := NewProductService(repo, zerolog.Nop())

	if _, err := svc.Add(context.Background(), laptop()); !errors.Is(err, repo.err) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
	if _, _, err := svc.GetByID(context.Background(), 1); !errors.Is(err, repo.err) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
	if err := svc.Delete(context.Background(), 1); errors.Is(err, domain.ErrProductNotFound) || err == nil {
		t.Fatalf("expected storage error, got %v", err)
	}
}
