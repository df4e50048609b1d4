package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/freshness"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

// Store is the slice of storage.Pantry the service needs.
type Store interface {
	Ingredients(ctx context.Context) []domain.Ingredient
	SaveIngredients(ctx context.Context, items []domain.Ingredient) error
}

// Option configures the service.
type Option func(*Service)

// WithFilter overrides the inventory tab cut-off.
func WithFilter(f freshness.InventoryFilter) Option {
	return func(s *Service) { s.filter = f }
}

// Service owns the stored inventory. Every load-modify-save sequence holds
// the mutex so concurrent requests cannot lose each other's writes.
type Service struct {
	mu     sync.Mutex
	store  Store
	filter freshness.InventoryFilter
	log    *logger.Logger
}

// NewService creates an inventory service over store.
func NewService(store Store, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		filter: freshness.DefaultInventoryFilter(),
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the full inventory.
func (s *Service) List(ctx context.Context) []domain.Ingredient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Ingredients(ctx)
}

// Filter returns the items under tab whose names contain query
// (case-insensitive). An empty query matches everything.
func (s *Service) Filter(ctx context.Context, tab freshness.Tab, query string) []domain.Ingredient {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []domain.Ingredient{}
	for _, it := range s.List(ctx) {
		if !s.filter.Matches(tab, it.Expiration) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(it.Name), q) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Names returns every ingredient name, for recipe generation.
func (s *Service) Names(ctx context.Context) []string {
	return domain.IngredientNames(s.List(ctx))
}

// Find returns the item with the given name.
func (s *Service) Find(ctx context.Context, name string) (domain.Ingredient, error) {
	items := s.List(ctx)
	if idx := indexByName(items, name); idx >= 0 {
		return items[idx], nil
	}
	return domain.Ingredient{}, fmt.Errorf("ingredient %q: %w", name, domain.ErrNotFound)
}

// Merge reconciles incoming into the stored inventory and returns the result.
// The whole batch is rejected with ErrInvalidInput if any item has an empty
// name or a quantity below one; nothing is written in that case.
func (s *Service) Merge(ctx context.Context, incoming []domain.Ingredient) ([]domain.Ingredient, error) {
	checked := make([]domain.Ingredient, len(incoming))
	for i, it := range incoming {
		it.Name = strings.TrimSpace(it.Name)
		if err := validate(it); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		checked[i] = it
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := Merge(s.store.Ingredients(ctx), checked)
	if err := s.store.SaveIngredients(ctx, merged); err != nil {
		return nil, err
	}
	s.log.Info("inventory: merged %d item(s), now %d", len(incoming), len(merged))
	return merged, nil
}

// Add merges a manual entry as a new item.
func (s *Service) Add(ctx context.Context, item domain.Ingredient) ([]domain.Ingredient, error) {
	item.ID = 0
	return s.Merge(ctx, []domain.Ingredient{item})
}

// Increment adds one unit to the item with id.
func (s *Service) Increment(ctx context.Context, id int) ([]domain.Ingredient, error) {
	return s.mutate(ctx, id, func(items []domain.Ingredient, i int) ([]domain.Ingredient, error) {
		items[i].Quantity++
		return items, nil
	})
}

// Decrement removes one unit from the item with id. An item at quantity 1
// (or less) is deleted instead.
func (s *Service) Decrement(ctx context.Context, id int) ([]domain.Ingredient, error) {
	return s.mutate(ctx, id, func(items []domain.Ingredient, i int) ([]domain.Ingredient, error) {
		if items[i].Quantity <= 1 {
			s.log.Debug("inventory: %s used up, removing", items[i].Name)
			return append(items[:i], items[i+1:]...), nil
		}
		items[i].Quantity--
		return items, nil
	})
}

// Update replaces the fields of the item with id. Renaming onto another
// item's name is rejected.
func (s *Service) Update(ctx context.Context, id int, item domain.Ingredient) ([]domain.Ingredient, error) {
	item.Name = strings.TrimSpace(item.Name)
	if err := validate(item); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(items []domain.Ingredient, i int) ([]domain.Ingredient, error) {
		for j, other := range items {
			if j != i && domain.SameName(other.Name, item.Name) {
				return nil, fmt.Errorf("ingredient %q: %w", item.Name, domain.ErrAlreadyExists)
			}
		}
		item.ID = id
		items[i] = item
		return items, nil
	})
}

// Remove deletes the item with id.
func (s *Service) Remove(ctx context.Context, id int) ([]domain.Ingredient, error) {
	return s.mutate(ctx, id, func(items []domain.Ingredient, i int) ([]domain.Ingredient, error) {
		return append(items[:i], items[i+1:]...), nil
	})
}

func (s *Service) mutate(ctx context.Context, id int, fn func([]domain.Ingredient, int) ([]domain.Ingredient, error)) ([]domain.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.store.Ingredients(ctx)
	idx := -1
	for i, it := range items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("ingredient %d: %w", id, domain.ErrNotFound)
	}

	items, err := fn(items, idx)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveIngredients(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func validate(item domain.Ingredient) error {
	if item.Name == "" {
		return fmt.Errorf("%w: ingredient name is required", domain.ErrInvalidInput)
	}
	if item.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidInput)
	}
	return nil
}
