// Package recipe keeps the generated recipes.
package recipe

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

// Store is the slice of storage.Pantry the book needs.
type Store interface {
	Recipes(ctx context.Context) []domain.Recipe
	SaveRecipes(ctx context.Context, recipes []domain.Recipe) error
}

// Book is the recipe collection. Recipes are only ever appended.
type Book struct {
	mu    sync.Mutex
	store Store
	log   *logger.Logger
}

// NewBook creates a recipe book over store.
func NewBook(store Store, log *logger.Logger) *Book {
	return &Book{store: store, log: log}
}

// List returns every saved recipe in insertion order.
func (b *Book) List(ctx context.Context) []domain.Recipe {
	recipes := b.store.Recipes(ctx)
	b.log.Debug("listing recipes, count=%d", len(recipes))
	return recipes
}

// Get returns a recipe by id.
func (b *Book) Get(ctx context.Context, id int) (*domain.Recipe, error) {
	for _, r := range b.store.Recipes(ctx) {
		if r.ID == id {
			return &r, nil
		}
	}
	b.log.Debug("recipe not found: %d", id)
	return nil, fmt.Errorf("recipe %d: %w", id, domain.ErrNotFound)
}

// Search returns recipes whose title, description or ingredients contain
// query, case-insensitively.
func (b *Book) Search(ctx context.Context, query string) []domain.Recipe {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return b.List(ctx)
	}
	b.log.Debug("searching recipes for: %s", q)

	out := []domain.Recipe{}
	for _, r := range b.store.Recipes(ctx) {
		if matches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

// Add assigns ids (max+1, in order) to recipes and appends them.
func (b *Book) Add(ctx context.Context, recipes ...domain.Recipe) ([]domain.Recipe, error) {
	if len(recipes) == 0 {
		return nil, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	all := b.store.Recipes(ctx)
	next := 1
	for _, r := range all {
		if r.ID >= next {
			next = r.ID + 1
		}
	}

	added := make([]domain.Recipe, 0, len(recipes))
	for _, r := range recipes {
		r.ID = next
		next++
		added = append(added, r)
	}
	all = append(all, added...)

	if err := b.store.SaveRecipes(ctx, all); err != nil {
		return nil, err
	}
	for _, r := range added {
		b.log.Info("recipe saved: %s (#%d)", r.Title, r.ID)
	}
	return added, nil
}

func matches(r domain.Recipe, query string) bool {
	if strings.Contains(strings.ToLower(r.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), query) {
		return true
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing), query) {
			return true
		}
	}
	return false
}
