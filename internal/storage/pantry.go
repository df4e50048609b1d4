package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

// Pantry is the typed view over a KVStore. Reads never fail: a missing,
// unreadable or corrupt document is logged and reported as empty. Writes
// return their error so the caller can decide what to do with it.
type Pantry struct {
	kv  domain.KVStore
	log *logger.Logger
}

// NewPantry wraps kv.
func NewPantry(kv domain.KVStore, log *logger.Logger) *Pantry {
	return &Pantry{kv: kv, log: log}
}

// Ingredients returns the stored inventory, or an empty slice.
func (p *Pantry) Ingredients(ctx context.Context) []domain.Ingredient {
	var out []domain.Ingredient
	if !p.load(ctx, domain.KeyIngredients, &out) || out == nil {
		return []domain.Ingredient{}
	}
	return out
}

// SaveIngredients replaces the stored inventory.
func (p *Pantry) SaveIngredients(ctx context.Context, items []domain.Ingredient) error {
	if items == nil {
		items = []domain.Ingredient{}
	}
	return p.save(ctx, domain.KeyIngredients, items)
}

// Recipes returns the stored recipes, or an empty slice.
func (p *Pantry) Recipes(ctx context.Context) []domain.Recipe {
	var out []domain.Recipe
	if !p.load(ctx, domain.KeyRecipes, &out) || out == nil {
		return []domain.Recipe{}
	}
	return out
}

// SaveRecipes replaces the stored recipes.
func (p *Pantry) SaveRecipes(ctx context.Context, recipes []domain.Recipe) error {
	if recipes == nil {
		recipes = []domain.Recipe{}
	}
	return p.save(ctx, domain.KeyRecipes, recipes)
}

// Profile returns the restaurant profile and whether one is configured. A
// stored document without a name (including JSON null) counts as missing.
func (p *Pantry) Profile(ctx context.Context) (*domain.RestaurantProfile, bool) {
	var out domain.RestaurantProfile
	if !p.load(ctx, domain.KeyRestaurant, &out) {
		return nil, false
	}
	if strings.TrimSpace(out.Name) == "" {
		p.log.Warn("pantry: stored restaurant profile has no name, treating as unconfigured")
		return nil, false
	}
	return &out, true
}

// SaveProfile replaces the restaurant profile.
func (p *Pantry) SaveProfile(ctx context.Context, profile domain.RestaurantProfile) error {
	return p.save(ctx, domain.KeyRestaurant, profile)
}

// ClearProfile removes the profile so the app is unconfigured again.
func (p *Pantry) ClearProfile(ctx context.Context) error {
	err := p.kv.Delete(ctx, domain.KeyRestaurant)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("pantry: clear profile: %w", err)
	}
	return nil
}

func (p *Pantry) load(ctx context.Context, key string, dst any) bool {
	raw, err := p.kv.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return false
	}
	if err != nil {
		p.log.Error("pantry: reading %s: %v", key, err)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		p.log.Error("pantry: decoding %s: %v", key, err)
		return false
	}
	return true
}

func (p *Pantry) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("pantry: encoding %s: %w", key, err)
	}
	if err := p.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("pantry: writing %s: %w", key, err)
	}
	return nil
}
