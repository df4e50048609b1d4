package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

// failingStore fails every call.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, errors.New("disk gone") }
func (failingStore) Set(context.Context, string, []byte) error   { return errors.New("quota exceeded") }
func (failingStore) Delete(context.Context, string) error        { return errors.New("disk gone") }
func (failingStore) Close() error                                { return nil }

func TestPantryRoundTrip(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	p := NewPantry(NewMemoryStore(log), log)
	ctx := context.Background()

	items := []domain.Ingredient{
		{ID: 1, Name: "tomato", Quantity: 4, Expiration: 5},
		{ID: 2, Name: "rice", Quantity: 1, Expiration: 30},
	}
	if err := p.SaveIngredients(ctx, items); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := p.Ingredients(ctx)
	if len(got) != 2 || got[0] != items[0] || got[1] != items[1] {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestPantryReadsDefaultToEmpty(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	kv := NewMemoryStore(log)
	p := NewPantry(kv, log)
	ctx := context.Background()

	if got := p.Ingredients(ctx); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil inventory, got %#v", got)
	}
	if got := p.Recipes(ctx); got == nil || len(got) != 0 {
		t.Fatalf("expected empty recipes, got %#v", got)
	}
	if _, ok := p.Profile(ctx); ok {
		t.Fatal("expected unconfigured profile")
	}

	// Corrupt JSON reads as empty.
	_ = kv.Set(ctx, domain.KeyIngredients, []byte("{not json"))
	if got := p.Ingredients(ctx); len(got) != 0 {
		t.Fatalf("expected corrupt document to read empty, got %+v", got)
	}
}

func TestPantryProfileWithoutNameIsUnconfigured(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	kv := NewMemoryStore(log)
	p := NewPantry(kv, log)
	ctx := context.Background()

	for _, doc := range []string{`null`, `{}`, `{"name":"   ","cuisine":"Thai"}`} {
		_ = kv.Set(ctx, domain.KeyRestaurant, []byte(doc))
		if got, ok := p.Profile(ctx); ok || got != nil {
			t.Fatalf("%s: expected unconfigured, got %+v", doc, got)
		}
	}

	_ = kv.Set(ctx, domain.KeyRestaurant, []byte(`{"name":"Chez Otto"}`))
	if got, ok := p.Profile(ctx); !ok || got.Name != "Chez Otto" {
		t.Fatalf("expected named profile, got %+v %v", got, ok)
	}
}

func TestPantryUsesStableKeys(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	kv := NewMemoryStore(log)
	p := NewPantry(kv, log)
	ctx := context.Background()

	_ = p.SaveProfile(ctx, domain.SampleProfile())
	raw, err := kv.Get(ctx, "restaurant_info")
	if err != nil {
		t.Fatalf("expected restaurant_info key: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("empty profile document")
	}

	_ = p.SaveRecipes(ctx, []domain.Recipe{{ID: 1, Title: "Dal"}})
	if _, err := kv.Get(ctx, "recipes"); err != nil {
		t.Fatalf("expected recipes key: %v", err)
	}
}

func TestPantryFailures(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	p := NewPantry(failingStore{}, log)
	ctx := context.Background()

	if got := p.Ingredients(ctx); len(got) != 0 {
		t.Fatalf("failing read must yield empty, got %+v", got)
	}
	if err := p.SaveIngredients(ctx, nil); err == nil {
		t.Fatal("expected write error to surface")
	}
	if err := p.ClearProfile(ctx); err == nil {
		t.Fatal("expected clear error to surface")
	}
}

func TestPantryClearProfile(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	p := NewPantry(NewMemoryStore(log), log)
	ctx := context.Background()

	// Clearing an absent profile is fine.
	if err := p.ClearProfile(ctx); err != nil {
		t.Fatalf("clear absent: %v", err)
	}
	_ = p.SaveProfile(ctx, domain.SampleProfile())
	if err := p.ClearProfile(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := p.Profile(ctx); ok {
		t.Fatal("profile still configured after clear")
	}
}
