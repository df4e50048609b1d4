package inventory

import (
	"testing"

	"github.com/hammamikhairi/ottopantry/internal/domain"
)

func TestMergeAddsQuantityAndKeepsStricterExpiration(t *testing.T) {
	existing := []domain.Ingredient{{ID: 1, Name: "Tomato", Quantity: 2, Expiration: 5}}
	incoming := []domain.Ingredient{{Name: "tomato", Quantity: 3, Expiration: 2}}

	got := Merge(existing, incoming)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(got), got)
	}
	if got[0].ID != 1 || got[0].Name != "Tomato" {
		t.Fatalf("matched record should keep id and name: %+v", got[0])
	}
	if got[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", got[0].Quantity)
	}
	if got[0].Expiration != 2 {
		t.Fatalf("expected expiration 2, got %d", got[0].Expiration)
	}
}

func TestMergeKeepsExistingExpirationWhenSooner(t *testing.T) {
	existing := []domain.Ingredient{{ID: 1, Name: "milk", Quantity: 1, Expiration: 1}}
	got := Merge(existing, []domain.Ingredient{{Name: "MILK", Quantity: 1, Expiration: 4}})
	if got[0].Expiration != 1 {
		t.Fatalf("expected expiration 1, got %d", got[0].Expiration)
	}
}

func TestMergeBatchGetsDistinctIDs(t *testing.T) {
	existing := []domain.Ingredient{
		{ID: 3, Name: "rice", Quantity: 1, Expiration: 30},
		{ID: 7, Name: "onion", Quantity: 4, Expiration: 10},
	}
	incoming := []domain.Ingredient{
		{Name: "garlic", Quantity: 2, Expiration: 14},
		{Name: "ginger", Quantity: 1, Expiration: 14},
		{Name: "chili", Quantity: 5, Expiration: 6},
	}

	got := Merge(existing, incoming)
	if len(got) != 5 {
		t.Fatalf("expected 5 records, got %d", len(got))
	}
	seen := map[int]bool{}
	for _, it := range got {
		if seen[it.ID] {
			t.Fatalf("duplicate id %d in %+v", it.ID, got)
		}
		seen[it.ID] = true
	}
	if got[2].ID != 8 || got[3].ID != 9 || got[4].ID != 10 {
		t.Fatalf("expected ids 8,9,10 got %d,%d,%d", got[2].ID, got[3].ID, got[4].ID)
	}
}

func TestMergeDuplicatesWithinBatchCollapse(t *testing.T) {
	incoming := []domain.Ingredient{
		{Name: "egg", Quantity: 2, Expiration: 10},
		{Name: "Egg", Quantity: 4, Expiration: 8},
	}
	got := Merge(nil, incoming)
	if len(got) != 1 {
		t.Fatalf("expected one egg record, got %+v", got)
	}
	if got[0].Quantity != 6 || got[0].Expiration != 8 || got[0].ID != 1 {
		t.Fatalf("unexpected merged egg: %+v", got[0])
	}
}

func TestMergeIncomingIDs(t *testing.T) {
	existing := []domain.Ingredient{{ID: 1, Name: "salt", Quantity: 1, Expiration: 365}}
	incoming := []domain.Ingredient{
		{ID: 1, Name: "pepper", Quantity: 1, Expiration: 365}, // taken
		{ID: 5, Name: "cumin", Quantity: 1, Expiration: 200},  // free
		{ID: -2, Name: "clove", Quantity: 1, Expiration: 200}, // invalid
	}
	got := Merge(existing, incoming)

	ids := map[string]int{}
	for _, it := range got {
		ids[it.Name] = it.ID
	}
	if ids["salt"] != 1 || ids["cumin"] != 5 {
		t.Fatalf("unexpected ids: %v", ids)
	}
	if ids["pepper"] == 1 || ids["pepper"] <= 0 {
		t.Fatalf("pepper must get a fresh id, got %d", ids["pepper"])
	}
	if ids["clove"] <= 0 || ids["clove"] == ids["pepper"] || ids["clove"] == 5 {
		t.Fatalf("clove must get a fresh unique id, got %d", ids["clove"])
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	existing := []domain.Ingredient{{ID: 1, Name: "basil", Quantity: 1, Expiration: 4}}
	incoming := []domain.Ingredient{{Name: "basil", Quantity: 2, Expiration: 2}, {Name: "mint", Quantity: 1, Expiration: 3}}

	_ = Merge(existing, incoming)
	if existing[0].Quantity != 1 || existing[0].Expiration != 4 {
		t.Fatalf("existing mutated: %+v", existing[0])
	}
	if incoming[1].ID != 0 {
		t.Fatalf("incoming mutated: %+v", incoming[1])
	}
}

func TestMergeNeverDropsItems(t *testing.T) {
	existing := []domain.Ingredient{{ID: 1, Name: "a", Quantity: 1, Expiration: 1}}
	got := Merge(existing, nil)
	if len(got) != 1 || got[0] != existing[0] {
		t.Fatalf("empty merge changed inventory: %+v", got)
	}
}
