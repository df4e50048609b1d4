package domain

import "strings"

// Ingredient is one inventory record. Expiration counts days until the
// item spoils; stored values may be zero or negative once it has.
type Ingredient struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Expiration int    `json:"expiration"`
}

// SameName reports whether two ingredient names identify the same item.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// IngredientNames returns the names of the given ingredients in order.
func IngredientNames(items []Ingredient) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}
