// Package inventory reconciles detected ingredients into the stored
// inventory and implements the manual adjustments on top of it.
package inventory

import (
	"github.com/hammamikhairi/ottopantry/internal/domain"
)

// Merge folds incoming into existing and returns the new collection.
//
// Items are matched by case-insensitive name against everything merged so
// far, including earlier incoming items. A match adds quantities and keeps
// the smaller expiration. Unmatched items are appended and get an id from a
// counter that starts above the largest existing id; an incoming id is kept
// only when it is positive and not already taken. Neither input is modified.
func Merge(existing, incoming []domain.Ingredient) []domain.Ingredient {
	out := make([]domain.Ingredient, len(existing), len(existing)+len(incoming))
	copy(out, existing)

	used := make(map[int]bool, len(out))
	next := 1
	for _, it := range out {
		used[it.ID] = true
		if it.ID >= next {
			next = it.ID + 1
		}
	}

	for _, in := range incoming {
		if idx := indexByName(out, in.Name); idx >= 0 {
			out[idx].Quantity += in.Quantity
			out[idx].Expiration = min(out[idx].Expiration, in.Expiration)
			continue
		}

		item := in
		if item.ID <= 0 || used[item.ID] {
			for used[next] {
				next++
			}
			item.ID = next
			next++
		}
		used[item.ID] = true
		out = append(out, item)
	}
	return out
}

func indexByName(items []domain.Ingredient, name string) int {
	for i, it := range items {
		if domain.SameName(it.Name, name) {
			return i
		}
	}
	return -1
}
