package gemini

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/ottopantry/internal/domain"
)

// Detection quantities are clamped to this range; expirations are floored
// at one day.
const (
	MinQuantity   = 1
	MaxQuantity   = 10
	MinExpiration = 1
)

var (
	arrayPattern  = regexp.MustCompile(`(?s)\[\s*\{.*?\}\s*\]`)
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
)

// number decodes a JSON number or numeric string. Anything else decodes to
// zero, which the clamping rules then lift to the minimum.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*n = 0
		return nil
	}
	*n = number(f)
	return nil
}

func (n number) round() int { return int(math.Round(float64(n))) }

// text decodes a JSON string, or keeps the raw literal for numbers.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	if string(b) == "null" {
		*t = ""
		return nil
	}
	*t = text(b)
	return nil
}

type detectedItem struct {
	Name       string `json:"name"`
	Quantity   number `json:"quantity"`
	Expiration number `json:"expiration"`
}

type recipeWire struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Ingredients     []string `json:"ingredients"`
	Instructions    []string `json:"instructions"`
	PreparationTime text     `json:"preparationTime"`
	CookingTime     text     `json:"cookingTime"`
	Servings        number   `json:"servings"`
	DifficultyLevel string   `json:"difficultyLevel"`
}

// parseIngredients pulls the first JSON array of objects out of raw and
// normalizes every item. Items without a name are dropped; an empty result
// is an error.
func parseIngredients(raw string) ([]domain.Ingredient, error) {
	match := arrayPattern.FindString(stripCodeFence(raw))
	if match == "" {
		return nil, fmt.Errorf("%w: failed to parse ingredients from API response", ErrNoJSON)
	}

	var items []detectedItem
	if err := json.Unmarshal([]byte(match), &items); err != nil {
		return nil, fmt.Errorf("gemini: decode ingredients: %w", err)
	}

	out := make([]domain.Ingredient, 0, len(items))
	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			continue
		}
		out = append(out, domain.Ingredient{
			Name:       name,
			Quantity:   clampQuantity(it.Quantity.round()),
			Expiration: max(it.Expiration.round(), MinExpiration),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("gemini: no ingredients detected")
	}
	return out, nil
}

// parseRecipe pulls the outermost JSON object out of raw. A recipe without
// a title is rejected.
func parseRecipe(raw string) (*domain.Recipe, error) {
	match := objectPattern.FindString(stripCodeFence(raw))
	if match == "" {
		return nil, fmt.Errorf("%w: failed to parse recipe from API response", ErrNoJSON)
	}

	var w recipeWire
	if err := json.Unmarshal([]byte(match), &w); err != nil {
		return nil, fmt.Errorf("gemini: decode recipe: %w", err)
	}
	title := strings.TrimSpace(w.Title)
	if title == "" {
		return nil, fmt.Errorf("gemini: recipe has no title")
	}

	r := &domain.Recipe{
		Title:           title,
		Description:     strings.TrimSpace(w.Description),
		Ingredients:     nonNil(w.Ingredients),
		Instructions:    nonNil(w.Instructions),
		PreparationTime: strings.TrimSpace(string(w.PreparationTime)),
		CookingTime:     strings.TrimSpace(string(w.CookingTime)),
		Servings:        max(w.Servings.round(), 0),
		DifficultyLevel: strings.TrimSpace(w.DifficultyLevel),
	}
	return r, nil
}

func clampQuantity(q int) int {
	return min(max(q, MinQuantity), MaxQuantity)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// stripCodeFence removes ```json ... ``` wrappers that LLMs love to add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
