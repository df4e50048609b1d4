package domain

import "context"

// Stable store keys.
const (
	KeyIngredients = "ingredients"
	KeyRecipes     = "recipes"
	KeyRestaurant  = "restaurant_info"
)

// KVStore persists whole JSON documents under string keys. Set overwrites.
// Get returns ErrNotFound when the key is absent. Implementations can be
// in-memory, SQLite, Postgres, Redis or anything else with the same shape.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Gateway talks to the multimodal model. All output is untrusted and must be
// validated before it reaches the domain.
type Gateway interface {
	DetectIngredients(ctx context.Context, img Image, profile RestaurantProfile) ([]Ingredient, error)
	GenerateRecipe(ctx context.Context, ingredients []string, profile RestaurantProfile) (*Recipe, error)
	AskAboutRecipe(ctx context.Context, recipe Recipe, profile *RestaurantProfile, question string) (string, error)
}

// PhotoArchive keeps uploaded photos. Returns a URL or key for the stored object.
type PhotoArchive interface {
	Put(ctx context.Context, img Image) (string, error)
}

// IntentParser converts raw console input into structured intents.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}

// Notifier delivers messages to the user. Implementations can write to
// the terminal or to the log.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
