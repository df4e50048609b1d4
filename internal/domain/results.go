package domain

// Image is an uploaded photo of ingredients.
type Image struct {
	Data     []byte
	MimeType string
	Filename string
}

// DetectResult is the outcome of analysing one photo. On failure Success is
// false, Error carries a user-facing message and Ingredients is empty.
type DetectResult struct {
	Ingredients []Ingredient `json:"ingredients"`
	Success     bool         `json:"success"`
	Error       string       `json:"error,omitempty"`
	PhotoURL    string       `json:"photoUrl,omitempty"`
}

// RecipeResult is the outcome of one recipe generation.
type RecipeResult struct {
	Recipe  Recipe `json:"recipe"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// GenerateResult aggregates a batch of recipe generations. Recipes holds
// only the ones that were saved.
type GenerateResult struct {
	Recipes []Recipe `json:"recipes"`
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
}

// ChatResult is the outcome of one recipe question. Messages is the full
// transcript including the new user and assistant turns.
type ChatResult struct {
	Reply    string        `json:"reply"`
	Messages []ChatMessage `json:"messages"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
}
