package domain

// Recipe is a generated dish. Recipes are append-only: the core never
// edits or deletes one after it is saved.
type Recipe struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Ingredients     []string `json:"ingredients"`
	Instructions    []string `json:"instructions"` // markdown
	PreparationTime string   `json:"preparationTime"`
	CookingTime     string   `json:"cookingTime"`
	Servings        int      `json:"servings"`
	DifficultyLevel string   `json:"difficultyLevel"`
}

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a recipe conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
