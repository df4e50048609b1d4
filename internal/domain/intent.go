package domain

// IntentType classifies what the console user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentListInventory
	IntentExpiring
	IntentSpoilage
	IntentListRecipes
	IntentSelectRecipe
	IntentGenerate
	IntentAskQuestion
	IntentUse     // decrement one unit
	IntentRestock // increment one unit
	IntentRemove
	IntentScan // analyse a photo from disk
	IntentProfile
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentListInventory:
		return "list_inventory"
	case IntentExpiring:
		return "expiring"
	case IntentSpoilage:
		return "spoilage"
	case IntentListRecipes:
		return "list_recipes"
	case IntentSelectRecipe:
		return "select_recipe"
	case IntentGenerate:
		return "generate"
	case IntentAskQuestion:
		return "ask_question"
	case IntentUse:
		return "use"
	case IntentRestock:
		return "restock"
	case IntentRemove:
		return "remove"
	case IntentScan:
		return "scan"
	case IntentProfile:
		return "profile"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Payload string // e.g. ingredient name, recipe number, question
}
