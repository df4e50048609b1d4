package gemini

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/ottopantry/internal/domain"
)

// Sampling settings per call. Detection runs nearly deterministic; recipes
// and chat run warmer.
var (
	detectConfig = GenerationConfig{Temperature: 0.05, TopK: 16, TopP: 0.9, MaxOutputTokens: 2048}
	recipeConfig = GenerationConfig{Temperature: 0.7, TopK: 40, TopP: 0.95, MaxOutputTokens: 4096}
	chatConfig   = GenerationConfig{Temperature: 0.7, TopK: 32, TopP: 0.95, MaxOutputTokens: 2048}
)

func detectPrompt(p domain.RestaurantProfile) string {
	var b strings.Builder
	b.WriteString("Analyze the image and identify all visible food ingredients.\n")
	b.WriteString("- Detect name and quantity accurately.\n")
	b.WriteString("- Estimate expiration in days based on appearance and perishability.\n")
	b.WriteString(`- Return in JSON: [{"name":"tomato","quantity":4,"expiration":5}, {"name":"potato","quantity":2,"expiration":10}].` + "\n")
	b.WriteString("- Default expiration: Fresh vegetables (5-7 days), dairy (3-5 days), dry goods (30+ days).\n")
	fmt.Fprintf(&b, "- Focus on ingredients that would be used in %s cuisine, especially for %s which specializes in %s.",
		cuisineOf(p), p.Name, specialtiesOf(p))
	return b.String()
}

func recipePrompt(ingredients []string, p domain.RestaurantProfile) string {
	cuisine := cuisineOf(p)

	var b strings.Builder
	fmt.Fprintf(&b, "Generate an authentic %s recipe using some or all of these ingredients: %s.\n\n",
		cuisine, strings.Join(ingredients, ", "))
	fmt.Fprintf(&b, "Context: You are the chef at %q which specializes in %s.\n", p.Name, specialtiesOf(p))
	fmt.Fprintf(&b, "The restaurant is known for %s.\n\n", p.Description)
	b.WriteString(`Return JSON format:
{
  "title": "Recipe Name",
  "description": "Brief description of the dish",
  "ingredients": ["Formatted ingredient 1", "Formatted ingredient 2", ...],
  "instructions": ["Step 1", "Step 2 with **bold text** for emphasis", ...],
  "preparationTime": "X minutes",
  "cookingTime": "X minutes",
  "servings": number,
  "difficultyLevel": "Easy/Medium/Hard"
}

`)
	fmt.Fprintf(&b, "Ensure the recipe is an **authentic %s dish** that aligns with %s's specialties. ", cuisine, p.Name)
	b.WriteString("Instructions should be clear and formatted in Markdown with bold highlights where necessary.")
	return b.String()
}

// chatPrompt carries the whole recipe on every turn. Earlier turns are not
// replayed, so each question is answered from the recipe alone.
func chatPrompt(r domain.Recipe, p *domain.RestaurantProfile, question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a helpful cooking assistant providing information about %q.\n\n", r.Title)

	b.WriteString("Recipe details:\n")
	fmt.Fprintf(&b, "Recipe: %s\n", r.Title)
	fmt.Fprintf(&b, "Description: %s\n", r.Description)
	fmt.Fprintf(&b, "Ingredients: %s\n", strings.Join(r.Ingredients, ", "))
	fmt.Fprintf(&b, "Preparation Time: %s\n", r.PreparationTime)
	fmt.Fprintf(&b, "Cooking Time: %s\n", r.CookingTime)
	fmt.Fprintf(&b, "Difficulty: %s\n\n", r.DifficultyLevel)

	b.WriteString("Restaurant context:\n")
	if p != nil {
		fmt.Fprintf(&b, "Restaurant: %s, Cuisine: %s, Specialties: %s\n\n", p.Name, p.Cuisine, strings.Join(p.Specialties, ", "))
	} else {
		b.WriteString("No restaurant information available\n\n")
	}

	b.WriteString("Instructions:\n")
	b.WriteString(strings.Join(r.Instructions, "\n"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "User question: %s\n\n", question)
	b.WriteString("Provide a helpful, concise response about this recipe. ")
	b.WriteString("If asked about substitutions, cooking tips, or variations, provide practical advice.")
	return b.String()
}

// cuisineOf falls back to a neutral phrase when setup left cuisine blank.
func cuisineOf(p domain.RestaurantProfile) string {
	c := strings.TrimSpace(p.Cuisine)
	if c == "" || strings.EqualFold(c, "Not specified") {
		return "restaurant-style"
	}
	return c
}

func specialtiesOf(p domain.RestaurantProfile) string {
	if len(p.Specialties) == 0 {
		return "its signature dishes"
	}
	return strings.Join(p.Specialties, ", ")
}
