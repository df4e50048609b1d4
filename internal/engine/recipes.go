package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/ottopantry/internal/domain"
)

var errUntitledRecipe = errors.New("model returned a recipe without a title")

// ChatApology replaces the assistant turn when the model call fails.
const ChatApology = "I'm sorry, I couldn't process your question. Please try again."

// Greeting is the first assistant turn of a recipe conversation.
func Greeting(r domain.Recipe) domain.ChatMessage {
	return domain.ChatMessage{
		Role:    domain.RoleAssistant,
		Content: fmt.Sprintf("Hello! I'm your recipe assistant for %q. Feel free to ask me any questions about ingredients, preparation steps, or cooking tips!", r.Title),
	}
}

// generationProfile is the stored profile, or the sample one when setup
// was never done.
func (e *Engine) generationProfile(ctx context.Context) domain.RestaurantProfile {
	if p, ok := e.profiles.Profile(ctx); ok {
		return *p
	}
	e.log.Debug("engine: no profile configured, using sample profile for generation")
	return domain.SampleProfile()
}

// GenerateRecipe runs a single generation without saving it.
func (e *Engine) GenerateRecipe(ctx context.Context, names []string) (domain.RecipeResult, error) {
	names = cleanNames(names)
	if len(names) == 0 {
		return domain.RecipeResult{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, domain.ErrNoIngredients)
	}
	r, err := e.gateway.GenerateRecipe(ctx, names, e.generationProfile(ctx))
	if err != nil {
		return domain.RecipeResult{Success: false, Error: err.Error()}, nil
	}
	return domain.RecipeResult{Recipe: *r, Success: true}, nil
}

// GenerateRecipes runs count independent generations concurrently and
// saves every one that produced a titled recipe, in completion order. When
// none succeed nothing is saved and the result carries the first error.
// count <= 0 uses the configured default.
func (e *Engine) GenerateRecipes(ctx context.Context, names []string, count int) (domain.GenerateResult, error) {
	names = cleanNames(names)
	if len(names) == 0 {
		return domain.GenerateResult{Recipes: []domain.Recipe{}}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, domain.ErrNoIngredients)
	}
	if count <= 0 {
		count = e.recipesPerRequest
	}
	profile := e.generationProfile(ctx)

	// A plain Group, not WithContext: one failed generation must not cancel
	// the others. Wait reports the first failure.
	var (
		mu   sync.Mutex
		done []domain.Recipe
		g    errgroup.Group
	)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			r, err := e.gateway.GenerateRecipe(ctx, names, profile)
			if err != nil {
				e.log.Warn("engine: recipe generation %d failed: %v", i+1, err)
				return err
			}
			if strings.TrimSpace(r.Title) == "" {
				return fmt.Errorf("generation %d: %w", i+1, errUntitledRecipe)
			}
			mu.Lock()
			done = append(done, *r)
			mu.Unlock()
			return nil
		})
	}
	firstErr := g.Wait()

	if len(done) == 0 {
		msg := "no recipes could be generated"
		if firstErr != nil {
			msg = firstErr.Error()
		}
		return domain.GenerateResult{Recipes: []domain.Recipe{}, Success: false, Error: msg}, nil
	}
	if firstErr != nil {
		e.log.Debug("engine: keeping %d/%d recipe(s) despite: %v", len(done), count, firstErr)
	}

	saved, err := e.recipes.Add(ctx, done...)
	if err != nil {
		return domain.GenerateResult{Recipes: []domain.Recipe{}, Success: false, Error: err.Error()}, fmt.Errorf("saving recipes: %w", err)
	}
	e.log.Info("engine: generated %d/%d recipe(s) from %d ingredient(s)", len(saved), count, len(names))
	return domain.GenerateResult{Recipes: saved, Success: true}, nil
}

// Chat answers question about the recipe with id recipeID. history is the
// transcript so far; the returned Messages append the user turn and the
// assistant reply (or the apology when the model fails).
func (e *Engine) Chat(ctx context.Context, recipeID int, history []domain.ChatMessage, question string) (domain.ChatResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.ChatResult{}, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	r, err := e.recipes.Get(ctx, recipeID)
	if err != nil {
		return domain.ChatResult{}, err
	}
	profile, _ := e.profiles.Profile(ctx)

	msgs := make([]domain.ChatMessage, 0, len(history)+2)
	msgs = append(msgs, history...)
	msgs = append(msgs, domain.ChatMessage{Role: domain.RoleUser, Content: question})

	reply, err := e.gateway.AskAboutRecipe(ctx, *r, profile, question)
	if err != nil {
		e.log.Error("engine: recipe chat failed: %v", err)
		msgs = append(msgs, domain.ChatMessage{Role: domain.RoleAssistant, Content: ChatApology})
		return domain.ChatResult{Reply: ChatApology, Messages: msgs, Success: false, Error: err.Error()}, nil
	}
	msgs = append(msgs, domain.ChatMessage{Role: domain.RoleAssistant, Content: reply})
	return domain.ChatResult{Reply: reply, Messages: msgs, Success: true}, nil
}

func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
