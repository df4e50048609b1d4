package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

// Compile-time interface check.
var _ domain.Gateway = (*Gateway)(nil)

// Gateway is the pantry-domain front of the Client: it builds prompts,
// sends them, and validates what comes back.
type Gateway struct {
	client *Client
	log    *logger.Logger
}

// NewGateway wraps client.
func NewGateway(client *Client, log *logger.Logger) *Gateway {
	return &Gateway{client: client, log: log}
}

// DetectIngredients asks the model to list the ingredients in img.
func (g *Gateway) DetectIngredients(ctx context.Context, img domain.Image, profile domain.RestaurantProfile) ([]domain.Ingredient, error) {
	mimeType := img.MimeType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	parts := []Part{
		TextPart(detectPrompt(profile)),
		{InlineData: &InlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(img.Data),
		}},
	}

	raw, err := g.client.Generate(ctx, parts, detectConfig)
	if err != nil {
		return nil, err
	}
	items, err := parseIngredients(raw)
	if err != nil {
		g.log.Warn("gemini: unusable detection reply: %v (raw: %s)", err, truncate(raw, 200))
		return nil, err
	}
	g.log.Info("gemini: detected %d ingredient(s)", len(items))
	return items, nil
}

// GenerateRecipe asks for one recipe built from ingredients.
func (g *Gateway) GenerateRecipe(ctx context.Context, ingredients []string, profile domain.RestaurantProfile) (*domain.Recipe, error) {
	if len(ingredients) == 0 {
		return nil, domain.ErrNoIngredients
	}
	raw, err := g.client.Generate(ctx, []Part{TextPart(recipePrompt(ingredients, profile))}, recipeConfig)
	if err != nil {
		return nil, err
	}
	r, err := parseRecipe(raw)
	if err != nil {
		g.log.Warn("gemini: unusable recipe reply: %v (raw: %s)", err, truncate(raw, 200))
		return nil, err
	}
	g.log.Debug("gemini: generated recipe %q", r.Title)
	return r, nil
}

// AskAboutRecipe answers a free-form question about recipe. The reply is
// markdown.
func (g *Gateway) AskAboutRecipe(ctx context.Context, recipe domain.Recipe, profile *domain.RestaurantProfile, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	raw, err := g.client.Generate(ctx, []Part{TextPart(chatPrompt(recipe, profile, question))}, chatConfig)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}
