// Package engine is the application service the HTTP API and the console
// call into. It owns no state of its own: the profile, inventory and
// recipes live in the store, and the model is reached through a
// domain.Gateway.
package engine

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/freshness"
	"github.com/hammamikhairi/ottopantry/internal/inventory"
	"github.com/hammamikhairi/ottopantry/internal/logger"
	"github.com/hammamikhairi/ottopantry/internal/recipe"
)

// DefaultMaxImageBytes is the upload limit (5 MB).
const DefaultMaxImageBytes = 5 << 20

// DefaultRecipesPerRequest is how many recipes one generate call asks for.
const DefaultRecipesPerRequest = 2

// ProfileStore is the slice of storage.Pantry the engine needs.
type ProfileStore interface {
	Profile(ctx context.Context) (*domain.RestaurantProfile, bool)
	SaveProfile(ctx context.Context, p domain.RestaurantProfile) error
}

// Option configures the engine.
type Option func(*Engine)

// WithThresholds overrides the spoilage tier bounds.
func WithThresholds(th freshness.Thresholds) Option {
	return func(e *Engine) { e.thresholds = th }
}

// WithMaxImageBytes overrides the upload limit.
func WithMaxImageBytes(n int64) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxImageBytes = n
		}
	}
}

// WithRecipesPerRequest sets the default generation fan-out.
func WithRecipesPerRequest(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.recipesPerRequest = n
		}
	}
}

// WithArchive keeps a copy of every scanned photo.
func WithArchive(a domain.PhotoArchive) Option {
	return func(e *Engine) { e.archive = a }
}

// Engine wires the pantry services to the model gateway.
type Engine struct {
	profiles  ProfileStore
	inventory *inventory.Service
	recipes   *recipe.Book
	gateway   domain.Gateway
	archive   domain.PhotoArchive
	log       *logger.Logger

	thresholds        freshness.Thresholds
	maxImageBytes     int64
	recipesPerRequest int
}

// New creates an engine with the given dependencies and options.
func New(profiles ProfileStore, inv *inventory.Service, recipes *recipe.Book, gw domain.Gateway, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		profiles:          profiles,
		inventory:         inv,
		recipes:           recipes,
		gateway:           gw,
		log:               log,
		thresholds:        freshness.DefaultThresholds(),
		maxImageBytes:     DefaultMaxImageBytes,
		recipesPerRequest: DefaultRecipesPerRequest,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Inventory exposes the inventory service.
func (e *Engine) Inventory() *inventory.Service { return e.inventory }

// Recipes exposes the recipe book.
func (e *Engine) Recipes() *recipe.Book { return e.recipes }

// MaxImageBytes is the upload limit enforced by ValidateImage.
func (e *Engine) MaxImageBytes() int64 { return e.maxImageBytes }

// Thresholds returns the configured spoilage bounds.
func (e *Engine) Thresholds() freshness.Thresholds { return e.thresholds }

// ClassifyExpiration maps days to a spoilage tier.
func (e *Engine) ClassifyExpiration(days int) freshness.Tier {
	return e.thresholds.Classify(days)
}

// SpoilageReport groups the current inventory by tier.
func (e *Engine) SpoilageReport(ctx context.Context) freshness.Report {
	return freshness.BuildReport(e.inventory.List(ctx), e.thresholds)
}

// MergeIngredients reconciles items into the stored inventory.
func (e *Engine) MergeIngredients(ctx context.Context, items []domain.Ingredient) ([]domain.Ingredient, error) {
	return e.inventory.Merge(ctx, items)
}

// ValidateImage checks size and type before anything is sent to the model.
// It returns the image with a sniffed MIME type when one can be detected.
func (e *Engine) ValidateImage(img domain.Image) (domain.Image, error) {
	if len(img.Data) == 0 {
		return img, fmt.Errorf("%w: image is empty", domain.ErrInvalidInput)
	}
	if int64(len(img.Data)) > e.maxImageBytes {
		return img, fmt.Errorf("%w: %w (%d > %d bytes)", domain.ErrInvalidInput, domain.ErrTooLarge, len(img.Data), e.maxImageBytes)
	}

	sniffed := http.DetectContentType(img.Data)
	switch {
	case strings.HasPrefix(sniffed, "image/"):
		img.MimeType = sniffed
	case strings.HasPrefix(img.MimeType, "image/"):
		// Formats the sniffer does not know (heic, avif) keep the declared type.
	default:
		return img, fmt.Errorf("%w: %w (%s)", domain.ErrInvalidInput, domain.ErrUnsupported, sniffed)
	}
	return img, nil
}

// DetectIngredients validates img and asks the model what is in it. The
// error return is only used for bad input or a missing profile; model
// failures come back as a result with Success=false.
func (e *Engine) DetectIngredients(ctx context.Context, img domain.Image) (domain.DetectResult, error) {
	res, _, err := e.detect(ctx, img)
	return res, err
}

func (e *Engine) detect(ctx context.Context, img domain.Image) (domain.DetectResult, domain.Image, error) {
	img, err := e.ValidateImage(img)
	if err != nil {
		return domain.DetectResult{Ingredients: []domain.Ingredient{}}, img, err
	}
	profile, ok := e.profiles.Profile(ctx)
	if !ok {
		return domain.DetectResult{Ingredients: []domain.Ingredient{}}, img, domain.ErrUnconfigured
	}

	items, err := e.gateway.DetectIngredients(ctx, img, *profile)
	if err != nil {
		e.log.Error("engine: detection failed: %v", err)
		return domain.DetectResult{
			Ingredients: []domain.Ingredient{},
			Success:     false,
			Error:       err.Error(),
		}, img, nil
	}
	return domain.DetectResult{Ingredients: items, Success: true}, img, nil
}

// ScanImage detects ingredients in img and merges them into the inventory.
// It returns the detection result and the inventory after the merge (the
// unchanged inventory when detection failed). The photo is archived only
// once the merge has been saved; an archive failure is logged and leaves
// PhotoURL empty.
func (e *Engine) ScanImage(ctx context.Context, img domain.Image) (domain.DetectResult, []domain.Ingredient, error) {
	res, img, err := e.detect(ctx, img)
	if err != nil {
		return res, nil, err
	}
	if !res.Success {
		return res, e.inventory.List(ctx), nil
	}
	merged, err := e.inventory.Merge(ctx, res.Ingredients)
	if err != nil {
		return res, nil, fmt.Errorf("saving inventory: %w", err)
	}

	if e.archive != nil {
		if url, err := e.archive.Put(ctx, img); err != nil {
			e.log.Warn("engine: archiving photo failed: %v", err)
		} else {
			res.PhotoURL = url
		}
	}
	return res, merged, nil
}
