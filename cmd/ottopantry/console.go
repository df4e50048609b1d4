package main

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hammamikhairi/ottopantry/internal/display"
	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/engine"
	"github.com/hammamikhairi/ottopantry/internal/freshness"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

type cliApp struct {
	engine   *engine.Engine
	parser   domain.IntentParser
	notifier domain.Notifier
	log      *logger.Logger
	ui       *display.UI

	selected *domain.Recipe       // recipe the chat is about
	history  []domain.ChatMessage // transcript for selected
}

func (a *cliApp) run(ctx context.Context) {
	if p, ok := a.engine.Profile(ctx); ok {
		a.ui.PrintChat(fmt.Sprintf("Welcome back, %s.", p.Name))
	} else {
		a.ui.PrintChat("Welcome! No restaurant profile yet: run `ottopantry setup` to configure one.")
	}
	a.showSpoilageSummary(ctx)

	uiCh := a.ui.InputChan()
	for {
		var input string
		select {
		case <-ctx.Done():
			return
		case v, ok := <-uiCh:
			if !ok {
				return
			}
			input = v
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		intent, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}
		a.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)

		if intent.Type == domain.IntentQuit {
			a.ui.PrintChat("Goodbye.")
			return
		}
		a.handleIntent(ctx, intent)
	}
}

func (a *cliApp) handleIntent(ctx context.Context, intent *domain.Intent) {
	switch intent.Type {
	case domain.IntentHelp:
		a.showHelp()
	case domain.IntentListInventory:
		a.showInventory(ctx, freshness.TabAll, intent.Payload)
	case domain.IntentExpiring:
		a.showInventory(ctx, freshness.TabExpiring, "")
	case domain.IntentSpoilage:
		a.ui.PrintBlock(display.RenderReport(a.engine.SpoilageReport(ctx)))
	case domain.IntentListRecipes:
		a.ui.PrintHeading("Recipes")
		a.ui.PrintBlock(display.RenderRecipeList(a.engine.Recipes().List(ctx)))
	case domain.IntentSelectRecipe:
		a.selectRecipe(ctx, intent.Payload)
	case domain.IntentGenerate:
		a.generate(ctx, intent.Payload)
	case domain.IntentAskQuestion:
		a.askQuestion(ctx, intent.Payload)
	case domain.IntentUse:
		a.adjust(ctx, intent.Payload, a.engine.Inventory().Decrement, "Used one", true)
	case domain.IntentRestock:
		a.adjust(ctx, intent.Payload, a.engine.Inventory().Increment, "Restocked one", false)
	case domain.IntentRemove:
		a.adjust(ctx, intent.Payload, a.engine.Inventory().Remove, "Removed", false)
	case domain.IntentScan:
		a.scan(ctx, intent.Payload)
	case domain.IntentProfile:
		a.showProfile(ctx)
	default:
		a.ui.PrintHint(fmt.Sprintf("I didn't catch %q. Type 'help' for commands.", intent.Payload))
	}
}

func (a *cliApp) showHelp() {
	a.ui.PrintHeading("Commands")
	a.ui.PrintBlock(strings.Join([]string{
		"  list [query]        show the inventory",
		"  expiring            items expiring within a few days",
		"  spoilage            full spoilage report",
		"  use <name>          use one unit (removes the last one)",
		"  restock <name>      add one unit",
		"  remove <name>       delete an item",
		"  scan <path>         detect ingredients in a photo and add them",
		"  recipes             saved recipes",
		"  select <id>         open a recipe and chat about it",
		"  generate [a, b]     new recipes from the given (or all) ingredients",
		"  <question>?         ask about the open recipe",
		"  profile             show the restaurant profile",
		"  quit",
	}, "\n"))
}

func (a *cliApp) showInventory(ctx context.Context, tab freshness.Tab, query string) {
	items := a.engine.Inventory().Filter(ctx, tab, query)
	a.ui.PrintHeading(fmt.Sprintf("Inventory (%s, %d items)", tab, len(items)))
	a.ui.PrintBlock(display.RenderInventory(items))
}

func (a *cliApp) showSpoilageSummary(ctx context.Context) {
	r := a.engine.SpoilageReport(ctx)
	if r.Total == 0 {
		a.ui.PrintHint("The pantry is empty. Try 'scan <photo>'.")
		return
	}
	a.ui.PrintHint(fmt.Sprintf("%d items: %d critical, %d expiring this week.",
		r.Total, r.Count(freshness.TierCritical), r.Count(freshness.TierExpiringSoon)))
}

func (a *cliApp) showProfile(ctx context.Context) {
	p, ok := a.engine.Profile(ctx)
	if !ok {
		a.ui.PrintHint("No profile configured. Run `ottopantry setup --name ...`.")
		return
	}
	a.ui.PrintHeading(p.Name)
	a.ui.PrintBlock(fmt.Sprintf("  %s\n  Cuisine: %s\n  Specialties: %s",
		p.Description, p.Cuisine, strings.Join(p.Specialties, ", ")))
}

func (a *cliApp) adjust(ctx context.Context, name string, fn func(context.Context, int) ([]domain.Ingredient, error), verb string, warnEmpty bool) {
	it, err := a.engine.Inventory().Find(ctx, name)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("No %q in the pantry.", name))
		return
	}
	items, err := fn(ctx, it.ID)
	if err != nil {
		a.log.Error("adjusting %s: %v", it.Name, err)
		a.ui.PrintUrgent(fmt.Sprintf("Could not update %s: %v", it.Name, err))
		return
	}
	a.ui.PrintChat(fmt.Sprintf("%s %s.", verb, it.Name))

	if !warnEmpty {
		return
	}
	for _, left := range items {
		if left.ID == it.ID {
			return
		}
	}
	if err := a.notifier.Notify(ctx, fmt.Sprintf("%s is used up. Add it to the shopping list.", it.Name)); err != nil {
		a.log.Error("console: notify: %v", err)
	}
}

func (a *cliApp) scan(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Cannot read %s: %v", path, err))
		return
	}
	a.ui.PrintHint("Looking at the photo...")

	img := domain.Image{
		Data:     data,
		MimeType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Filename: filepath.Base(path),
	}
	res, merged, err := a.engine.ScanImage(ctx, img)
	switch {
	case errors.Is(err, domain.ErrUnconfigured):
		a.ui.PrintUrgent("Set up the restaurant profile first (`ottopantry setup`).")
		return
	case err != nil:
		a.ui.PrintUrgent(err.Error())
		return
	case !res.Success:
		a.ui.PrintUrgent("Detection failed: " + res.Error)
		return
	}

	names := domain.IngredientNames(res.Ingredients)
	a.ui.PrintChat(fmt.Sprintf("Found %d ingredients: %s.", len(names), strings.Join(names, ", ")))
	if res.PhotoURL != "" {
		a.ui.PrintHint("Photo archived at " + res.PhotoURL)
	}
	a.ui.PrintBlock(display.RenderInventory(merged))
}

func (a *cliApp) selectRecipe(ctx context.Context, payload string) {
	id, err := strconv.Atoi(payload)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("%q is not a recipe number.", payload))
		return
	}
	r, err := a.engine.Recipes().Get(ctx, id)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("No recipe #%d.", id))
		return
	}
	a.selected = r
	greeting := engine.Greeting(*r)
	a.history = []domain.ChatMessage{greeting}

	a.ui.PrintBlock(display.RenderRecipe(*r))
	a.ui.Println("")
	a.ui.PrintChat(greeting.Content)
}

func (a *cliApp) generate(ctx context.Context, payload string) {
	var names []string
	if payload != "" {
		names = engine.SplitList(payload)
	} else {
		names = a.engine.Inventory().Names(ctx)
	}
	if len(names) == 0 {
		a.ui.PrintUrgent("No ingredients to cook with. Scan a photo or name some.")
		return
	}

	a.ui.PrintHint(fmt.Sprintf("Thinking up recipes with %s...", strings.Join(names, ", ")))
	res, err := a.engine.GenerateRecipes(ctx, names, 0)
	if err != nil {
		a.ui.PrintUrgent(err.Error())
		return
	}
	if !res.Success {
		a.ui.PrintUrgent("Generation failed: " + res.Error)
		return
	}
	a.ui.PrintHeading(fmt.Sprintf("%d new recipes", len(res.Recipes)))
	a.ui.PrintBlock(display.RenderRecipeList(res.Recipes))
	a.ui.PrintHint("Type 'select <id>' to open one.")
}

func (a *cliApp) askQuestion(ctx context.Context, question string) {
	if a.selected == nil {
		a.ui.PrintHint("Open a recipe first with 'select <id>'.")
		return
	}
	a.ui.PrintHint("Thinking...")
	res, err := a.engine.Chat(ctx, a.selected.ID, a.history, question)
	if err != nil {
		a.ui.PrintUrgent(err.Error())
		return
	}
	a.history = res.Messages
	if !res.Success {
		a.ui.PrintUrgent(res.Reply)
		return
	}
	a.ui.PrintChat(res.Reply)
}
