package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/freshness"
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#e4e4e7"))

	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#fca5a5"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fde68a"))
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#bbf7d0"))

	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3f3f46"))
)

const barWidth = 20

func severityStyle(s freshness.Severity) lipgloss.Style {
	switch s {
	case freshness.SeverityRed:
		return redStyle
	case freshness.SeverityYellow:
		return yellowStyle
	default:
		return greenStyle
	}
}

// RenderInventory formats items as a numbered list with coloured
// expiration badges.
func RenderInventory(items []domain.Ingredient) string {
	if len(items) == 0 {
		return secondaryStyle.Render("  (no ingredients)")
	}

	nameW := 0
	for _, it := range items {
		nameW = max(nameW, len(it.Name))
	}

	var b strings.Builder
	for i, it := range items {
		badge := severityStyle(freshness.BadgeSeverity(it.Expiration)).Render(freshness.Label(it.Expiration))
		fmt.Fprintf(&b, "  %s %-*s  x%-3d %s",
			secondaryStyle.Render(fmt.Sprintf("#%d", it.ID)), nameW, it.Name, it.Quantity, badge)
		if i < len(items)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// RenderReport formats the spoilage report with one progress bar per item.
func RenderReport(r freshness.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headingStyle.Render(fmt.Sprintf("Spoilage report (%d items)", r.Total)))
	for _, g := range r.Groups {
		fmt.Fprintf(&b, "\n  %s %s\n", headingStyle.Render(g.Title), secondaryStyle.Render(fmt.Sprintf("(%d)", len(g.Entries))))
		if len(g.Entries) == 0 {
			b.WriteString(secondaryStyle.Render("    none") + "\n")
			continue
		}
		for _, e := range g.Entries {
			style := severityStyle(e.Severity)
			fmt.Fprintf(&b, "    %s %-18s x%-3d %s\n",
				progressBar(freshness.ProgressClamped(e.Expiration), style),
				e.Name, e.Quantity, style.Render(e.Label))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderRecipe formats a recipe for the console.
func RenderRecipe(r domain.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headingStyle.Render(fmt.Sprintf("#%d %s", r.ID, r.Title)))
	if r.Description != "" {
		fmt.Fprintf(&b, "%s\n", primaryStyle.Render(r.Description))
	}
	fmt.Fprintf(&b, "%s\n", secondaryStyle.Render(fmt.Sprintf("prep %s | cook %s | serves %d | %s",
		orDash(r.PreparationTime), orDash(r.CookingTime), r.Servings, orDash(r.DifficultyLevel))))

	b.WriteString("\n" + stepStyle.Render("Ingredients") + "\n")
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&b, "  - %s\n", ing)
	}
	b.WriteString("\n" + stepStyle.Render("Instructions") + "\n")
	for i, step := range r.Instructions {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderRecipeList formats recipes as a numbered summary.
func RenderRecipeList(recipes []domain.Recipe) string {
	if len(recipes) == 0 {
		return secondaryStyle.Render("  (no recipes yet, try \"generate\")")
	}
	lines := make([]string, 0, len(recipes))
	for _, r := range recipes {
		lines = append(lines, fmt.Sprintf("  %s %s %s",
			secondaryStyle.Render(fmt.Sprintf("#%d", r.ID)),
			primaryStyle.Render(r.Title),
			secondaryStyle.Render(orDash(r.DifficultyLevel))))
	}
	return strings.Join(lines, "\n")
}

func progressBar(pct float64, style lipgloss.Style) string {
	filled := int(pct / 100 * barWidth)
	filled = min(max(filled, 0), barWidth)
	return style.Render(strings.Repeat("█", filled)) + barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
