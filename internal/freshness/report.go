package freshness

import "github.com/hammamikhairi/ottopantry/internal/domain"

// Entry is one ingredient as shown in the spoilage report.
type Entry struct {
	domain.Ingredient
	Tier     Tier     `json:"tier"`
	Label    string   `json:"label"`
	Progress float64  `json:"progress"`
	Severity Severity `json:"severity"`
}

// Group is one tier's worth of entries.
type Group struct {
	Tier    Tier    `json:"tier"`
	Title   string  `json:"title"`
	Entries []Entry `json:"entries"`
}

// Report buckets the whole inventory by tier. Groups are always present, in
// tier order, and keep the input order within each group.
type Report struct {
	Groups []Group `json:"groups"`
	Total  int     `json:"total"`
}

// Count returns how many items landed in tier.
func (r Report) Count(tier Tier) int {
	for _, g := range r.Groups {
		if g.Tier == tier {
			return len(g.Entries)
		}
	}
	return 0
}

// BuildReport classifies items with th.
func BuildReport(items []domain.Ingredient, th Thresholds) Report {
	tiers := []Tier{TierCritical, TierExpiringSoon, TierFresh, TierLongTerm}
	groups := make([]Group, len(tiers))
	for i, t := range tiers {
		groups[i] = Group{Tier: t, Title: t.Title(), Entries: []Entry{}}
	}

	for _, it := range items {
		tier := th.Classify(it.Expiration)
		groups[tier].Entries = append(groups[tier].Entries, Entry{
			Ingredient: it,
			Tier:       tier,
			Label:      Label(it.Expiration),
			Progress:   Progress(it.Expiration),
			Severity:   ProgressSeverity(it.Expiration),
		})
	}
	return Report{Groups: groups, Total: len(items)}
}
