// Package freshness classifies ingredients by days until expiration.
//
// Two independent rule sets live here. Thresholds drives the spoilage
// report tiers; InventoryFilter drives the inventory "expiring"/"fresh"
// tabs. They use different cut-offs and are never unified.
package freshness

import (
	"fmt"

	"github.com/hammamikhairi/ottopantry/internal/domain"
)

// Tier is a spoilage urgency bucket.
type Tier int

const (
	TierCritical Tier = iota
	TierExpiringSoon
	TierFresh
	TierLongTerm
)

// String returns the tier's display name.
func (t Tier) String() string {
	switch t {
	case TierCritical:
		return "critical"
	case TierExpiringSoon:
		return "expiring_soon"
	case TierFresh:
		return "fresh"
	default:
		return "long_term"
	}
}

// Title is the heading used in reports.
func (t Tier) Title() string {
	switch t {
	case TierCritical:
		return "Critical (use immediately)"
	case TierExpiringSoon:
		return "Expiring this week"
	case TierFresh:
		return "Fresh (1-2 weeks)"
	default:
		return "Long term"
	}
}

// MarshalText lets tiers appear as names in JSON.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Thresholds are the inclusive upper bounds (in days) of the first three tiers.
type Thresholds struct {
	CriticalDays int `yaml:"critical_days" json:"criticalDays"`
	WarningDays  int `yaml:"warning_days" json:"warningDays"`
	FreshDays    int `yaml:"fresh_days" json:"freshDays"`
}

// DefaultThresholds: <=1 critical, <=7 this week, <=14 fresh.
func DefaultThresholds() Thresholds {
	return Thresholds{CriticalDays: 1, WarningDays: 7, FreshDays: 14}
}

// Validate checks the bounds are strictly increasing.
func (th Thresholds) Validate() error {
	if th.CriticalDays >= th.WarningDays || th.WarningDays >= th.FreshDays {
		return fmt.Errorf("freshness: thresholds must increase (critical=%d warning=%d fresh=%d)",
			th.CriticalDays, th.WarningDays, th.FreshDays)
	}
	return nil
}

// Classify maps days-until-expiration to a tier.
func (th Thresholds) Classify(days int) Tier {
	switch {
	case days <= th.CriticalDays:
		return TierCritical
	case days <= th.WarningDays:
		return TierExpiringSoon
	case days <= th.FreshDays:
		return TierFresh
	default:
		return TierLongTerm
	}
}

// Tab is an inventory list filter.
type Tab string

const (
	TabAll      Tab = "all"
	TabExpiring Tab = "expiring"
	TabFresh    Tab = "fresh"
)

// ParseTab accepts "", "all", "expiring" and "fresh".
func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case "", TabAll:
		return TabAll, nil
	case TabExpiring, TabFresh:
		return Tab(s), nil
	}
	return TabAll, fmt.Errorf("%w: unknown tab %q", domain.ErrInvalidInput, s)
}

// InventoryFilter decides which tab an item belongs to.
type InventoryFilter struct {
	ExpiringDays int `yaml:"expiring_days" json:"expiringDays"`
}

// DefaultInventoryFilter: <=3 days is "expiring".
func DefaultInventoryFilter() InventoryFilter {
	return InventoryFilter{ExpiringDays: 3}
}

// Matches reports whether an item with the given expiration shows under tab.
func (f InventoryFilter) Matches(tab Tab, days int) bool {
	switch tab {
	case TabExpiring:
		return days <= f.ExpiringDays
	case TabFresh:
		return days > f.ExpiringDays
	default:
		return true
	}
}

// Severity is a display colour level.
type Severity string

const (
	SeverityRed    Severity = "red"
	SeverityYellow Severity = "yellow"
	SeverityGreen  Severity = "green"
)

// BadgeSeverity colours the expiration badge in the inventory list.
func BadgeSeverity(days int) Severity {
	switch {
	case days <= 2:
		return SeverityRed
	case days <= 5:
		return SeverityYellow
	default:
		return SeverityGreen
	}
}

// ProgressSeverity colours the freshness bar in the spoilage report.
func ProgressSeverity(days int) Severity {
	switch {
	case days <= 2:
		return SeverityRed
	case days <= 7:
		return SeverityYellow
	default:
		return SeverityGreen
	}
}

// ProgressHorizon is the number of days that maps to a full bar.
const ProgressHorizon = 30

// Progress is days/30*100, floored at zero. It is not capped, so items with
// more than a month left exceed 100.
func Progress(days int) float64 {
	p := float64(days) / ProgressHorizon * 100
	if p < 0 {
		return 0
	}
	return p
}

// ProgressClamped is Progress limited to [0, 100] for drawing bars.
func ProgressClamped(days int) float64 {
	p := Progress(days)
	if p > 100 {
		return 100
	}
	return p
}

// Label renders an expiration as "Expired!", "1 day" or "N days".
func Label(days int) string {
	switch {
	case days <= 0:
		return "Expired!"
	case days == 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}
