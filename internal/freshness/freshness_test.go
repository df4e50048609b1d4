package freshness

import (
	"testing"

	"github.com/hammamikhairi/ottopantry/internal/domain"
)

func TestClassifyDefaults(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		days int
		want Tier
	}{
		{-4, TierCritical},
		{0, TierCritical},
		{1, TierCritical},
		{2, TierExpiringSoon},
		{7, TierExpiringSoon},
		{8, TierFresh},
		{14, TierFresh},
		{15, TierLongTerm},
		{90, TierLongTerm},
	}
	for _, tt := range tests {
		if got := th.Classify(tt.days); got != tt.want {
			t.Fatalf("Classify(%d) = %s, want %s", tt.days, got, tt.want)
		}
	}
}

func TestThresholdsValidate(t *testing.T) {
	if err := DefaultThresholds().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	bad := Thresholds{CriticalDays: 3, WarningDays: 3, FreshDays: 10}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for non-increasing thresholds")
	}
}

func TestInventoryFilterIsIndependent(t *testing.T) {
	f := DefaultInventoryFilter()
	th := DefaultThresholds()

	// 3 days: "expiring" in the inventory tab, but not critical for spoilage.
	if !f.Matches(TabExpiring, 3) {
		t.Fatal("3 days should be expiring in inventory")
	}
	if th.Classify(3) == TierCritical {
		t.Fatal("3 days should not be critical")
	}
	if f.Matches(TabFresh, 3) || !f.Matches(TabFresh, 4) {
		t.Fatal("fresh tab boundary wrong")
	}
	if !f.Matches(TabAll, -10) {
		t.Fatal("all tab must match everything")
	}
}

func TestParseTab(t *testing.T) {
	if tab, err := ParseTab(""); err != nil || tab != TabAll {
		t.Fatalf("empty tab: %v %v", tab, err)
	}
	if _, err := ParseTab("stale"); err == nil {
		t.Fatal("expected error for unknown tab")
	}
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		days     int
		badge    Severity
		progress Severity
	}{
		{2, SeverityRed, SeverityRed},
		{3, SeverityYellow, SeverityYellow},
		{5, SeverityYellow, SeverityYellow},
		{6, SeverityGreen, SeverityYellow},
		{7, SeverityGreen, SeverityYellow},
		{8, SeverityGreen, SeverityGreen},
	}
	for _, tt := range tests {
		if got := BadgeSeverity(tt.days); got != tt.badge {
			t.Fatalf("BadgeSeverity(%d) = %s, want %s", tt.days, got, tt.badge)
		}
		if got := ProgressSeverity(tt.days); got != tt.progress {
			t.Fatalf("ProgressSeverity(%d) = %s, want %s", tt.days, got, tt.progress)
		}
	}
}

func TestProgress(t *testing.T) {
	if got := Progress(15); got != 50 {
		t.Fatalf("Progress(15) = %v, want 50", got)
	}
	if got := Progress(-2); got != 0 {
		t.Fatalf("Progress(-2) = %v, want 0", got)
	}
	if got := Progress(60); got != 200 {
		t.Fatalf("Progress(60) = %v, want 200 (uncapped)", got)
	}
	if got := ProgressClamped(60); got != 100 {
		t.Fatalf("ProgressClamped(60) = %v, want 100", got)
	}
}

func TestLabel(t *testing.T) {
	tests := map[int]string{
		-1: "Expired!",
		0:  "Expired!",
		1:  "1 day",
		9:  "9 days",
	}
	for days, want := range tests {
		if got := Label(days); got != want {
			t.Fatalf("Label(%d) = %q, want %q", days, got, want)
		}
	}
}

func TestBuildReport(t *testing.T) {
	items := []domain.Ingredient{
		{ID: 1, Name: "milk", Quantity: 1, Expiration: 1},
		{ID: 2, Name: "rice", Quantity: 1, Expiration: 60},
		{ID: 3, Name: "spinach", Quantity: 2, Expiration: 0},
		{ID: 4, Name: "carrot", Quantity: 5, Expiration: 10},
	}
	r := BuildReport(items, DefaultThresholds())

	if r.Total != 4 || len(r.Groups) != 4 {
		t.Fatalf("unexpected report shape: %+v", r)
	}
	crit := r.Groups[TierCritical].Entries
	if len(crit) != 2 || crit[0].Name != "milk" || crit[1].Name != "spinach" {
		t.Fatalf("critical group wrong: %+v", crit)
	}
	if crit[1].Label != "Expired!" {
		t.Fatalf("expected Expired! label, got %q", crit[1].Label)
	}
	if r.Count(TierExpiringSoon) != 0 || r.Count(TierFresh) != 1 || r.Count(TierLongTerm) != 1 {
		t.Fatalf("unexpected counts: %+v", r)
	}
}
