// Package conversation provides console intent parsing and user notification implementations.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches console input to intents using keywords and simple patterns.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
	// payload, when set, is the capture group carried as the intent payload.
	payload int
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regex: regexp.MustCompile(`(?i)^(quit|exit|q|bye)$`), intent: domain.IntentQuit},
		{regex: regexp.MustCompile(`(?i)^(help|h|\?)$`), intent: domain.IntentHelp},
		{regex: regexp.MustCompile(`(?i)^(list|inventory|stock|ls|pantry)$`), intent: domain.IntentListInventory},
		{regex: regexp.MustCompile(`(?i)^(list|search|find)\s+(.+)$`), intent: domain.IntentListInventory, payload: 2},
		{regex: regexp.MustCompile(`(?i)^(expiring|soon|urgent)$`), intent: domain.IntentExpiring},
		{regex: regexp.MustCompile(`(?i)^(spoilage|report|freshness)$`), intent: domain.IntentSpoilage},
		{regex: regexp.MustCompile(`(?i)^(recipes|cookbook|book)$`), intent: domain.IntentListRecipes},
		{regex: regexp.MustCompile(`(?i)^(generate|cook|suggest|ideas)$`), intent: domain.IntentGenerate},
		{regex: regexp.MustCompile(`(?i)^(generate|cook|suggest)\s+(?:with\s+)?(.+)$`), intent: domain.IntentGenerate, payload: 2},
		{regex: regexp.MustCompile(`(?i)^(?:(?:used|use|consume)\s+|-\s*)(.+)$`), intent: domain.IntentUse, payload: 1},
		{regex: regexp.MustCompile(`(?i)^(?:(?:restock|add one)\s+|\+\s*)(.+)$`), intent: domain.IntentRestock, payload: 1},
		{regex: regexp.MustCompile(`(?i)^(remove|delete|rm|toss)\s+(.+)$`), intent: domain.IntentRemove, payload: 2},
		{regex: regexp.MustCompile(`(?i)^(scan|photo|upload)\s+(.+)$`), intent: domain.IntentScan, payload: 2},
		{regex: regexp.MustCompile(`(?i)^(profile|restaurant|whoami)$`), intent: domain.IntentProfile},
		{regex: regexp.MustCompile(`(?i)^(select|pick|open)\s+#?(\d+)$`), intent: domain.IntentSelectRecipe, payload: 2},
	}
	return p
}

// Parse converts user input into an intent.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	// Bare numbers select a recipe from the last listing.
	if len(trimmed) <= 3 && isDigits(strings.TrimPrefix(trimmed, "#")) {
		return &domain.Intent{Type: domain.IntentSelectRecipe, Payload: strings.TrimPrefix(trimmed, "#")}, nil
	}

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		p.log.Debug("matched intent: %s", rule.intent)
		intent := &domain.Intent{Type: rule.intent}
		if rule.payload > 0 && rule.payload < len(m) {
			intent.Payload = strings.TrimSpace(m[rule.payload])
		}
		return intent, nil
	}

	// Anything that reads like a question goes to the recipe assistant.
	if isQuestion(trimmed) {
		return &domain.Intent{Type: domain.IntentAskQuestion, Payload: trimmed}, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}

// questionPrefixes are common English question starters.
var questionPrefixes = []string{
	"how", "what", "why", "when", "where", "who", "which",
	"can", "could", "should", "would", "will", "do", "does", "is", "are",
	"tell me", "explain",
}

// isQuestion returns true if the input looks like a question.
func isQuestion(s string) bool {
	if strings.HasSuffix(s, "?") {
		return true
	}
	lower := strings.ToLower(s)
	for _, prefix := range questionPrefixes {
		if strings.HasPrefix(lower, prefix+" ") || lower == prefix {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
