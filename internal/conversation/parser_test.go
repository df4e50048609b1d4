package conversation

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

func TestKeywordParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)
	ctx := context.Background()

	tests := []struct {
		input       string
		wantType    domain.IntentType
		wantPayload string
	}{
		// Inventory
		{"list", domain.IntentListInventory, ""},
		{"Inventory", domain.IntentListInventory, ""},
		{"search onion", domain.IntentListInventory, "onion"},
		{"expiring", domain.IntentExpiring, ""},
		{"spoilage", domain.IntentSpoilage, ""},

		// Adjustments
		{"use tomato", domain.IntentUse, "tomato"},
		{"-tomato", domain.IntentUse, "tomato"},
		{"restock red onion", domain.IntentRestock, "red onion"},
		{"+ garlic", domain.IntentRestock, "garlic"},
		{"remove milk", domain.IntentRemove, "milk"},
		{"scan ./fridge.jpg", domain.IntentScan, "./fridge.jpg"},

		// Recipes
		{"recipes", domain.IntentListRecipes, ""},
		{"generate", domain.IntentGenerate, ""},
		{"cook with rice, lentils", domain.IntentGenerate, "rice, lentils"},
		{"2", domain.IntentSelectRecipe, "2"},
		{"#3", domain.IntentSelectRecipe, "3"},
		{"select 12", domain.IntentSelectRecipe, "12"},

		// Questions
		{"how long do I soak the rice?", domain.IntentAskQuestion, "how long do I soak the rice?"},
		{"can I use ghee instead", domain.IntentAskQuestion, "can I use ghee instead"},

		// Meta
		{"profile", domain.IntentProfile, ""},
		{"help", domain.IntentHelp, ""},
		{"?", domain.IntentHelp, ""},
		{"quit", domain.IntentQuit, ""},

		// Unknown
		{"", domain.IntentUnknown, ""},
		{"banana", domain.IntentUnknown, "banana"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, err := parser.Parse(ctx, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if intent.Type != tt.wantType {
				t.Fatalf("input %q: expected %s, got %s", tt.input, tt.wantType, intent.Type)
			}
			if intent.Payload != tt.wantPayload {
				t.Fatalf("input %q: expected payload %q, got %q", tt.input, tt.wantPayload, intent.Payload)
			}
		})
	}
}

func TestCLINotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewCLINotifier(logger.New(logger.LevelOff, nil), func(format string, a ...interface{}) {
		fmt.Fprintf(&buf, format+"\n", a...)
	})

	_ = n.NotifyUrgent(context.Background(), "milk expired")
	if !strings.Contains(buf.String(), red) || !strings.Contains(buf.String(), "milk expired") {
		t.Fatalf("unexpected urgent output %q", buf.String())
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(logger.New(logger.LevelNormal, &buf))
	_ = n.Notify(context.Background(), "kale expires in 5 days")
	if !strings.Contains(buf.String(), "kale expires in 5 days") {
		t.Fatalf("expected message in log, got %q", buf.String())
	}
}
