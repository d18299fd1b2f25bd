package services_test

import (
	"context"
	"errors"
	"testing"

	"calorie-assistant/entity"
	"calorie-assistant/services"
)

type fakeExtractor struct {
	out string
	err error
}

func (f fakeExtractor) Extract(context.Context, string) (string, error) { return f.out, f.err }

func TestNormalizeIntent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		in         string
		amount     *float64
		unit       entity.Unit
		wantAmount float64
		wantUnit   entity.Unit
	}{
		{"beverage without unit", "Skinny Flat White", nil, "", 250, entity.UnitML},
		{"beverage in servings", "Coffee", ptr(1), entity.UnitServings, 250, entity.UnitML},
		{"large drink", "Large Latte", nil, "", 350, entity.UnitML},
		{"small drink", "Small Cappuccino", nil, "", 200, entity.UnitML},
		{"beverage already ml", "Orange Juice", ptr(330), entity.UnitML, 330, entity.UnitML},
		{"fast food without amount", "Cheeseburger", nil, "", 1, entity.UnitServings},
		{"fast food in grams", "Chicken Wrap", ptr(2), entity.UnitGrams, 2, entity.UnitServings},
		{"big number means grams", "Steak", ptr(200), "", 200, entity.UnitGrams},
		{"no amount no unit", "Banana", nil, "", 1, entity.UnitServings},
		{"grams without amount", "Rice", nil, entity.UnitGrams, 100, entity.UnitGrams},
		{"ml without amount", "Milk", ptr(1), entity.UnitML, 250, entity.UnitML},
		{"servings kept", "Egg", ptr(3), entity.UnitServings, 3, entity.UnitServings},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := services.NormalizeIntent(tt.in, tt.amount, tt.unit)
			if got.Amount != tt.wantAmount || got.Unit != tt.wantUnit {
				t.Fatalf("NormalizeIntent(%q) = %v %s, want %v %s", tt.in, got.Amount, got.Unit, tt.wantAmount, tt.wantUnit)
			}
		})
	}
}

func TestParseExtraction(t *testing.T) {
	t.Parallel()

	t.Run("fenced object", func(t *testing.T) {
		raw := "Here you go:\n```json\n{\"name\": \"Apple\", \"baseAmount\": 2, \"baseUnit\": \"servings\"}\n```"
		swap, intents, err := services.ParseExtraction(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if swap != nil || len(intents) != 1 || intents[0].Name != "Apple" || intents[0].Amount != 2 {
			t.Fatalf("unexpected result: %+v %+v", swap, intents)
		}
	})

	t.Run("array with blank names skipped", func(t *testing.T) {
		raw := `[{"name": "Chicken Breast", "baseAmount": "200", "baseUnit": "g"}, {"name": ""}, {"name": "Toast", "amount": 2}]`
		_, intents, err := services.ParseExtraction(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(intents) != 2 {
			t.Fatalf("expected 2 intents, got %+v", intents)
		}
		if intents[0].Unit != entity.UnitGrams || intents[0].Amount != 200 {
			t.Fatalf("expected 200 grams, got %+v", intents[0])
		}
		if intents[1].Name != "Toast" || intents[1].Amount != 2 || intents[1].Unit != entity.UnitGrams {
			t.Fatalf("expected amount fallback for Toast, got %+v", intents[1])
		}
	})

	t.Run("swap command", func(t *testing.T) {
		swap, intents, err := services.ParseExtraction(`{"command": "change", "from": "Rice", "to": "Quinoa"}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if swap == nil || swap.From != "Rice" || swap.To != "Quinoa" || intents != nil {
			t.Fatalf("expected swap Rice -> Quinoa, got %+v %+v", swap, intents)
		}
	})

	t.Run("swap command in an array", func(t *testing.T) {
		swap, intents, err := services.ParseExtraction(`[{"command": "replace", "from": "Rice", "to": "Quinoa"}]`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if swap == nil || swap.From != "Rice" || swap.To != "Quinoa" || intents != nil {
			t.Fatalf("expected swap Rice -> Quinoa, got %+v %+v", swap, intents)
		}
	})

	t.Run("non-finite amounts are ignored", func(t *testing.T) {
		for _, amount := range []string{`"Infinity"`, `"-Inf"`, `"NaN"`, `1e400`} {
			raw := `{"name": "Rice", "baseAmount": ` + amount + `, "baseUnit": "grams"}`
			_, intents, err := services.ParseExtraction(raw)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", amount, err)
			}
			if intents[0].Amount != 100 || intents[0].Unit != entity.UnitGrams {
				t.Fatalf("%s: expected the 100 g default, got %+v", amount, intents[0])
			}
		}
	})

	for _, raw := range []string{"", "I could not hear that", "{not json}", `[{"name": ""}]`} {
		if _, _, err := services.ParseExtraction(raw); !errors.Is(err, services.ErrExtractionFailed) {
			t.Fatalf("%q: expected ErrExtractionFailed, got %v", raw, err)
		}
	}
}

func newVoice(t *testing.T, ex services.Extractor) (*fixture, *services.VoiceService) {
	t.Helper()
	f := newFixture(t)
	f.addFood(t, chicken())
	f.addFood(t, apple())
	return f, services.NewVoiceService(ex, f.foods)
}

func TestResolveMatchesCatalog(t *testing.T) {
	t.Parallel()
	_, svc := newVoice(t, fakeExtractor{out: `[
		{"name": "Chicken", "baseAmount": 200, "baseUnit": "grams"},
		{"name": "Apple", "baseAmount": 2, "baseUnit": "servings"},
		{"name": "Dragonfruit", "baseAmount": 1, "baseUnit": "servings"}
	]`})

	res, err := svc.Resolve(context.Background(), "200 grams of chicken, two apples and a dragonfruit")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Command != services.CommandAdd || len(res.Intents) != 3 {
		t.Fatalf("expected 3 add intents, got %+v", res)
	}

	ch := res.Intents[0]
	if ch.Status != services.IntentMatched || ch.Food.Name != "Chicken Breast" || ch.Multiplier != 2 {
		t.Fatalf("unexpected chicken resolution: %+v", ch)
	}
	if ch.ItemCalories != 330 || ch.ItemProtein != 62 {
		t.Fatalf("expected 330 kcal / 62 g, got %v / %v", ch.ItemCalories, ch.ItemProtein)
	}
	if ap := res.Intents[1]; ap.Multiplier != 2 || ap.ItemCalories != 104 {
		t.Fatalf("expected 2 apples = 104 kcal, got %+v", ap)
	}
	if res.Intents[2].Status != services.IntentNotFound || res.Intents[2].Food != nil {
		t.Fatalf("expected dragonfruit not found, got %+v", res.Intents[2])
	}
	if adds := res.Matched(); len(adds) != 2 {
		t.Fatalf("expected 2 matched adds, got %d", len(adds))
	}
}

func TestResolveUnitMismatchFallsBackToOne(t *testing.T) {
	t.Parallel()
	_, svc := newVoice(t, fakeExtractor{out: `{"name": "Apple", "baseAmount": 150, "baseUnit": "grams"}`})

	res, err := svc.Resolve(context.Background(), "150 grams of apple")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := res.Intents[0].Multiplier; got != 1 {
		t.Fatalf("expected fallback multiplier 1, got %v", got)
	}
}

func TestResolveSwap(t *testing.T) {
	t.Parallel()
	_, svc := newVoice(t, fakeExtractor{out: `{"command": "swap", "from": "apple", "to": "chicken"}`})

	res, err := svc.Resolve(context.Background(), "swap the apple for chicken")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Command != services.CommandSwap || res.Swap == nil || res.Swap.To != "chicken" {
		t.Fatalf("expected swap command, got %+v", res)
	}
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	if _, err := services.NewVoiceService(fakeExtractor{}, f.foods).Resolve(ctx, "   "); !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for blank text, got %v", err)
	}
	if _, err := services.NewVoiceService(nil, f.foods).Resolve(ctx, "an apple"); !errors.Is(err, services.ErrExtractorDisabled) {
		t.Fatalf("expected ErrExtractorDisabled, got %v", err)
	}
	boom := errors.New("upstream 500")
	_, err := services.NewVoiceService(fakeExtractor{err: boom}, f.foods).Resolve(ctx, "an apple")
	if !errors.Is(err, services.ErrExtractionFailed) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped extraction failure, got %v", err)
	}
}
