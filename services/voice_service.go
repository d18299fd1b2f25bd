package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"calorie-assistant/entity"
	"calorie-assistant/repository"
)

// Extractor turns a transcript into the raw model output that should hold
// JSON food candidates or a swap command.
type Extractor interface {
	Extract(ctx context.Context, text string) (string, error)
}

// FoodIntent is a normalised "some amount of some food" request.
type FoodIntent struct {
	Name   string      `json:"name"`
	Amount float64     `json:"amount"`
	Unit   entity.Unit `json:"unit"`
}

type SwapCommand struct {
	From string `json:"from"`
	To   string `json:"to"`
}

const (
	IntentMatched  = "matched"
	IntentNotFound = "not_found"
)

// IntentResolution is the outcome for one intent. Status not_found means no
// catalog food matched; other intents are still resolved.
type IntentResolution struct {
	Intent       FoodIntent   `json:"intent"`
	Status       string       `json:"status"`
	Food         *entity.Food `json:"food,omitempty"`
	Multiplier   float64      `json:"multiplier,omitempty"`
	ItemCalories float64      `json:"itemCalories,omitempty"`
	ItemProtein  float64      `json:"itemProtein,omitempty"`
}

// VoiceResult holds either a swap command or the per-intent resolutions.
type VoiceResult struct {
	Command string             `json:"command"`
	Swap    *SwapCommand       `json:"swap,omitempty"`
	Intents []IntentResolution `json:"intents,omitempty"`
}

const (
	CommandSwap = "swap"
	CommandAdd  = "add"
)

type VoiceService struct {
	Extractor Extractor
	Foods     *repository.FoodRepository
}

func NewVoiceService(ex Extractor, foods *repository.FoodRepository) *VoiceService {
	return &VoiceService{Extractor: ex, Foods: foods}
}

// Resolve extracts intents from text and matches each against the catalog.
func (s *VoiceService) Resolve(ctx context.Context, text string) (*VoiceResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, invalid("text is required")
	}
	if s.Extractor == nil {
		return nil, ErrExtractorDisabled
	}
	raw, err := s.Extractor.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}
	swap, intents, err := ParseExtraction(raw)
	if err != nil {
		return nil, err
	}
	if swap != nil {
		return &VoiceResult{Command: CommandSwap, Swap: swap}, nil
	}

	res := &VoiceResult{Command: CommandAdd, Intents: make([]IntentResolution, 0, len(intents))}
	for _, in := range intents {
		r, err := s.resolveIntent(in)
		if err != nil {
			return nil, err
		}
		res.Intents = append(res.Intents, r)
	}
	return res, nil
}

func (s *VoiceService) resolveIntent(in FoodIntent) (IntentResolution, error) {
	candidates, err := s.Foods.MatchCandidates(in.Name)
	if err != nil {
		return IntentResolution{}, storage("search foods", err)
	}
	food, ok := pickByName(candidates, in.Name, func(f entity.Food) string { return f.Name })
	if !ok {
		return IntentResolution{Intent: in, Status: IntentNotFound}, nil
	}
	m := IntentMultiplier(in.Amount, in.Unit, food.Portion())
	cal, pro := ItemNutrition(food.Portion(), m)
	return IntentResolution{
		Intent:       in,
		Status:       IntentMatched,
		Food:         &food,
		Multiplier:   m,
		ItemCalories: cal,
		ItemProtein:  pro,
	}, nil
}

// Matched returns the catalog adds for every matched intent.
func (r *VoiceResult) Matched() []CatalogAdd {
	var adds []CatalogAdd
	for _, in := range r.Intents {
		if in.Status == IntentMatched && in.Food != nil {
			adds = append(adds, CatalogAdd{FoodID: in.Food.ID, Multiplier: in.Multiplier})
		}
	}
	return adds
}

type candidate struct {
	Command    string     `json:"command"`
	From       string     `json:"from"`
	To         string     `json:"to"`
	Name       string     `json:"name"`
	BaseAmount flexNumber `json:"baseAmount"`
	Amount     flexNumber `json:"amount"`
	BaseUnit   string     `json:"baseUnit"`
	Unit       string     `json:"unit"`
}

// ParseExtraction reads model output: a JSON object or array, possibly
// wrapped in prose or markdown fences. Calories and protein are ignored; the
// catalog owns nutrition.
func ParseExtraction(raw string) (*SwapCommand, []FoodIntent, error) {
	body, isArray, ok := jsonPayload(raw)
	if !ok {
		return nil, nil, fmt.Errorf("%w: no JSON in model output", ErrExtractionFailed)
	}

	var cands []candidate
	if isArray {
		if err := json.Unmarshal([]byte(body), &cands); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
		}
	} else {
		var c candidate
		if err := json.Unmarshal([]byte(body), &c); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
		}
		cands = []candidate{c}
	}
	if len(cands) == 1 {
		if swap := cands[0].swap(); swap != nil {
			return swap, nil, nil
		}
	}

	intents := make([]FoodIntent, 0, len(cands))
	for _, c := range cands {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		amount := c.BaseAmount.v
		if amount == nil {
			amount = c.Amount.v
		}
		unitText := c.BaseUnit
		if unitText == "" {
			unitText = c.Unit
		}
		unit, _ := entity.ParseUnit(unitText)
		intents = append(intents, NormalizeIntent(c.Name, amount, unit))
	}
	if len(intents) == 0 {
		return nil, nil, fmt.Errorf("%w: no food names in model output", ErrExtractionFailed)
	}
	return nil, intents, nil
}

func (c candidate) swap() *SwapCommand {
	from, to := strings.TrimSpace(c.From), strings.TrimSpace(c.To)
	if !isSwapCommand(c.Command) || from == "" || to == "" {
		return nil
	}
	return &SwapCommand{From: from, To: to}
}

func isSwapCommand(cmd string) bool {
	switch strings.ToLower(strings.TrimSpace(cmd)) {
	case "change", "swap", "replace":
		return true
	}
	return false
}

// jsonPayload cuts the outermost JSON value out of s, starting at whichever of
// '[' or '{' comes first.
func jsonPayload(s string) (string, bool, bool) {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	obj, arr := strings.Index(s, "{"), strings.Index(s, "[")
	if obj < 0 && arr < 0 {
		return "", false, false
	}
	if arr >= 0 && (obj < 0 || arr < obj) {
		end := strings.LastIndex(s, "]")
		if end < arr {
			return "", false, false
		}
		return s[arr : end+1], true, true
	}
	end := strings.LastIndex(s, "}")
	if end < obj {
		return "", false, false
	}
	return s[obj : end+1], false, true
}

// flexNumber accepts a JSON number, a numeric string or null.
type flexNumber struct{ v *float64 }

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		// "a handful" and friends: treat as not extracted
		return nil
	}
	n.v = &f
	return nil
}

var (
	beverageKeywords = []string{
		"coffee", "latte", "cappuccino", "flat white", "espresso", "mocha",
		"americano", "tea", "juice", "soda", "drink",
	}
	fastFoodKeywords = []string{"burger", "sandwich", "pizza", "wrap", "taco"}
)

// NormalizeIntent fills in the unit and amount the extraction left out, and
// overrides units that make no sense for drinks and fast food.
func NormalizeIntent(name string, amount *float64, unit entity.Unit) FoodIntent {
	lower := strings.ToLower(name)
	var a float64
	if amount != nil && *amount > 0 {
		a = *amount
	}

	switch {
	case hasKeyword(lower, beverageKeywords) && unit != entity.UnitML:
		unit = entity.UnitML
		if a == 0 || a == 1 {
			a = drinkSize(lower)
		}
	case hasKeyword(lower, fastFoodKeywords) && unit != entity.UnitServings:
		unit = entity.UnitServings
		if a == 0 {
			a = 1
		}
	case unit == "":
		if a > 1 {
			unit = entity.UnitGrams
		} else {
			unit = entity.UnitServings
			if a == 0 {
				a = 1
			}
		}
	case a == 0 || a == 1:
		switch unit {
		case entity.UnitGrams:
			a = 100
		case entity.UnitML:
			a = 250
		default:
			a = 1
		}
	}
	return FoodIntent{Name: strings.TrimSpace(name), Amount: a, Unit: unit}
}

func drinkSize(name string) float64 {
	switch {
	case hasKeyword(name, []string{"large"}):
		return 350
	case hasKeyword(name, []string{"small"}):
		return 200
	}
	return 250
}

// hasKeyword matches keywords against word endings so "cheeseburger" counts
// as a burger and "coffees" as coffee, but "steak" is not tea.
func hasKeyword(name string, keywords []string) bool {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	joined := " " + strings.Join(words, " ") + " "
	for _, kw := range keywords {
		if strings.Contains(kw, " ") {
			if strings.Contains(joined, " "+kw+" ") || strings.Contains(joined, " "+kw+"s ") {
				return true
			}
			continue
		}
		for _, w := range words {
			if strings.HasSuffix(w, kw) ||
				strings.HasSuffix(strings.TrimSuffix(w, "s"), kw) ||
				strings.HasSuffix(strings.TrimSuffix(w, "es"), kw) {
				return true
			}
		}
	}
	return false
}
