package entity

import "strings"

// Unit is the reference unit a food's nutrition is expressed against.
type Unit string

const (
	UnitGrams    Unit = "grams"
	UnitML       Unit = "ml"
	UnitServings Unit = "servings"
)

// ParseUnit accepts the canonical names plus the common spellings people and
// language models produce. ok is false for anything else, including "".
func ParseUnit(s string) (Unit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grams", "gram", "g", "gr":
		return UnitGrams, true
	case "ml", "millilitre", "millilitres", "milliliter", "milliliters":
		return UnitML, true
	case "servings", "serving", "serve", "serves", "piece", "pieces":
		return UnitServings, true
	}
	return "", false
}
