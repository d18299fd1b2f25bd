package entity

import (
	"errors"
	"fmt"
)

// Portion is the nutrition shape shared by catalog foods and temporary items:
// Calories and Protein are per BaseAmount of BaseUnit.
type Portion struct {
	Name       string   `json:"name"`
	BaseAmount float64  `json:"baseAmount"`
	BaseUnit   Unit     `json:"baseUnit"`
	Calories   float64  `json:"calories"`
	Protein    *float64 `json:"protein"`
}

// ItemSource is what a line item points at. It is sealed: the only
// implementations are CatalogSource and TemporarySource.
type ItemSource interface {
	Portion() Portion
	sealed()
}

// CatalogSource is a line item backed by a catalog food. Food is resolved at
// read time so the catalog stays the source of truth.
type CatalogSource struct {
	Food Food
}

func (s CatalogSource) Portion() Portion { return s.Food.Portion() }
func (CatalogSource) sealed()            {}

// TemporarySource is an inline food that never enters the catalog.
type TemporarySource struct {
	Food Portion
}

func (s TemporarySource) Portion() Portion { return s.Food }
func (TemporarySource) sealed()            {}

// LineItem is one entry of the current meal.
type LineItem struct {
	ID         uint
	Multiplier float64
	Source     ItemSource
}

func (li LineItem) IsTemporary() bool {
	_, ok := li.Source.(TemporarySource)
	return ok
}

// FoodID returns the catalog id for catalog-linked items.
func (li LineItem) FoodID() (uint, bool) {
	if s, ok := li.Source.(CatalogSource); ok {
		return s.Food.ID, true
	}
	return 0, false
}

var ErrCorruptLineItem = errors.New("line item row is neither catalog-linked nor temporary")

// LineItem converts a stored row. Catalog rows must have Food preloaded.
func (r CurrentMealItem) LineItem() (LineItem, error) {
	li := LineItem{ID: r.ID, Multiplier: r.Multiplier}
	switch {
	case r.FoodID != nil && r.TempName == nil:
		if r.Food == nil {
			return LineItem{}, fmt.Errorf("%w: item %d references food %d which is not loaded", ErrCorruptLineItem, r.ID, *r.FoodID)
		}
		li.Source = CatalogSource{Food: *r.Food}
	case r.FoodID == nil && r.TempName != nil:
		p := Portion{Name: *r.TempName, Protein: r.TempProtein}
		if r.TempBaseAmount != nil {
			p.BaseAmount = *r.TempBaseAmount
		}
		if r.TempBaseUnit != nil {
			p.BaseUnit = *r.TempBaseUnit
		}
		if r.TempCalories != nil {
			p.Calories = *r.TempCalories
		}
		li.Source = TemporarySource{Food: p}
	default:
		return LineItem{}, fmt.Errorf("%w: item %d", ErrCorruptLineItem, r.ID)
	}
	return li, nil
}

// NewTemporaryRow builds the storage row for a temporary item.
func NewTemporaryRow(p Portion, multiplier float64) *CurrentMealItem {
	name, amount, unit, cal := p.Name, p.BaseAmount, p.BaseUnit, p.Calories
	return &CurrentMealItem{
		Multiplier:     multiplier,
		TempName:       &name,
		TempBaseAmount: &amount,
		TempBaseUnit:   &unit,
		TempCalories:   &cal,
		TempProtein:    p.Protein,
	}
}

// NewCatalogRow builds the storage row for a catalog-linked item.
func NewCatalogRow(foodID uint, multiplier float64) *CurrentMealItem {
	id := foodID
	return &CurrentMealItem{FoodID: &id, Multiplier: multiplier}
}
