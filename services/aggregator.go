package services

import (
	"time"

	"calorie-assistant/entity"
)

// MealViewItem is one fully computed line of the current meal.
type MealViewItem struct {
	ID           uint        `json:"id"`
	FoodID       *uint       `json:"foodId"`
	IsTemporary  bool        `json:"isTemporary"`
	Name         string      `json:"name"`
	BaseAmount   float64     `json:"baseAmount"`
	BaseUnit     entity.Unit `json:"baseUnit"`
	Calories     float64     `json:"calories"`
	Protein      *float64    `json:"protein"`
	Multiplier   float64     `json:"multiplier"`
	Amount       float64     `json:"amount"`
	ItemCalories float64     `json:"itemCalories"`
	ItemProtein  float64     `json:"itemProtein"`
}

// MealView is the client-ready snapshot pushed to observers and served by
// GET /api/current-meal.
type MealView struct {
	Items         []MealViewItem `json:"items"`
	TotalCalories float64        `json:"totalCalories"`
	TotalProtein  float64        `json:"totalProtein"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// BuildMealView computes per-item and total nutrition. Order is preserved.
func BuildMealView(items []entity.LineItem, updatedAt time.Time) *MealView {
	v := &MealView{Items: make([]MealViewItem, 0, len(items)), UpdatedAt: updatedAt}
	for _, li := range items {
		p := li.Source.Portion()
		row := MealViewItem{
			ID:          li.ID,
			IsTemporary: li.IsTemporary(),
			Name:        p.Name,
			BaseAmount:  p.BaseAmount,
			BaseUnit:    p.BaseUnit,
			Calories:    p.Calories,
			Protein:     p.Protein,
			Multiplier:  li.Multiplier,
			Amount:      MultiplierToAmount(li.Multiplier, p),
		}
		if id, ok := li.FoodID(); ok {
			row.FoodID = &id
		}
		row.ItemCalories, row.ItemProtein = ItemNutrition(p, li.Multiplier)

		v.TotalCalories += row.ItemCalories
		v.TotalProtein += row.ItemProtein
		v.Items = append(v.Items, row)
	}
	return v
}

// ItemNutrition scales p by multiplier. Missing protein counts as zero.
func ItemNutrition(p entity.Portion, multiplier float64) (calories, protein float64) {
	calories = p.Calories * multiplier
	if p.Protein != nil {
		protein = *p.Protein * multiplier
	}
	return calories, protein
}
