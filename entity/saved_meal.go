package entity

import "time"

// SavedMeal is a named snapshot of catalog-linked items.
type SavedMeal struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"not null" json:"name"`
	CreatedAt time.Time       `json:"createdAt"`
	Items     []SavedMealItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

type SavedMealItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	SavedMealID uint    `gorm:"index;not null" json:"savedMealId"`
	FoodID      uint    `gorm:"index;not null" json:"foodId"`
	Food        Food    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"food"`
	Multiplier  float64 `gorm:"not null;check:chk_saved_meal_items_multiplier,multiplier > 0" json:"multiplier"`
}
