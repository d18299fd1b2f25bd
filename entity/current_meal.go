package entity

import "time"

// CurrentMealSingletonID is the id of the only CurrentMeal row.
const CurrentMealSingletonID uint = 1

type CurrentMeal struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

// CurrentMealItem is the storage row of a line item. A row is either catalog
// linked (FoodID set, Temp* nil) or temporary (FoodID nil, TempName set); the
// CHECK on food_id keeps it that way. Use LineItem() to work with it.
type CurrentMealItem struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	FoodID *uint `gorm:"uniqueIndex;check:chk_current_meal_items_variant,(food_id IS NULL) <> (temp_name IS NULL)" json:"foodId"`
	Food   *Food `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Multiplier float64 `gorm:"not null;check:chk_current_meal_items_multiplier,multiplier > 0" json:"multiplier"`

	TempName       *string  `json:"-"`
	TempBaseAmount *float64 `json:"-"`
	TempBaseUnit   *Unit    `gorm:"type:varchar(16)" json:"-"`
	TempCalories   *float64 `json:"-"`
	TempProtein    *float64 `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}
