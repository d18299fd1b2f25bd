package configs

import (
	"log"
	"time"

	"calorie-assistant/entity"

	"gorm.io/gorm"
)

// SeedCurrentMeal creates the singleton row if it is missing.
func SeedCurrentMeal(db *gorm.DB) error {
	var meal entity.CurrentMeal
	return db.Where(entity.CurrentMeal{ID: entity.CurrentMealSingletonID}).
		Attrs(entity.CurrentMeal{UpdatedAt: time.Now()}).
		FirstOrCreate(&meal).Error
}

func ptr(v float64) *float64 { return &v }

// SeedFoods fills an empty catalog with a few staples.
func SeedFoods(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.Food{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("catalog already has foods, skip seeding")
		return nil
	}

	foods := []entity.Food{
		{Name: "Chicken Breast", BaseAmount: 100, BaseUnit: entity.UnitGrams, Calories: 165, Protein: ptr(31)},
		{Name: "Apple", BaseAmount: 1, BaseUnit: entity.UnitServings, Calories: 52, Protein: ptr(0.3)},
		{Name: "Banana", BaseAmount: 1, BaseUnit: entity.UnitServings, Calories: 105, Protein: ptr(1.3)},
		{Name: "White Rice", BaseAmount: 100, BaseUnit: entity.UnitGrams, Calories: 130, Protein: ptr(2.7)},
		{Name: "Skinny Flat White", BaseAmount: 250, BaseUnit: entity.UnitML, Calories: 60, Protein: ptr(5)},
		{Name: "Whole Milk", BaseAmount: 250, BaseUnit: entity.UnitML, Calories: 150, Protein: ptr(8)},
		{Name: "Cheeseburger", BaseAmount: 1, BaseUnit: entity.UnitServings, Calories: 350, Protein: ptr(18)},
	}
	if err := db.Create(&foods).Error; err != nil {
		return err
	}
	log.Printf("seeded %d foods", len(foods))
	return nil
}
