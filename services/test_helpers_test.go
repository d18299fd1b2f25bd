package services_test

import (
	"path/filepath"
	"sync"
	"testing"

	"calorie-assistant/configs"
	"calorie-assistant/entity"
	"calorie-assistant/repository"
	"calorie-assistant/services"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := configs.ConnectionDB(&configs.Config{
		DBDriver: "sqlite",
		DBSource: filepath.Join(t.TempDir(), "meal.db"),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := configs.SetupDatabase(db); err != nil {
		t.Fatalf("setup db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type published struct {
	event   string
	payload any
}

// recorder is a Notifier that keeps everything it is given.
type recorder struct {
	mu     sync.Mutex
	events []published
}

func (r *recorder) Publish(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{event, payload})
}

func (r *recorder) views() []*services.MealView {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*services.MealView
	for _, e := range r.events {
		if e.event == services.EventMealUpdated {
			out = append(out, e.payload.(*services.MealView))
		}
	}
	return out
}

func (r *recorder) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.event == event {
			n++
		}
	}
	return n
}

type fixture struct {
	db    *gorm.DB
	rec   *recorder
	foods *repository.FoodRepository
	meal  *services.CurrentMealService
	food  *services.FoodService
	saved *services.SavedMealService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	rec := &recorder{}
	foodRepo := repository.NewFoodRepository(db)
	savedRepo := repository.NewSavedMealRepository(db)
	meal := services.NewCurrentMealService(db, repository.NewCurrentMealRepository(db), foodRepo, rec)
	return &fixture{
		db:    db,
		rec:   rec,
		foods: foodRepo,
		meal:  meal,
		food:  services.NewFoodService(db, foodRepo, savedRepo, meal, rec),
		saved: services.NewSavedMealService(db, savedRepo, foodRepo, meal),
	}
}

func ptr(v float64) *float64 { return &v }

func (f *fixture) addFood(t *testing.T, food entity.Food) entity.Food {
	t.Helper()
	if err := f.foods.Create(&food); err != nil {
		t.Fatalf("create food %s: %v", food.Name, err)
	}
	return food
}

func chicken() entity.Food {
	return entity.Food{Name: "Chicken Breast", BaseAmount: 100, BaseUnit: entity.UnitGrams, Calories: 165, Protein: ptr(31)}
}

func apple() entity.Food {
	return entity.Food{Name: "Apple", BaseAmount: 1, BaseUnit: entity.UnitServings, Calories: 52}
}
