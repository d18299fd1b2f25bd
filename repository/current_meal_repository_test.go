package repository_test

import (
	"path/filepath"
	"testing"

	"calorie-assistant/configs"
	"calorie-assistant/entity"
	"calorie-assistant/repository"
)

func TestFindByFood(t *testing.T) {
	db, err := configs.ConnectionDB(&configs.Config{DBDriver: "sqlite", DBSource: filepath.Join(t.TempDir(), "r.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := configs.SetupDatabase(db); err != nil {
		t.Fatalf("setup: %v", err)
	}

	food := entity.Food{Name: "Oats", BaseAmount: 40, BaseUnit: entity.UnitGrams, Calories: 150}
	if err := repository.NewFoodRepository(db).Create(&food); err != nil {
		t.Fatalf("create food: %v", err)
	}
	repo := repository.NewCurrentMealRepository(db)

	row, err := repo.FindByFood(db, food.ID)
	if err != nil || row != nil {
		t.Fatalf("expected no row and no error for a food not in the meal, got %+v, %v", row, err)
	}

	added, created, err := repo.UpsertCatalogItem(db, food.ID, 2)
	if err != nil || !created {
		t.Fatalf("upsert: created=%v err=%v", created, err)
	}
	row, err = repo.FindByFood(db, food.ID)
	if err != nil || row == nil || row.ID != added.ID || row.Multiplier != 2 {
		t.Fatalf("expected row %d, got %+v, %v", added.ID, row, err)
	}

	again, created, err := repo.UpsertCatalogItem(db, food.ID, 5)
	if err != nil || created || again.ID != added.ID || again.Multiplier != 5 {
		t.Fatalf("expected in-place replace, got %+v created=%v err=%v", again, created, err)
	}
}
