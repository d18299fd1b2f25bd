package configs

import (
	"path/filepath"
	"testing"

	"calorie-assistant/entity"
)

func TestSetupDatabaseIsIdempotent(t *testing.T) {
	db, err := ConnectionDB(&Config{DBDriver: "sqlite", DBSource: filepath.Join(t.TempDir(), "m.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	for i := 0; i < 2; i++ {
		if err := SetupDatabase(db); err != nil {
			t.Fatalf("setup #%d: %v", i+1, err)
		}
	}

	v, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if v != migrations[len(migrations)-1].version {
		t.Fatalf("expected latest version, got %d", v)
	}

	var rows int64
	db.Model(&entity.SchemaMigration{}).Count(&rows)
	if rows != int64(len(migrations)) {
		t.Fatalf("expected %d migration rows, got %d", len(migrations), rows)
	}
	var meals int64
	db.Model(&entity.CurrentMeal{}).Count(&meals)
	if meals != 1 {
		t.Fatalf("expected the singleton current meal, got %d rows", meals)
	}
}

func TestSeedFoodsOnlyFillsEmptyCatalog(t *testing.T) {
	db, err := ConnectionDB(&Config{DBDriver: "sqlite", DBSource: filepath.Join(t.TempDir(), "s.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := SetupDatabase(db); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := SeedFoods(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var first int64
	db.Model(&entity.Food{}).Count(&first)
	if first == 0 {
		t.Fatal("expected seeded foods")
	}
	if err := SeedFoods(db); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	var second int64
	db.Model(&entity.Food{}).Count(&second)
	if second != first {
		t.Fatalf("expected reseed to be a no-op, got %d then %d", first, second)
	}
}

func TestConnectionDBRejectsUnknownDriver(t *testing.T) {
	if _, err := ConnectionDB(&Config{DBDriver: "oracle", DBSource: "x"}); err == nil {
		t.Fatal("expected an error for an unknown driver")
	}
}
