package configs

import (
	"fmt"
	"log"
	"time"

	"calorie-assistant/entity"

	"gorm.io/gorm"
)

type migration struct {
	version int
	name    string
	up      func(tx *gorm.DB) error
}

// Forward-only. Append new versions; never edit an applied one.
var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&entity.Food{},
				&entity.CurrentMeal{},
				&entity.CurrentMealItem{},
				&entity.SavedMeal{},
				&entity.SavedMealItem{},
			)
		},
	},
}

// SetupDatabase applies pending migrations and makes sure the current meal
// singleton row exists. Safe to call on every boot.
func SetupDatabase(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.SchemaMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var applied []entity.SchemaMigration
	if err := db.Find(&applied).Error; err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	done := make(map[int]bool, len(applied))
	for _, m := range applied {
		done[m.Version] = true
	}

	for _, m := range migrations {
		if done[m.version] {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.up(tx); err != nil {
				return err
			}
			return tx.Create(&entity.SchemaMigration{Version: m.version, Name: m.name, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		log.Printf("applied migration %d_%s", m.version, m.name)
	}

	return SeedCurrentMeal(db)
}

// SchemaVersion reports the highest applied migration.
func SchemaVersion(db *gorm.DB) (int, error) {
	var v int
	err := db.Model(&entity.SchemaMigration{}).Select("COALESCE(MAX(version), 0)").Scan(&v).Error
	return v, err
}
