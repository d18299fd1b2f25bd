package repository

import (
	"time"

	"calorie-assistant/entity"

	"gorm.io/gorm"
)

type CurrentMealRepository struct{ DB *gorm.DB }

func NewCurrentMealRepository(db *gorm.DB) *CurrentMealRepository {
	return &CurrentMealRepository{DB: db}
}

// ListItems returns rows in insertion order with catalog foods joined in.
func (r *CurrentMealRepository) ListItems(db *gorm.DB) ([]entity.CurrentMealItem, error) {
	var rows []entity.CurrentMealItem
	err := db.Preload("Food").Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *CurrentMealRepository) Meta(db *gorm.DB) (*entity.CurrentMeal, error) {
	var m entity.CurrentMeal
	if err := db.First(&m, entity.CurrentMealSingletonID).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *CurrentMealRepository) FindItem(db *gorm.DB, id uint) (*entity.CurrentMealItem, error) {
	var row entity.CurrentMealItem
	if err := db.Preload("Food").First(&row, id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByFood returns the line item for foodID, or nil when there is none.
func (r *CurrentMealRepository) FindByFood(tx *gorm.DB, foodID uint) (*entity.CurrentMealItem, error) {
	var rows []entity.CurrentMealItem
	res := tx.Where("food_id = ?", foodID).Limit(1).Find(&rows)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// UpsertCatalogItem sets the multiplier of foodID's line item, inserting one at
// the end when the food is not in the meal yet. Multipliers are replaced, not
// summed.
func (r *CurrentMealRepository) UpsertCatalogItem(tx *gorm.DB, foodID uint, multiplier float64) (*entity.CurrentMealItem, bool, error) {
	exist, err := r.FindByFood(tx, foodID)
	if err != nil {
		return nil, false, err
	}
	if exist != nil {
		exist.Multiplier = multiplier
		if err := tx.Model(exist).Update("multiplier", multiplier).Error; err != nil {
			return nil, false, err
		}
		return exist, false, nil
	}

	row := entity.NewCatalogRow(foodID, multiplier)
	if err := tx.Create(row).Error; err != nil {
		return nil, false, err
	}
	return row, true, nil
}

func (r *CurrentMealRepository) Create(tx *gorm.DB, row *entity.CurrentMealItem) error {
	return tx.Create(row).Error
}

func (r *CurrentMealRepository) UpdateMultiplier(tx *gorm.DB, id uint, multiplier float64) (int64, error) {
	res := tx.Model(&entity.CurrentMealItem{}).Where("id = ?", id).Update("multiplier", multiplier)
	return res.RowsAffected, res.Error
}

func (r *CurrentMealRepository) RemoveItem(tx *gorm.DB, id uint) (int64, error) {
	res := tx.Delete(&entity.CurrentMealItem{}, id)
	return res.RowsAffected, res.Error
}

// RemoveByFood drops line items that reference foodID.
func (r *CurrentMealRepository) RemoveByFood(tx *gorm.DB, foodID uint) (int64, error) {
	res := tx.Where("food_id = ?", foodID).Delete(&entity.CurrentMealItem{})
	return res.RowsAffected, res.Error
}

func (r *CurrentMealRepository) Clear(tx *gorm.DB) (int64, error) {
	res := tx.Where("1 = 1").Delete(&entity.CurrentMealItem{})
	return res.RowsAffected, res.Error
}

// Touch bumps the singleton's updated_at.
func (r *CurrentMealRepository) Touch(tx *gorm.DB, at time.Time) error {
	return tx.Model(&entity.CurrentMeal{}).
		Where("id = ?", entity.CurrentMealSingletonID).
		Update("updated_at", at).Error
}
