package repository

import (
	"strings"

	"calorie-assistant/entity"

	"gorm.io/gorm"
)

type SavedMealRepository struct{ DB *gorm.DB }

func NewSavedMealRepository(db *gorm.DB) *SavedMealRepository {
	return &SavedMealRepository{DB: db}
}

func (r *SavedMealRepository) List(search string) ([]entity.SavedMeal, error) {
	var meals []entity.SavedMeal
	q := r.DB.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Food")
	if s := strings.TrimSpace(search); s != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(s))+"%")
	}
	err := q.Order("created_at DESC").Order("id DESC").Find(&meals).Error
	return meals, err
}

func (r *SavedMealRepository) FindByID(id uint) (*entity.SavedMeal, error) {
	var m entity.SavedMeal
	err := r.DB.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Food").
		First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create stores the meal and its items in one go.
func (r *SavedMealRepository) Create(tx *gorm.DB, m *entity.SavedMeal) error {
	return tx.Omit("Items.Food").Create(m).Error
}

func (r *SavedMealRepository) Delete(tx *gorm.DB, id uint) (int64, error) {
	if err := tx.Where("saved_meal_id = ?", id).Delete(&entity.SavedMealItem{}).Error; err != nil {
		return 0, err
	}
	res := tx.Delete(&entity.SavedMeal{}, id)
	return res.RowsAffected, res.Error
}

// RemoveFood drops saved-meal items that reference foodID.
func (r *SavedMealRepository) RemoveFood(tx *gorm.DB, foodID uint) error {
	return tx.Where("food_id = ?", foodID).Delete(&entity.SavedMealItem{}).Error
}
