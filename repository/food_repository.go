package repository

import (
	"strings"

	"calorie-assistant/entity"

	"gorm.io/gorm"
)

type FoodRepository struct{ DB *gorm.DB }

func NewFoodRepository(db *gorm.DB) *FoodRepository { return &FoodRepository{DB: db} }

func (r *FoodRepository) List() ([]entity.Food, error) {
	var foods []entity.Food
	err := r.DB.Order("name ASC").Order("id ASC").Find(&foods).Error
	return foods, err
}

func (r *FoodRepository) FindByID(id uint) (*entity.Food, error) {
	var f entity.Food
	if err := r.DB.First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FoodRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.DB.Model(&entity.Food{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Search is a case-insensitive substring match over name.
func (r *FoodRepository) Search(q string) ([]entity.Food, error) {
	var foods []entity.Food
	like := "%" + escapeLike(strings.ToLower(q)) + "%"
	err := r.DB.Where(`LOWER(name) LIKE ? ESCAPE '\'`, like).
		Order("name ASC").Order("id ASC").
		Find(&foods).Error
	return foods, err
}

// MatchCandidates returns foods whose name contains name, or whose name is
// contained in it, in insertion order.
func (r *FoodRepository) MatchCandidates(name string) ([]entity.Food, error) {
	var foods []entity.Food
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return foods, nil
	}
	err := r.DB.
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(n)+"%").
		Or(`? LIKE '%' || LOWER(name) || '%'`, n).
		Order("id ASC").
		Find(&foods).Error
	return foods, err
}

func (r *FoodRepository) Create(f *entity.Food) error {
	return r.DB.Create(f).Error
}

func (r *FoodRepository) Update(f *entity.Food) (int64, error) {
	res := r.DB.Model(&entity.Food{}).Where("id = ?", f.ID).Updates(map[string]any{
		"name":        f.Name,
		"base_amount": f.BaseAmount,
		"base_unit":   f.BaseUnit,
		"calories":    f.Calories,
		"protein":     f.Protein,
	})
	return res.RowsAffected, res.Error
}

func (r *FoodRepository) Delete(tx *gorm.DB, id uint) (int64, error) {
	res := tx.Delete(&entity.Food{}, id)
	return res.RowsAffected, res.Error
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// WithTx returns a repository bound to tx.
func (r *FoodRepository) WithTx(tx *gorm.DB) *FoodRepository { return &FoodRepository{DB: tx} }
