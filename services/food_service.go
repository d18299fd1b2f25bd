package services

import (
	"math"
	"strings"

	"calorie-assistant/entity"
	"calorie-assistant/repository"

	"gorm.io/gorm"
)

// FoodCascader removes what depends on a food inside the food's delete
// transaction. CurrentMealService implements it.
type FoodCascader interface {
	CascadeFoodDelete(foodID uint, deleteFood func(tx *gorm.DB) error) error
}

type FoodService struct {
	DB        *gorm.DB
	Repo      *repository.FoodRepository
	SavedRepo *repository.SavedMealRepository
	Cascade   FoodCascader
	Notifier  Notifier
}

func NewFoodService(db *gorm.DB, repo *repository.FoodRepository, saved *repository.SavedMealRepository, c FoodCascader, n Notifier) *FoodService {
	return &FoodService{DB: db, Repo: repo, SavedRepo: saved, Cascade: c, Notifier: n}
}

type FoodInput struct {
	Name       string   `json:"name" binding:"required"`
	BaseAmount float64  `json:"baseAmount" binding:"required"`
	BaseUnit   string   `json:"baseUnit" binding:"required"`
	Calories   *float64 `json:"calories" binding:"required"`
	Protein    *float64 `json:"protein"`
}

func (in FoodInput) toFood() (*entity.Food, error) {
	f := &entity.Food{Name: strings.TrimSpace(in.Name), BaseAmount: in.BaseAmount, Protein: in.Protein}
	if f.Name == "" {
		return nil, invalid("name is required")
	}
	if !positive(f.BaseAmount) {
		return nil, invalid("baseAmount must be > 0")
	}
	u, ok := entity.ParseUnit(in.BaseUnit)
	if !ok {
		return nil, invalid("baseUnit must be grams, ml or servings")
	}
	f.BaseUnit = u
	if in.Calories == nil || *in.Calories < 0 || math.IsNaN(*in.Calories) {
		return nil, invalid("calories must be >= 0")
	}
	f.Calories = *in.Calories
	if f.Protein != nil && (*f.Protein < 0 || math.IsNaN(*f.Protein)) {
		return nil, invalid("protein must be >= 0")
	}
	return f, nil
}

func (s *FoodService) List(search string) ([]entity.Food, error) {
	var (
		foods []entity.Food
		err   error
	)
	if q := strings.TrimSpace(search); q != "" {
		foods, err = s.Repo.Search(q)
	} else {
		foods, err = s.Repo.List()
	}
	if err != nil {
		return nil, storage("list foods", err)
	}
	return foods, nil
}

func (s *FoodService) Get(id uint) (*entity.Food, error) {
	f, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, storage("get food", err)
	}
	return f, nil
}

func (s *FoodService) Create(in FoodInput) (*entity.Food, error) {
	f, err := in.toFood()
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(f); err != nil {
		return nil, storage("create food", err)
	}
	s.publish(EventFoodCreated, f)
	return f, nil
}

// Update rewrites a food. Current-meal items pick the change up on the next
// read since they join the catalog.
func (s *FoodService) Update(id uint, in FoodInput) (*entity.Food, error) {
	f, err := in.toFood()
	if err != nil {
		return nil, err
	}
	f.ID = id
	n, err := s.Repo.Update(f)
	if err != nil {
		return nil, storage("update food", err)
	}
	if n == 0 {
		return nil, notFound("food %d", id)
	}
	if f, err = s.Get(id); err != nil {
		return nil, err
	}
	s.publish(EventFoodUpdated, f)
	return f, nil
}

// Delete removes a food together with every current-meal and saved-meal item
// that references it.
func (s *FoodService) Delete(id uint) error {
	del := func(tx *gorm.DB) error {
		if s.SavedRepo != nil {
			if err := s.SavedRepo.RemoveFood(tx, id); err != nil {
				return storage("remove saved meal items", err)
			}
		}
		n, err := s.Repo.Delete(tx, id)
		if err != nil {
			return storage("delete food", err)
		}
		if n == 0 {
			return notFound("food %d", id)
		}
		return nil
	}

	var err error
	if s.Cascade != nil {
		err = s.Cascade.CascadeFoodDelete(id, del)
	} else {
		var delErr error
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			delErr = del(tx)
			return delErr
		})
		if delErr != nil {
			err = delErr
		} else if err != nil {
			err = storage("delete food", err)
		}
	}
	if err != nil {
		return err
	}
	s.publish(EventFoodDeleted, map[string]uint{"id": id})
	return nil
}

func (s *FoodService) publish(event string, payload any) {
	if s.Notifier != nil {
		s.Notifier.Publish(event, payload)
	}
}
