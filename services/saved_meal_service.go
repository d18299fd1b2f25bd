package services

import (
	"strings"

	"calorie-assistant/entity"
	"calorie-assistant/repository"

	"gorm.io/gorm"
)

type SavedMealService struct {
	DB    *gorm.DB
	Repo  *repository.SavedMealRepository
	Foods *repository.FoodRepository
	Meal  *CurrentMealService
}

func NewSavedMealService(db *gorm.DB, repo *repository.SavedMealRepository, foods *repository.FoodRepository, meal *CurrentMealService) *SavedMealService {
	return &SavedMealService{DB: db, Repo: repo, Foods: foods, Meal: meal}
}

type SavedMealItemIn struct {
	FoodID     uint    `json:"foodId" binding:"required"`
	Multiplier float64 `json:"multiplier" binding:"required"`
}

func (s *SavedMealService) List(search string) ([]entity.SavedMeal, error) {
	meals, err := s.Repo.List(search)
	if err != nil {
		return nil, storage("list saved meals", err)
	}
	return meals, nil
}

func (s *SavedMealService) Get(id uint) (*entity.SavedMeal, error) {
	m, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, storage("get saved meal", err)
	}
	return m, nil
}

func (s *SavedMealService) Create(name string, items []SavedMealItemIn) (*entity.SavedMeal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name is required")
	}
	if len(items) == 0 {
		return nil, invalid("a saved meal needs at least one item")
	}

	meal := &entity.SavedMeal{Name: name}
	var createErr error
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		createErr = s.insertMeal(tx, meal, items)
		return createErr
	})
	if createErr != nil {
		return nil, createErr
	}
	if err != nil {
		return nil, storage("create saved meal", err)
	}
	return s.Get(meal.ID)
}

func (s *SavedMealService) insertMeal(tx *gorm.DB, meal *entity.SavedMeal, items []SavedMealItemIn) error {
	foods := s.Foods.WithTx(tx)
	for _, it := range items {
		if !positive(it.Multiplier) {
			return invalid("multiplier must be > 0")
		}
		ok, err := foods.Exists(it.FoodID)
		if err != nil {
			return storage("check food", err)
		}
		if !ok {
			return notFound("food %d", it.FoodID)
		}
		meal.Items = append(meal.Items, entity.SavedMealItem{FoodID: it.FoodID, Multiplier: it.Multiplier})
	}
	if err := s.Repo.Create(tx, meal); err != nil {
		return storage("create saved meal", err)
	}
	return nil
}

// CreateFromCurrentMeal snapshots the catalog-linked items of the current
// meal. Temporary items have no catalog identity and are left out.
func (s *SavedMealService) CreateFromCurrentMeal(name string) (*entity.SavedMeal, error) {
	items, err := s.Meal.ListItems()
	if err != nil {
		return nil, err
	}
	var in []SavedMealItemIn
	for _, li := range items {
		if id, ok := li.FoodID(); ok {
			in = append(in, SavedMealItemIn{FoodID: id, Multiplier: li.Multiplier})
		}
	}
	if len(in) == 0 {
		return nil, invalid("current meal has no catalog items to save")
	}
	return s.Create(name, in)
}

func (s *SavedMealService) Delete(id uint) error {
	var delErr error
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		n, err := s.Repo.Delete(tx, id)
		if err != nil {
			delErr = storage("delete saved meal", err)
		} else if n == 0 {
			delErr = notFound("saved meal %d", id)
		}
		return delErr
	})
	if delErr != nil {
		return delErr
	}
	if err != nil {
		return storage("delete saved meal", err)
	}
	return nil
}

// Apply replays the saved meal into the current meal as catalog adds.
func (s *SavedMealService) Apply(id uint) ([]AddResult, error) {
	m, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if len(m.Items) == 0 {
		return nil, invalid("saved meal %d has no items", id)
	}
	adds := make([]CatalogAdd, 0, len(m.Items))
	for _, it := range m.Items {
		adds = append(adds, CatalogAdd{FoodID: it.FoodID, Multiplier: it.Multiplier})
	}
	return s.Meal.AddCatalogItems(adds)
}
