package services

import (
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"calorie-assistant/entity"
	"calorie-assistant/repository"

	"gorm.io/gorm"
)

// Push channel event names.
const (
	EventMealUpdated = "meal-updated"
	EventFoodCreated = "food-created"
	EventFoodUpdated = "food-updated"
	EventFoodDeleted = "food-deleted"
)

// Notifier fans an event out to every connected observer. Implementations
// must not block; delivery is best effort.
type Notifier interface {
	Publish(event string, payload any)
}

// CurrentMealService is the only writer of the current meal. Mutations are
// serialised by mu and applied in one transaction together with the
// updated_at bump; readers take the read lock so they never see half of one.
type CurrentMealService struct {
	DB       *gorm.DB
	Repo     *repository.CurrentMealRepository
	Foods    *repository.FoodRepository
	Notifier Notifier
	Now      func() time.Time

	mu sync.RWMutex
}

func NewCurrentMealService(db *gorm.DB, repo *repository.CurrentMealRepository, foods *repository.FoodRepository, n Notifier) *CurrentMealService {
	return &CurrentMealService{DB: db, Repo: repo, Foods: foods, Notifier: n, Now: time.Now}
}

type TemporaryItemInput struct {
	Name       string
	BaseAmount *float64
	BaseUnit   string
	Calories   *float64
	Protein    *float64
	Multiplier float64
}

// CatalogAdd is one "set the amount of this food" request.
type CatalogAdd struct {
	FoodID     uint
	Multiplier float64
}

type AddResult struct {
	ID          uint    `json:"id"`
	FoodID      *uint   `json:"foodId"`
	IsTemporary bool    `json:"isTemporary"`
	Multiplier  float64 `json:"multiplier"`
	Created     bool    `json:"created"`
}

type SwapResult struct {
	RemovedID uint       `json:"removedId"`
	Added     *AddResult `json:"added"`
}

// View returns the materialized current meal.
func (s *CurrentMealService) View() (*MealView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view()
}

// ListItems returns line items in insertion order, catalog items resolved
// against the catalog.
func (s *CurrentMealService) ListItems() ([]entity.LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listItems(s.DB)
}

func (s *CurrentMealService) listItems(db *gorm.DB) ([]entity.LineItem, error) {
	rows, err := s.Repo.ListItems(db)
	if err != nil {
		return nil, storage("list current meal", err)
	}
	items := make([]entity.LineItem, 0, len(rows))
	for _, r := range rows {
		li, err := r.LineItem()
		if err != nil {
			return nil, storage("list current meal", err)
		}
		items = append(items, li)
	}
	return items, nil
}

func (s *CurrentMealService) view() (*MealView, error) {
	var v *MealView
	var readErr error
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		items, err := s.listItems(tx)
		if err != nil {
			readErr = err
			return err
		}
		meta, err := s.Repo.Meta(tx)
		if err != nil {
			readErr = storage("read current meal", err)
			return readErr
		}
		v = BuildMealView(items, meta.UpdatedAt)
		return nil
	})
	if readErr != nil {
		return nil, readErr
	}
	if err != nil {
		return nil, storage("read current meal", err)
	}
	return v, nil
}

// AddCatalogItem sets foodID's multiplier in the meal. A food appears at most
// once: a second add replaces the multiplier and keeps the existing item.
func (s *CurrentMealService) AddCatalogItem(foodID uint, multiplier float64) (*AddResult, error) {
	res, err := s.AddCatalogItems([]CatalogAdd{{FoodID: foodID, Multiplier: multiplier}})
	if err != nil {
		return nil, err
	}
	return &res[0], nil
}

// AddCatalogAmount is AddCatalogItem with the multiplier derived from an
// amount. unit may be empty for "the food's base unit"; units with no
// conversion to the base unit fall back to one base quantity.
func (s *CurrentMealService) AddCatalogAmount(foodID uint, amount float64, unit entity.Unit) (*AddResult, error) {
	if !positive(amount) {
		return nil, invalid("amount must be > 0")
	}
	f, err := s.Foods.FindByID(foodID)
	if err != nil {
		return nil, storage("find food", err)
	}
	m, err := ResolveMultiplier(amount, unit, f.Portion())
	if err != nil {
		return nil, err
	}
	return s.AddCatalogItem(foodID, m)
}

// AddCatalogItems applies several catalog adds in one transaction with one
// broadcast.
func (s *CurrentMealService) AddCatalogItems(adds []CatalogAdd) ([]AddResult, error) {
	if len(adds) == 0 {
		return nil, invalid("nothing to add")
	}
	for _, a := range adds {
		if !positive(a.Multiplier) {
			return nil, invalid("multiplier must be > 0")
		}
	}

	out := make([]AddResult, 0, len(adds))
	err := s.mutate("add to current meal", func(tx *gorm.DB) (bool, error) {
		foods := s.Foods.WithTx(tx)
		for _, a := range adds {
			ok, err := foods.Exists(a.FoodID)
			if err != nil {
				return false, storage("check food", err)
			}
			if !ok {
				return false, notFound("food %d", a.FoodID)
			}
			row, created, err := s.Repo.UpsertCatalogItem(tx, a.FoodID, a.Multiplier)
			if err != nil {
				return false, storage("add catalog item", err)
			}
			out = append(out, AddResult{ID: row.ID, FoodID: row.FoodID, Multiplier: row.Multiplier, Created: created})
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddTemporaryItem always inserts; temporary items are never merged.
func (s *CurrentMealService) AddTemporaryItem(in TemporaryItemInput) (*AddResult, error) {
	p, err := temporaryPortion(in)
	if err != nil {
		return nil, err
	}
	if !positive(in.Multiplier) {
		return nil, invalid("multiplier must be > 0")
	}

	row := entity.NewTemporaryRow(p, in.Multiplier)
	err = s.mutate("add temporary item", func(tx *gorm.DB) (bool, error) {
		if err := s.Repo.Create(tx, row); err != nil {
			return false, storage("add temporary item", err)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &AddResult{ID: row.ID, IsTemporary: true, Multiplier: row.Multiplier, Created: true}, nil
}

func temporaryPortion(in TemporaryItemInput) (entity.Portion, error) {
	p := entity.Portion{
		Name:       strings.TrimSpace(in.Name),
		BaseAmount: 100,
		BaseUnit:   entity.UnitGrams,
		Protein:    in.Protein,
	}
	if p.Name == "" {
		return p, invalid("name is required")
	}
	if in.BaseAmount != nil {
		p.BaseAmount = *in.BaseAmount
	}
	if !positive(p.BaseAmount) {
		return p, invalid("baseAmount must be > 0")
	}
	if in.BaseUnit != "" {
		u, ok := entity.ParseUnit(in.BaseUnit)
		if !ok {
			return p, invalid("unknown baseUnit %q", in.BaseUnit)
		}
		p.BaseUnit = u
	}
	if in.Calories != nil {
		p.Calories = *in.Calories
	}
	if p.Calories < 0 || math.IsNaN(p.Calories) {
		return p, invalid("calories must be >= 0")
	}
	if p.Protein != nil && (*p.Protein < 0 || math.IsNaN(*p.Protein)) {
		return p, invalid("protein must be >= 0")
	}
	return p, nil
}

// UpdateMultiplier works for both item kinds.
func (s *CurrentMealService) UpdateMultiplier(itemID uint, multiplier float64) error {
	if !positive(multiplier) {
		return invalid("multiplier must be > 0")
	}
	return s.mutate("update item", func(tx *gorm.DB) (bool, error) {
		n, err := s.Repo.UpdateMultiplier(tx, itemID, multiplier)
		if err != nil {
			return false, storage("update item", err)
		}
		if n == 0 {
			return false, notFound("current meal item %d", itemID)
		}
		return true, nil
	})
}

// UpdateAmount sets an item's quantity from an amount in its base unit and
// returns the stored multiplier.
func (s *CurrentMealService) UpdateAmount(itemID uint, amount float64) (float64, error) {
	if !positive(amount) {
		return 0, invalid("amount must be > 0")
	}
	var m float64
	err := s.mutate("update item", func(tx *gorm.DB) (bool, error) {
		row, err := s.Repo.FindItem(tx, itemID)
		if err != nil {
			return false, storage("find item", err)
		}
		li, err := row.LineItem()
		if err != nil {
			return false, storage("find item", err)
		}
		if m, err = AmountToMultiplier(amount, "", li.Source.Portion()); err != nil {
			return false, err
		}
		if _, err := s.Repo.UpdateMultiplier(tx, itemID, m); err != nil {
			return false, storage("update item", err)
		}
		return true, nil
	})
	return m, err
}

// RemoveItem fails with ErrNotFound for unknown ids, including repeats.
func (s *CurrentMealService) RemoveItem(itemID uint) error {
	return s.mutate("remove item", func(tx *gorm.DB) (bool, error) {
		n, err := s.Repo.RemoveItem(tx, itemID)
		if err != nil {
			return false, storage("remove item", err)
		}
		if n == 0 {
			return false, notFound("current meal item %d", itemID)
		}
		return true, nil
	})
}

// Clear empties the meal. It succeeds and broadcasts even when already empty.
func (s *CurrentMealService) Clear() error {
	return s.mutate("clear current meal", func(tx *gorm.DB) (bool, error) {
		if _, err := s.Repo.Clear(tx); err != nil {
			return false, storage("clear current meal", err)
		}
		return true, nil
	})
}

// Swap replaces the meal item named from with the catalog food named to. The
// displayed amount carries over when both share a base unit.
func (s *CurrentMealService) Swap(from, to string) (*SwapResult, error) {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return nil, invalid("swap needs both from and to")
	}
	var res SwapResult
	err := s.mutate("swap item", func(tx *gorm.DB) (bool, error) {
		items, err := s.listItems(tx)
		if err != nil {
			return false, err
		}
		old, ok := pickByName(items, from, func(li entity.LineItem) string { return li.Source.Portion().Name })
		if !ok {
			return false, notFound("no current meal item matches %q", from)
		}
		candidates, err := s.Foods.WithTx(tx).MatchCandidates(to)
		if err != nil {
			return false, storage("search foods", err)
		}
		food, ok := pickByName(candidates, to, func(f entity.Food) string { return f.Name })
		if !ok {
			return false, notFound("no food matches %q", to)
		}

		multiplier := 1.0
		if op := old.Source.Portion(); op.BaseUnit == food.BaseUnit {
			if m, err := ResolveMultiplier(MultiplierToAmount(old.Multiplier, op), op.BaseUnit, food.Portion()); err == nil {
				multiplier = m
			}
		}

		// same food: keep the item where it is
		if id, ok := old.FoodID(); ok && id == food.ID {
			if _, err := s.Repo.UpdateMultiplier(tx, old.ID, multiplier); err != nil {
				return false, storage("update item", err)
			}
			res = SwapResult{Added: &AddResult{ID: old.ID, FoodID: &id, Multiplier: multiplier}}
			return true, nil
		}

		if _, err := s.Repo.RemoveItem(tx, old.ID); err != nil {
			return false, storage("remove item", err)
		}
		row, created, err := s.Repo.UpsertCatalogItem(tx, food.ID, multiplier)
		if err != nil {
			return false, storage("add catalog item", err)
		}
		res = SwapResult{
			RemovedID: old.ID,
			Added:     &AddResult{ID: row.ID, FoodID: row.FoodID, Multiplier: row.Multiplier, Created: created},
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CascadeFoodDelete runs deleteFood and drops the line items that reference
// foodID in the same transaction. Observers get a new view only when the
// meal actually changed.
func (s *CurrentMealService) CascadeFoodDelete(foodID uint, deleteFood func(tx *gorm.DB) error) error {
	return s.mutate("delete food", func(tx *gorm.DB) (bool, error) {
		n, err := s.Repo.RemoveByFood(tx, foodID)
		if err != nil {
			return false, storage("remove items for food", err)
		}
		if err := deleteFood(tx); err != nil {
			return false, err
		}
		return n > 0, nil
	})
}

// mutate runs fn under the write lock in a transaction. When fn reports a
// change the singleton timestamp is bumped in the same transaction and, after
// commit, the new view is published exactly once.
func (s *CurrentMealService) mutate(op string, fn func(tx *gorm.DB) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed bool
	var fnErr error
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if changed, fnErr = fn(tx); fnErr != nil {
			return fnErr
		}
		if changed {
			if err := s.Repo.Touch(tx, s.now()); err != nil {
				fnErr = storage(op, err)
				return fnErr
			}
		}
		return nil
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return storage(op, err)
	}
	if changed {
		s.broadcastLocked()
	}
	return nil
}

// broadcastLocked must be called with mu held so views go out in commit order.
func (s *CurrentMealService) broadcastLocked() {
	if s.Notifier == nil {
		return
	}
	v, err := s.view()
	if err != nil {
		log.Printf("current meal: build view for broadcast: %v", err)
		return
	}
	s.Notifier.Publish(EventMealUpdated, v)
}

func (s *CurrentMealService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
