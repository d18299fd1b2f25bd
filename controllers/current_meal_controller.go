package controllers

import (
	"net/http"

	"calorie-assistant/entity"
	"calorie-assistant/pkg/resp"
	"calorie-assistant/services"
	"calorie-assistant/utils"

	"github.com/gin-gonic/gin"
)

type CurrentMealController struct{ Svc *services.CurrentMealService }

func NewCurrentMealController(s *services.CurrentMealService) *CurrentMealController {
	return &CurrentMealController{Svc: s}
}

type tempFoodBody struct {
	Name       string   `json:"name"`
	BaseAmount *float64 `json:"baseAmount"`
	BaseUnit   string   `json:"baseUnit"`
	Calories   *float64 `json:"calories"`
	Protein    *float64 `json:"protein"`
}

type addItemBody struct {
	FoodID      uint          `json:"foodId"`
	Multiplier  *float64      `json:"multiplier"`
	Servings    *float64      `json:"servings"` // old name for multiplier
	Amount      *float64      `json:"amount"`
	Unit        string        `json:"unit"`
	IsTemporary bool          `json:"isTemporary"`
	Food        *tempFoodBody `json:"food"`
}

func (b addItemBody) multiplier() *float64 {
	if b.Multiplier != nil {
		return b.Multiplier
	}
	return b.Servings
}

// GET /api/current-meal
func (h *CurrentMealController) Get(c *gin.Context) {
	v, err := h.Svc.View()
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, v)
}

// POST /api/current-meal/items
func (h *CurrentMealController) Add(c *gin.Context) {
	var body addItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	if body.IsTemporary {
		if body.Food == nil {
			resp.BadRequest(c, "temporary items need a food")
			return
		}
		m := 1.0
		if p := body.multiplier(); p != nil {
			m = *p
		}
		out, err := h.Svc.AddTemporaryItem(services.TemporaryItemInput{
			Name:       body.Food.Name,
			BaseAmount: body.Food.BaseAmount,
			BaseUnit:   body.Food.BaseUnit,
			Calories:   body.Food.Calories,
			Protein:    body.Food.Protein,
			Multiplier: m,
		})
		if err != nil {
			resp.Error(c, err)
			return
		}
		resp.Created(c, out)
		return
	}

	if body.FoodID == 0 {
		resp.BadRequest(c, "foodId is required")
		return
	}
	var (
		out *services.AddResult
		err error
	)
	switch {
	case body.multiplier() != nil:
		out, err = h.Svc.AddCatalogItem(body.FoodID, *body.multiplier())
	case body.Amount != nil:
		var unit entity.Unit
		if body.Unit != "" {
			u, ok := entity.ParseUnit(body.Unit)
			if !ok {
				resp.BadRequest(c, "unit must be grams, ml or servings")
				return
			}
			unit = u
		}
		out, err = h.Svc.AddCatalogAmount(body.FoodID, *body.Amount, unit)
	default:
		resp.BadRequest(c, "multiplier or amount is required")
		return
	}
	if err != nil {
		resp.Error(c, err)
		return
	}
	if out.Created {
		resp.Created(c, out)
		return
	}
	resp.OK(c, out)
}

// PUT /api/current-meal/items/:id
func (h *CurrentMealController) Update(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid id")
		return
	}
	var body struct {
		Multiplier *float64 `json:"multiplier"`
		Servings   *float64 `json:"servings"`
		Amount     *float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if body.Multiplier == nil {
		body.Multiplier = body.Servings
	}

	var m float64
	switch {
	case body.Multiplier != nil:
		m = *body.Multiplier
		if err := h.Svc.UpdateMultiplier(id, m); err != nil {
			resp.Error(c, err)
			return
		}
	case body.Amount != nil:
		var err error
		if m, err = h.Svc.UpdateAmount(id, *body.Amount); err != nil {
			resp.Error(c, err)
			return
		}
	default:
		resp.BadRequest(c, "multiplier or amount is required")
		return
	}
	resp.OK(c, gin.H{"id": id, "multiplier": m})
}

// DELETE /api/current-meal/items/:id
func (h *CurrentMealController) Remove(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid id")
		return
	}
	if err := h.Svc.RemoveItem(id); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}

// DELETE /api/current-meal
func (h *CurrentMealController) Clear(c *gin.Context) {
	if err := h.Svc.Clear(); err != nil {
		resp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /api/current-meal/swap
func (h *CurrentMealController) Swap(c *gin.Context) {
	var body services.SwapCommand
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := h.Svc.Swap(body.From, body.To)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}
