package controllers

import (
	"calorie-assistant/pkg/resp"
	"calorie-assistant/services"
	"calorie-assistant/utils"

	"github.com/gin-gonic/gin"
)

type SavedMealController struct{ Svc *services.SavedMealService }

func NewSavedMealController(s *services.SavedMealService) *SavedMealController {
	return &SavedMealController{Svc: s}
}

// GET /api/saved-meals?search=
func (h *SavedMealController) List(c *gin.Context) {
	meals, err := h.Svc.List(c.Query("search"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, meals)
}

// GET /api/saved-meals/:id
func (h *SavedMealController) Get(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid id")
		return
	}
	m, err := h.Svc.Get(id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, m)
}

// POST /api/saved-meals
// Without items the current meal is snapshotted.
func (h *SavedMealController) Create(c *gin.Context) {
	var body struct {
		Name  string                     `json:"name" binding:"required"`
		Items []services.SavedMealItemIn `json:"items" binding:"dive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	var err error
	var out any
	if len(body.Items) == 0 {
		out, err = h.Svc.CreateFromCurrentMeal(body.Name)
	} else {
		out, err = h.Svc.Create(body.Name, body.Items)
	}
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, out)
}

// DELETE /api/saved-meals/:id
func (h *SavedMealController) Delete(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid id")
		return
	}
	if err := h.Svc.Delete(id); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}

// POST /api/saved-meals/:id/apply
func (h *SavedMealController) Apply(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid id")
		return
	}
	out, err := h.Svc.Apply(id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}
