package controllers

import (
	"calorie-assistant/pkg/resp"
	"calorie-assistant/services"
	"calorie-assistant/utils"

	"github.com/gin-gonic/gin"
)

type FoodController struct{ Svc *services.FoodService }

func NewFoodController(s *services.FoodService) *FoodController { return &FoodController{Svc: s} }

// GET /api/foods?search=
func (h *FoodController) List(c *gin.Context) {
	foods, err := h.Svc.List(c.Query("search"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, foods)
}

// GET /api/foods/:id
func (h *FoodController) Get(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid id")
		return
	}
	f, err := h.Svc.Get(id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, f)
}

// POST /api/foods
func (h *FoodController) Create(c *gin.Context) {
	var in services.FoodInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	f, err := h.Svc.Create(in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, f)
}

// PUT /api/foods/:id
func (h *FoodController) Update(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid id")
		return
	}
	var in services.FoodInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	f, err := h.Svc.Update(id, in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, f)
}

// DELETE /api/foods/:id
func (h *FoodController) Delete(c *gin.Context) {
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
