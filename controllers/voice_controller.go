package controllers

import (
	"calorie-assistant/pkg/resp"
	"calorie-assistant/services"

	"github.com/gin-gonic/gin"
)

type VoiceController struct {
	Voice *services.VoiceService
	Meal  *services.CurrentMealService
}

func NewVoiceController(v *services.VoiceService, m *services.CurrentMealService) *VoiceController {
	return &VoiceController{Voice: v, Meal: m}
}

type voiceBody struct {
	Text string `json:"text" binding:"required"`
}

// POST /api/parse-voice-food
func (h *VoiceController) Parse(c *gin.Context) {
	var body voiceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, "missing or invalid text")
		return
	}
	out, err := h.Voice.Resolve(c.Request.Context(), body.Text)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// POST /api/current-meal/voice
// Resolves the transcript and applies it: a swap, or every matched food.
func (h *VoiceController) Apply(c *gin.Context) {
	var body voiceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, "missing or invalid text")
		return
	}
	out, err := h.Voice.Resolve(c.Request.Context(), body.Text)
	if err != nil {
		resp.Error(c, err)
		return
	}

	if out.Swap != nil {
		swapped, err := h.Meal.Swap(out.Swap.From, out.Swap.To)
		if err != nil {
			resp.Error(c, err)
			return
		}
		resp.OK(c, gin.H{"result": out, "swapped": swapped})
		return
	}

	var added []services.AddResult
	if adds := out.Matched(); len(adds) > 0 {
		if added, err = h.Meal.AddCatalogItems(adds); err != nil {
			resp.Error(c, err)
			return
		}
	}
	resp.OK(c, gin.H{"result": out, "added": added})
}
