package routes

import (
	"calorie-assistant/configs"
	"calorie-assistant/controllers"
	"calorie-assistant/middlewares"
	"calorie-assistant/repository"
	"calorie-assistant/services"
	"calorie-assistant/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the wired services behind the router, exposed for tests.
type Deps struct {
	Hub   *ws.MealHub
	Meal  *services.CurrentMealService
	Foods *services.FoodService
	Saved *services.SavedMealService
	Voice *services.VoiceService
}

// NewDeps wires repositories and services onto db. ex may be nil when voice
// extraction is not configured.
func NewDeps(db *gorm.DB, hub *ws.MealHub, ex services.Extractor) *Deps {
	foodRepo := repository.NewFoodRepository(db)
	mealRepo := repository.NewCurrentMealRepository(db)
	savedRepo := repository.NewSavedMealRepository(db)

	meal := services.NewCurrentMealService(db, mealRepo, foodRepo, hub)
	return &Deps{
		Hub:   hub,
		Meal:  meal,
		Foods: services.NewFoodService(db, foodRepo, savedRepo, meal, hub),
		Saved: services.NewSavedMealService(db, savedRepo, foodRepo, meal),
		Voice: services.NewVoiceService(ex, foodRepo),
	}
}

func RegisterRoutes(r *gin.Engine, d *Deps, cfg *configs.Config) {
	r.Use(middlewares.CORSMiddleware(cfg.FrontendOrigin))
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	mealCtrl := controllers.NewCurrentMealController(d.Meal)
	foodCtrl := controllers.NewFoodController(d.Foods)
	savedCtrl := controllers.NewSavedMealController(d.Saved)
	voiceCtrl := controllers.NewVoiceController(d.Voice, d.Meal)

	api := r.Group("/api")

	foods := api.Group("/foods")
	{
		foods.GET("", foodCtrl.List)
		foods.POST("", foodCtrl.Create)
		foods.GET("/:id", foodCtrl.Get)
		foods.PUT("/:id", foodCtrl.Update)
		foods.DELETE("/:id", foodCtrl.Delete)
	}

	saved := api.Group("/saved-meals")
	{
		saved.GET("", savedCtrl.List)
		saved.POST("", savedCtrl.Create)
		saved.GET("/:id", savedCtrl.Get)
		saved.DELETE("/:id", savedCtrl.Delete)
		saved.POST("/:id/apply", savedCtrl.Apply)
	}

	meal := api.Group("/current-meal")
	{
		meal.GET("", mealCtrl.Get)
		meal.DELETE("", mealCtrl.Clear)
		meal.POST("/items", mealCtrl.Add)
		meal.PUT("/items/:id", mealCtrl.Update)
		meal.DELETE("/items/:id", mealCtrl.Remove)
		meal.POST("/swap", mealCtrl.Swap)
		meal.POST("/voice", voiceCtrl.Apply)
	}

	api.POST("/parse-voice-food", voiceCtrl.Parse)

	r.GET("/ws/current-meal", d.Hub.HandleWebSocket)
}
