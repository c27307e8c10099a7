package routes

import (
	"net/http"

	"github.com/Waqasktk456/whichFOOD-EXAM/controllers"
	"github.com/Waqasktk456/whichFOOD-EXAM/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Deps is everything the router needs. Nil controllers leave their routes out.
type Deps struct {
	Log    zerolog.Logger
	Tokens middlewares.TokenParser
	Debug  bool

	Users           *controllers.UserController
	Meals           *controllers.MealController
	Recommendations *controllers.RecommendationController
	Foods           *controllers.FoodController
	Health          *controllers.HealthController
	Alerts          *controllers.AlertController
	Realtime        *controllers.RealtimeController
	Devices         *controllers.DeviceController
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(d.Log))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api")
	auth := middlewares.AuthMiddleware(d.Tokens)

	if d.Users != nil {
		users := api.Group("/users")
		users.POST("/register", d.Users.Register)
		users.POST("/login", d.Users.Login)
		users.GET("/profile", auth, d.Users.GetProfile)
		users.PUT("/profile", auth, d.Users.UpdateProfile)
	}

	meals := api.Group("/meals", auth)
	if d.Recommendations != nil {
		// registered before /:id so the static segment wins
		meals.GET("/recommendations", d.Recommendations.Get)
	}
	if d.Meals != nil {
		meals.POST("", d.Meals.Log)
		meals.GET("", d.Meals.List)
		meals.GET("/stats", d.Meals.Stats)
		meals.GET("/recent", d.Meals.Recent)
		meals.GET("/:id", d.Meals.Get)
		meals.PUT("/:id", d.Meals.Update)
		meals.DELETE("/:id", d.Meals.Delete)
	}

	if d.Foods != nil {
		food := api.Group("/food", auth)
		food.GET("/search", d.Foods.Search)
		food.POST("/recognize", d.Foods.Recognize)
	}

	if d.Health != nil {
		health := api.Group("/health", auth)
		health.POST("", d.Health.Add)
		health.GET("", d.Health.List)
		health.GET("/stats", d.Health.Stats)
		health.GET("/:id", d.Health.Get)
		health.PUT("/:id", d.Health.Update)
		health.DELETE("/:id", d.Health.Delete)
	}

	alerts := api.Group("/alerts", auth)
	if d.Realtime != nil {
		alerts.GET("/ws", d.Realtime.AlertsWS)
	}
	if d.Alerts != nil {
		alerts.GET("", d.Alerts.List)
		alerts.POST("/:id/read", d.Alerts.MarkRead)
	}

	if d.Devices != nil {
		dev := api.Group("/devices", auth)
		dev.POST("", d.Devices.Register)
		dev.POST("/notifications", d.Devices.Toggle)
		if d.Debug {
			dev.POST("/test", d.Devices.PushTest)
		}
	}

	return r
}
