package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Waqasktk456/whichFOOD-EXAM/models"
	"github.com/Waqasktk456/whichFOOD-EXAM/services"

	"github.com/gin-gonic/gin"
)

type MealController struct {
	Meals *services.MealService
}

func NewMealController(ms *services.MealService) *MealController {
	return &MealController{Meals: ms}
}

// POST /api/meals
func (mc *MealController) Log(c *gin.Context) {
	var req services.MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	meal, err := mc.Meals.AddMeal(c.Request.Context(), c.GetUint("userID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

// parseDay accepts RFC3339 or a bare YYYY-MM-DD (read as UTC midnight).
func parseDay(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", services.ErrInvalidQuery, s)
	}
	return t, nil
}

// GET /api/meals?startDate=&endDate=&mealType=
func (mc *MealController) List(c *gin.Context) {
	var f services.MealFilter
	if s := c.Query("startDate"); s != "" {
		t, err := parseDay(s)
		if err != nil {
			respondError(c, err)
			return
		}
		f.From = t
	}
	if s := c.Query("endDate"); s != "" {
		t, err := parseDay(s)
		if err != nil {
			respondError(c, err)
			return
		}
		// a bare end date includes that whole day
		if len(s) == len("2006-01-02") {
			t = t.AddDate(0, 0, 1)
		}
		f.To = t
	}
	if s := c.Query("mealType"); s != "" {
		mt, err := models.ParseMealType(s)
		if err != nil {
			respondError(c, err)
			return
		}
		f.Type = mt
	}
	if !f.From.IsZero() && f.To.IsZero() {
		f.To = time.Now().UTC()
	}

	meals, err := mc.Meals.ListMeals(c.Request.Context(), c.GetUint("userID"), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

// GET /api/meals/:id
func (mc *MealController) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	meal, err := mc.Meals.GetMeal(c.Request.Context(), c.GetUint("userID"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

// PUT /api/meals/:id
func (mc *MealController) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	meal, err := mc.Meals.UpdateMeal(c.Request.Context(), c.GetUint("userID"), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

// DELETE /api/meals/:id
func (mc *MealController) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := mc.Meals.DeleteMeal(c.Request.Context(), c.GetUint("userID"), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meal removed"})
}

// GET /api/meals/stats?period=today|week|month
func (mc *MealController) Stats(c *gin.Context) {
	st, err := mc.Meals.Stats(c.Request.Context(), c.GetUint("userID"), c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// GET /api/meals/recent?limit=
func (mc *MealController) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "3"))
	items, err := mc.Meals.ListRecentMealItems(c.Request.Context(), c.GetUint("userID"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
