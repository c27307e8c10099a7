package controllers

import (
	"net/http"

	"github.com/Waqasktk456/whichFOOD-EXAM/services"

	"github.com/gin-gonic/gin"
)

type FoodController struct {
	Foods *services.FoodService
}

func NewFoodController(fs *services.FoodService) *FoodController {
	return &FoodController{Foods: fs}
}

// GET /api/food/search?query=apple
func (fc *FoodController) Search(c *gin.Context) {
	q := c.Query("query")
	if q == "" {
		q = c.Query("q")
	}
	out, err := fc.Foods.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/food/recognize  { "image": "data:image/jpeg;base64,..." }
func (fc *FoodController) Recognize(c *gin.Context) {
	var req struct {
		Image string `json:"image" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	out, err := fc.Foods.Recognize(c.Request.Context(), req.Image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
