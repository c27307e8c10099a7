package controllers

import (
	"net/http"
	"strconv"

	"github.com/Waqasktk456/whichFOOD-EXAM/services"

	"github.com/gin-gonic/gin"
)

type RecommendationController struct {
	Recs *services.RecommendationService
}

func NewRecommendationController(rs *services.RecommendationService) *RecommendationController {
	return &RecommendationController{Recs: rs}
}

// GET /api/meals/recommendations?mealType=&limit=
func (rc *RecommendationController) Get(c *gin.Context) {
	req := services.RecommendationRequest{MealType: c.Query("mealType")}
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		req.Limit = n
	}

	res, err := rc.Recs.Recommend(c.Request.Context(), c.GetUint("userID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
