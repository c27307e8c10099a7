package controllers

import (
	"net/http"

	"github.com/Waqasktk456/whichFOOD-EXAM/models"
	"github.com/Waqasktk456/whichFOOD-EXAM/services"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Health *services.HealthService
}

func NewHealthController(hs *services.HealthService) *HealthController {
	return &HealthController{Health: hs}
}

// POST /api/health
func (hc *HealthController) Add(c *gin.Context) {
	var req services.HealthMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	v, err := hc.Health.Record(c.Request.Context(), c.GetUint("userID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// GET /api/health?type=&startDate=&endDate=
func (hc *HealthController) List(c *gin.Context) {
	var f services.MetricFilter
	if s := c.Query("type"); s != "" {
		mt, err := models.ParseMetricType(s)
		if err != nil {
			respondError(c, err)
			return
		}
		f.Type = mt
	}
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
		f.To = t
	}
	out, err := hc.Health.List(c.Request.Context(), c.GetUint("userID"), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/health/:id
func (hc *HealthController) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	v, err := hc.Health.Get(c.Request.Context(), c.GetUint("userID"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// PUT /api/health/:id
func (hc *HealthController) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.HealthMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	v, err := hc.Health.Update(c.Request.Context(), c.GetUint("userID"), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// DELETE /api/health/:id
func (hc *HealthController) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := hc.Health.Delete(c.Request.Context(), c.GetUint("userID"), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "health metric removed"})
}

// GET /api/health/stats?type=weight&period=week|month|year
func (hc *HealthController) Stats(c *gin.Context) {
	st, err := hc.Health.Stats(c.Request.Context(), c.GetUint("userID"), c.Query("type"), c.DefaultQuery("period", "month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
