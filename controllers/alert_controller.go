package controllers

import (
	"net/http"

	"github.com/Waqasktk456/whichFOOD-EXAM/services"

	"github.com/gin-gonic/gin"
)

type AlertController struct {
	Alerts *services.AlertBus
}

func NewAlertController(ab *services.AlertBus) *AlertController {
	return &AlertController{Alerts: ab}
}

// GET /api/alerts?unread=true
func (ac *AlertController) List(c *gin.Context) {
	alerts, err := ac.Alerts.List(c.Request.Context(), c.GetUint("userID"), c.Query("unread") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// POST /api/alerts/:id/read
func (ac *AlertController) MarkRead(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ac.Alerts.MarkRead(c.Request.Context(), c.GetUint("userID"), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "alert marked as read"})
}
