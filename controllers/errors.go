package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/Waqasktk456/whichFOOD-EXAM/models"
	"github.com/Waqasktk456/whichFOOD-EXAM/nutrition"
	"github.com/Waqasktk456/whichFOOD-EXAM/services"
	"github.com/Waqasktk456/whichFOOD-EXAM/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// statusClientClosedRequest is nginx's code for a caller that went away
// before the response was ready.
const statusClientClosedRequest = 499

var errorStatus = []struct {
	err    error
	status int
}{
	{nutrition.ErrInvalidProfile, http.StatusBadRequest},
	{nutrition.ErrInvalidActivityLevel, http.StatusBadRequest},
	{nutrition.ErrInvalidGoal, http.StatusBadRequest},
	{nutrition.ErrInvalidMealType, http.StatusBadRequest},
	{models.ErrInvalidMeal, http.StatusBadRequest},
	{models.ErrInvalidNutrients, http.StatusBadRequest},
	{models.ErrInvalidMetric, http.StatusBadRequest},
	{services.ErrInvalidQuery, http.StatusBadRequest},
	{services.ErrUnknownPlatform, http.StatusBadRequest},
	{utils.ErrInvalidImage, http.StatusBadRequest},

	{services.ErrInvalidCredentials, http.StatusUnauthorized},
	{utils.ErrInvalidToken, http.StatusUnauthorized},

	{services.ErrUserNotFound, http.StatusNotFound},
	{services.ErrMealNotFound, http.StatusNotFound},
	{services.ErrMetricNotFound, http.StatusNotFound},
	{services.ErrAlertNotFound, http.StatusNotFound},
	{services.ErrNoLabels, http.StatusNotFound},

	{services.ErrEmailTaken, http.StatusConflict},

	{services.ErrProviderRequest, http.StatusBadGateway},

	{services.ErrPushNotEnabled, http.StatusServiceUnavailable},
	{services.ErrUploadUnavailable, http.StatusServiceUnavailable},
	{services.ErrRecognitionUnavailable, http.StatusServiceUnavailable},

	{context.Canceled, statusClientClosedRequest},
}

// StatusFor maps a service error to its HTTP status; unknown errors are 500.
func StatusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// respondError writes {"error": msg}. Internal errors are logged and hidden
// behind a generic message.
func respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		if status == http.StatusInternalServerError {
			c.JSON(status, gin.H{"error": "internal server error"})
			return
		}
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// idParam reads the :id path parameter.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
