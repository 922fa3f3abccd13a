package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/slug-events/backend/internal/helpers"
	"github.com/slug-events/backend/internal/middleware"
	"github.com/slug-events/backend/internal/models"
)

// GetState returns every active event for the map view. Events past their
// end time are marked expired and dropped in the same pass.
func GetState(c *gin.Context) {
	s := middleware.GetStore(c)
	if s == nil {
		helpers.RespondWithStateError(c, http.StatusInternalServerError, "Store connection not found.")
		return
	}

	events, err := models.NewEventQuery(s).ListActive(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("state listing failed")
		helpers.RespondWithStateError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"state":  gin.H{"events": events},
	})
}

func FilterEvents(c *gin.Context) {
	category := c.Param("category")

	s := middleware.GetStore(c)
	if s == nil {
		helpers.RespondWithStateError(c, http.StatusInternalServerError, "Store connection not found.")
		return
	}

	events, err := models.NewEventQuery(s).FilterByCategory(c.Request.Context(), category)
	if err != nil {
		log.Error().Err(err).Str("category", category).Msg("category filter failed")
		helpers.RespondWithStateError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"state":  gin.H{"events": events},
	})
}

// FilterTimes filters active events around a minute-precision timestamp.
// A malformed timestamp surfaces as a 500 like any store failure; the
// frontend treats both the same.
func FilterTimes(c *gin.Context) {
	timestamp := c.Param("timestamp")

	s := middleware.GetStore(c)
	if s == nil {
		helpers.RespondWithStateError(c, http.StatusInternalServerError, "Store connection not found.")
		return
	}

	events, err := models.NewEventQuery(s).FilterByTime(c.Request.Context(), timestamp)
	if err != nil {
		log.Error().Err(err).Str("timestamp", timestamp).Msg("time filter failed")
		helpers.RespondWithStateError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"state":  gin.H{"events": events},
	})
}
