package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/slug-events/backend/internal/helpers"
	"github.com/slug-events/backend/internal/middleware"
	"github.com/slug-events/backend/internal/models"
)

// loadEvent fetches the event named in the path, writing the error
// response itself when the event cannot be served.
func loadEvent(c *gin.Context) *models.Event {
	eventID := c.Param("event_id")

	s := middleware.GetStore(c)
	if s == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Store connection not found.")
		return nil
	}

	event, err := models.GetEvent(c.Request.Context(), s, eventID)
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("event fetch failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database error: failed to fetch event.")
		return nil
	}
	if event == nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return nil
	}
	return event
}

// Rsvp records the caller's RSVP. Callers RSVP only for themselves;
// repeating the call overwrites the existing record.
func Rsvp(c *gin.Context) {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User email not found in token.")
		return
	}

	event := loadEvent(c)
	if event == nil {
		return
	}

	s := middleware.GetStore(c)
	if err := event.AddRSVP(c.Request.Context(), s, userEmail); err != nil {
		log.Error().Err(err).Str("event_id", event.EventID).Msg("rsvp add failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database error: failed to add RSVP.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "RSVP added successfully"})
}

func Unrsvp(c *gin.Context) {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User email not found in token.")
		return
	}

	event := loadEvent(c)
	if event == nil {
		return
	}

	s := middleware.GetStore(c)
	if err := event.RemoveRSVP(c.Request.Context(), s, userEmail); err != nil {
		log.Error().Err(err).Str("event_id", event.EventID).Msg("rsvp remove failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database error: failed to remove RSVP.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "RSVP removed successfully"})
}

func ListRsvps(c *gin.Context) {
	event := loadEvent(c)
	if event == nil {
		return
	}

	s := middleware.GetStore(c)
	rsvps, err := event.RSVPs(c.Request.Context(), s)
	if err != nil {
		log.Error().Err(err).Str("event_id", event.EventID).Msg("rsvp list failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database error: failed to list RSVPs.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rsvps": rsvps})
}
