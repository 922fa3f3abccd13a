package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/slug-events/backend/internal/helpers"
	"github.com/slug-events/backend/internal/middleware"
	"github.com/slug-events/backend/internal/models"
)

func CreateEvent(c *gin.Context) {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User email not found in token.")
		return
	}

	var eventData map[string]any
	if err := c.ShouldBindJSON(&eventData); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid JSON format.")
		return
	}

	event, verr := models.NewEvent(eventData, userEmail)
	if verr != nil {
		helpers.RespondWithError(c, verr.Status, verr.Message)
		return
	}

	s := middleware.GetStore(c)
	if s == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Store connection not found.")
		return
	}

	if err := event.Create(c.Request.Context(), s); err != nil {
		log.Error().Err(err).Msg("event create failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database error: failed to create event.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Event created successfully",
		"eventId":       event.EventID,
		"firestoreData": event.ToMap(),
	})
}

func UpdateEvent(c *gin.Context) {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User email not found in token.")
		return
	}

	var eventData map[string]any
	if err := c.ShouldBindJSON(&eventData); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid JSON format.")
		return
	}

	eventID, _ := eventData["eventId"].(string)
	if eventID == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing event ID.")
		return
	}

	s := middleware.GetStore(c)
	if s == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Store connection not found.")
		return
	}

	event, err := models.GetEvent(c.Request.Context(), s, eventID)
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("event fetch failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database error: failed to fetch event.")
		return
	}
	if event == nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}

	if event.OwnerEmail != userEmail {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to modify this event.")
		return
	}

	if verr := event.ApplyUpdate(eventData); verr != nil {
		helpers.RespondWithError(c, verr.Status, verr.Message)
		return
	}

	if err := event.Update(c.Request.Context(), s); err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("event update failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database error: failed to update event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully",
		"eventId": event.EventID,
	})
}

func DeleteEvent(c *gin.Context) {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User email not found in token.")
		return
	}

	eventID := c.Param("event_id")

	s := middleware.GetStore(c)
	if s == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Store connection not found.")
		return
	}

	event, err := models.GetEvent(c.Request.Context(), s, eventID)
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("event fetch failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database error: failed to fetch event.")
		return
	}
	if event == nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}

	if event.OwnerEmail != userEmail {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to delete this event.")
		return
	}

	if err := event.Delete(c.Request.Context(), s); err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("event delete failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database error: failed to delete event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}
