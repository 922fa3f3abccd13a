package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/slug-events/backend/internal/helpers"
	"github.com/slug-events/backend/internal/middleware"
)

// calendarService builds a Google Calendar client from the delegated
// credentials carried in the caller's bearer token.
func calendarService(c *gin.Context, credentials *helpers.GoogleCredentials) (*calendar.Service, error) {
	cfg := &oauth2.Config{
		ClientID:     credentials.ClientID,
		ClientSecret: credentials.ClientSecret,
		Endpoint:     google.Endpoint,
	}
	token := &oauth2.Token{
		AccessToken:  credentials.Token,
		RefreshToken: credentials.RefreshToken,
	}
	return calendar.NewService(
		c.Request.Context(),
		option.WithTokenSource(cfg.TokenSource(c.Request.Context(), token)),
	)
}

// AddToCalendar inserts the event into the caller's primary Google
// Calendar and records the remote event id on the event document.
func AddToCalendar(c *gin.Context) {
	userEmail := middleware.GetUserEmail(c)
	credentials := middleware.GetGoogleCredentials(c)
	if userEmail == "" || credentials == nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Missing Google credentials.")
		return
	}

	event := loadEvent(c)
	if event == nil {
		return
	}

	service, err := calendarService(c, credentials)
	if err != nil {
		log.Error().Err(err).Msg("calendar service init failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to connect to calendar service.")
		return
	}

	remote := &calendar.Event{
		Summary:     event.Title,
		Description: event.Description,
		Location:    event.Address,
		Start: &calendar.EventDateTime{
			DateTime: event.StartTime.Format(time.RFC3339),
			TimeZone: "UTC",
		},
		End: &calendar.EventDateTime{
			DateTime: event.EndTime.Format(time.RFC3339),
			TimeZone: "UTC",
		},
	}

	created, err := service.Events.Insert("primary", remote).Do()
	if err != nil {
		log.Error().Err(err).Str("event_id", event.EventID).Msg("calendar insert failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Calendar error: failed to add event.")
		return
	}

	s := middleware.GetStore(c)
	if err := event.SetCalendarLink(c.Request.Context(), s, userEmail, created.Id); err != nil {
		log.Error().Err(err).Str("event_id", event.EventID).Msg("calendar link write failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database error: failed to record calendar link.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Event added to calendar successfully",
		"calendarEventId": created.Id,
	})
}

// RemoveFromCalendar deletes the linked Google Calendar event and drops
// the link entry from the event document.
func RemoveFromCalendar(c *gin.Context) {
	userEmail := middleware.GetUserEmail(c)
	credentials := middleware.GetGoogleCredentials(c)
	if userEmail == "" || credentials == nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Missing Google credentials.")
		return
	}

	event := loadEvent(c)
	if event == nil {
		return
	}

	remoteID, ok := event.CalendarLink(userEmail)
	if !ok {
		helpers.RespondWithError(c, http.StatusNotFound, "Calendar event not found.")
		return
	}

	service, err := calendarService(c, credentials)
	if err != nil {
		log.Error().Err(err).Msg("calendar service init failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to connect to calendar service.")
		return
	}

	if err := service.Events.Delete("primary", remoteID).Do(); err != nil {
		log.Error().Err(err).Str("event_id", event.EventID).Msg("calendar delete failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Calendar error: failed to remove event.")
		return
	}

	s := middleware.GetStore(c)
	if err := event.RemoveCalendarLink(c.Request.Context(), s, userEmail); err != nil {
		log.Error().Err(err).Str("event_id", event.EventID).Msg("calendar link removal failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database error: failed to remove calendar link.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event removed from calendar successfully"})
}
