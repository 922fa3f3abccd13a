package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/slug-events/backend/config"
	"github.com/slug-events/backend/internal/handlers"
	"github.com/slug-events/backend/internal/middleware"
	"github.com/slug-events/backend/internal/store"
)

func Start() error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	s, err := config.InitStore(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %v", err)
	}
	defer s.Close()

	r := NewRouter(s, cfg.FrontendURL)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	log.Info().Str("port", port).Msg("server starting")
	return r.Run(":" + port)
}

// NewRouter wires the full route table onto a fresh engine. Split out from
// Start so tests can drive the real routes against a memory store.
func NewRouter(s store.Store, frontendURL string) *gin.Engine {
	r := gin.Default()

	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.StoreMiddleware(s))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello World")
	})

	r.GET("/login", handlers.Login)
	r.GET("/authorize", handlers.Authorize)
	r.GET("/logout", handlers.Logout)

	r.GET("/state", handlers.GetState)
	r.GET("/filter_events/:category", handlers.FilterEvents)
	r.GET("/filter_times/:timestamp", handlers.FilterTimes)

	protected := r.Group("/")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.POST("/create_event", handlers.CreateEvent)
		protected.POST("/update_event", handlers.UpdateEvent)
		protected.DELETE("/delete_event/:event_id", handlers.DeleteEvent)

		protected.POST("/rsvp/:event_id", handlers.Rsvp)
		protected.DELETE("/unrsvp/:event_id", handlers.Unrsvp)
		protected.GET("/rsvps/:event_id", handlers.ListRsvps)

		protected.POST("/add_to_calendar/:event_id", handlers.AddToCalendar)
		protected.DELETE("/remove_from_calendar/:event_id", handlers.RemoveFromCalendar)
	}

	return r
}
