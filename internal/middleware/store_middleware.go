package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/slug-events/backend/internal/store"
)

// StoreMiddleware injects the document-store handle into the request
// context so handlers never reach for package-level state.
func StoreMiddleware(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("store", s)
		c.Next()
	}
}

func GetStore(c *gin.Context) store.Store {
	s, exists := c.Get("store")
	if !exists {
		return nil
	}
	return s.(store.Store)
}
