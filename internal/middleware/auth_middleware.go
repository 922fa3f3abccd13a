package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slug-events/backend/internal/helpers"
)

// JWTAuthMiddleware rejects requests without a verified bearer token and
// exposes the caller's email and delegated credentials to handlers.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := helpers.AuthenticateRequest(c)
		if claims == nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Missing or invalid token.")
			c.Abort()
			return
		}

		c.Set("user_email", claims.User.Email)
		if claims.Credentials != nil {
			c.Set("google_credentials", claims.Credentials)
		}
		c.Next()
	}
}

// GetUserEmail returns the authenticated caller's email set by
// JWTAuthMiddleware, or "" on an unauthenticated request.
func GetUserEmail(c *gin.Context) string {
	email, exists := c.Get("user_email")
	if !exists {
		return ""
	}
	return email.(string)
}

// GetGoogleCredentials returns the delegated credentials set by
// JWTAuthMiddleware, or nil when the token carried none.
func GetGoogleCredentials(c *gin.Context) *helpers.GoogleCredentials {
	creds, exists := c.Get("google_credentials")
	if !exists {
		return nil
	}
	return creds.(*helpers.GoogleCredentials)
}
