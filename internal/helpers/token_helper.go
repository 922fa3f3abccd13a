package helpers

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TokenUser is the identity block of the bearer token payload.
type TokenUser struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// GoogleCredentials carries the delegated Google tokens embedded in the
// bearer token so calendar calls can act on the user's behalf.
type GoogleCredentials struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	TokenURI     string `json:"token_uri"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type TokenClaims struct {
	User        TokenUser          `json:"user"`
	Credentials *GoogleCredentials `json:"credentials,omitempty"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		secret = "supersecurejwtkey"
	}
	return []byte(secret)
}

// IssueToken signs an HS256 bearer token for the given user, optionally
// embedding their delegated Google credentials.
func IssueToken(user TokenUser, credentials *GoogleCredentials) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		User:        user,
		Credentials: credentials,
	})
	return token.SignedString(jwtSecret())
}

// DecodeToken verifies a bearer token string. Any failure (bad signature,
// wrong algorithm, malformed token) yields nil rather than an error: an
// unverifiable caller is simply anonymous.
func DecodeToken(tokenString string) *TokenClaims {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return jwtSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil
	}
	return claims
}

// AuthenticateRequest extracts and verifies the bearer token from the
// Authorization header. Returns nil when the header is missing, lacks the
// "Bearer " prefix or the token does not verify.
func AuthenticateRequest(c *gin.Context) *TokenClaims {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil
	}
	return DecodeToken(strings.TrimPrefix(authHeader, "Bearer "))
}

// GetUserEmail returns the authenticated caller's email, or "" when the
// request carries no valid identity.
func GetUserEmail(c *gin.Context) string {
	claims := AuthenticateRequest(c)
	if claims == nil {
		return ""
	}
	return claims.User.Email
}

// GetUserCredentials returns the delegated Google credentials from the
// bearer token, or nil when absent.
func GetUserCredentials(c *gin.Context) *GoogleCredentials {
	claims := AuthenticateRequest(c)
	if claims == nil {
		return nil
	}
	return claims.Credentials
}

var calendarKeyReplacer = strings.NewReplacer(".", "_", "@", "_at_")

// CalendarKey derives the calendar_events map key for a participant email.
// Dots are not allowed in stored field paths, hence the substitution; the
// encoding is not collision-proof for unusual addresses and is kept as the
// original frontend expects it.
func CalendarKey(email string) string {
	return calendarKeyReplacer.Replace(email)
}
