package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/url"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/slug-events/backend/internal/helpers"
)

const (
	stateCookie = "oauth_state"
	nextCookie  = "login_next"
)

func oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URI"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
			"openid",
			"https://www.googleapis.com/auth/calendar.events",
		},
		Endpoint: google.Endpoint,
	}
}

func frontendURL() string {
	if u := os.Getenv("FRONTEND_URL"); u != "" {
		return u
	}
	return "http://localhost:3000"
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Login starts the Google OAuth handshake. The anti-forgery state and the
// post-login destination ride in short-lived HTTP-only cookies since the
// backend keeps no sessions.
func Login(c *gin.Context) {
	next := c.DefaultQuery("next", frontendURL())

	state, err := randomState()
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate state.")
		return
	}

	c.SetCookie(stateCookie, state, 600, "/", "", false, true)
	c.SetCookie(nextCookie, next, 600, "/", "", false, true)

	authURL := oauthConfig().AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
	c.Redirect(http.StatusFound, authURL)
}

// Authorize is the OAuth callback. It verifies the state and the Google ID
// token, then redirects to the frontend with a signed bearer token carrying
// the user's identity and delegated calendar credentials.
func Authorize(c *gin.Context) {
	state, err := c.Cookie(stateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid state parameter.")
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing authorization code.")
		return
	}

	cfg := oauthConfig()
	token, err := cfg.Exchange(c.Request.Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("oauth code exchange failed")
		helpers.RespondWithError(c, http.StatusBadRequest, "Failed to exchange authorization code.")
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing ID token.")
		return
	}

	payload, err := idtoken.Validate(c.Request.Context(), rawIDToken, cfg.ClientID)
	if err != nil {
		log.Error().Err(err).Msg("id token verification failed")
		helpers.RespondWithError(c, http.StatusBadRequest, "Failed to verify ID token.")
		return
	}

	user := helpers.TokenUser{
		Name:    claimString(payload.Claims, "name"),
		Email:   claimString(payload.Claims, "email"),
		Picture: claimString(payload.Claims, "picture"),
	}
	credentials := &helpers.GoogleCredentials{
		Token:        token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenURI:     google.Endpoint.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	}

	bearer, err := helpers.IssueToken(user, credentials)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	next, err := c.Cookie(nextCookie)
	if err != nil || next == "" {
		next = frontendURL()
	}
	c.SetCookie(nextCookie, "", -1, "/", "", false, true)

	c.Redirect(http.StatusFound, next+"?token="+url.QueryEscape(bearer))
}

// Logout clears the handshake cookies. The bearer token itself is held by
// the frontend and simply dropped there.
func Logout(c *gin.Context) {
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)
	c.SetCookie(nextCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, frontendURL())
}

func claimString(claims map[string]any, key string) string {
	v, _ := claims[key].(string)
	return v
}
