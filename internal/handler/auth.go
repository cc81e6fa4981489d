package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ridehail/internal/auth"
	"ridehail/internal/middleware"
)

// CookieSettings controls the session cookie written after login.
type CookieSettings struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// AuthHandler fronts the users service for the login flow.
type AuthHandler struct {
	delegate auth.Delegate
	cookie   CookieSettings
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(delegate auth.Delegate, cookie CookieSettings) *AuthHandler {
	return &AuthHandler{delegate: delegate, cookie: cookie}
}

// CreateSessionRequest is the HTTP request body for exchanging an OAuth code.
type CreateSessionRequest struct {
	Code string `json:"code" binding:"required"`
}

// RedirectURL handles GET /api/oauth/google/redirect_url
func (h *AuthHandler) RedirectURL(c *gin.Context) {
	url, err := h.delegate.RedirectURL(c.Request.Context(), "google")
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"redirectUrl": url})
}

// CreateSession handles POST /api/sessions
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, err := h.delegate.ExchangeCode(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setCookie(c, token, int(h.cookie.MaxAge.Seconds()))
	respondJSON(c, http.StatusOK, SuccessResponse{Success: true})
}

// Me handles GET /api/users/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, auth.ErrUnauthenticated)
		return
	}

	respondJSON(c, http.StatusOK, user)
}

// Logout handles GET /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookie.Name); err == nil && token != "" {
		if err := h.delegate.DeleteSession(c.Request.Context(), token); err != nil {
			_ = c.Error(err)
		}
	}

	h.setCookie(c, "", -1)
	respondJSON(c, http.StatusOK, SuccessResponse{Success: true})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
