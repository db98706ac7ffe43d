package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizsetup-api/internal/service"
)

// AuthHandler exposes the login gate: Google credential login, the guest
// fallback, and the configuration probe the login view uses to decide which
// controls to render.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// GoogleLoginRequest carries the OAuth widget credential.
type GoogleLoginRequest struct {
	Credential string `json:"credential" binding:"required"`
	ReturnTo   string `json:"return_to"`
}

// GuestLoginRequest carries the optional return destination.
type GuestLoginRequest struct {
	ReturnTo string `json:"return_to"`
}

// LoginResponse is the shared success shape of both login entry points.
// Replace tells the consumer to replace the current history entry when
// navigating to RedirectTo, so the login page does not stay in history.
type LoginResponse struct {
	Token      string `json:"token"`
	Subject    string `json:"subject"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Guest      bool   `json:"guest"`
	RedirectTo string `json:"redirect_to"`
	Replace    bool   `json:"replace"`
}

// GoogleLogin handles POST /api/auth/google.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	result, err := h.authService.LoginWithCredential(c.Request.Context(), req.Credential, req.ReturnTo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newLoginResponse(result))
}

// GuestLogin handles POST /api/auth/guest. The in-flight guard is keyed by
// client address: a double-press yields 409 for the second request.
func (h *AuthHandler) GuestLogin(c *gin.Context) {
	var req GuestLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	result, err := h.authService.LoginAsGuest(c.Request.Context(), c.ClientIP(), req.ReturnTo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newLoginResponse(result))
}

// AuthConfig handles GET /api/auth/config. When no Google client ID is
// deployed the login surface runs guest-only and shows the notice.
func (h *AuthHandler) AuthConfig(c *gin.Context) {
	resp := gin.H{
		"google_enabled": h.authService.GoogleEnabled(),
		"landing_path":   h.authService.LandingPath(),
	}
	if !h.authService.GoogleEnabled() {
		resp["notice"] = "Google login is not configured for this deployment; continue as a guest."
	}
	c.JSON(http.StatusOK, resp)
}

func newLoginResponse(result *service.LoginResult) LoginResponse {
	return LoginResponse{
		Token:      result.Token,
		Subject:    result.Subject,
		Name:       result.Name,
		Email:      result.Email,
		Guest:      result.Guest,
		RedirectTo: result.RedirectTo,
		Replace:    result.Replace,
	}
}
