package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskbridge.backend/internal/domain/entities"
	domainerrors "taskbridge.backend/internal/domain/errors"
	"taskbridge.backend/internal/interfaces/http/middleware"
	"taskbridge.backend/internal/interfaces/http/response"
	"taskbridge.backend/internal/usecases"
)

const (
	accessCookieMaxAge  = 3600 * 24
	refreshCookieMaxAge = 3600 * 24 * 7
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase *usecases.AuthUsecase
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase *usecases.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	authResponse, err := h.authUsecase.Register(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setAuthCookies(c, authResponse)
	response.Success(c, http.StatusCreated, authResponse)
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	authResponse, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setAuthCookies(c, authResponse)
	response.Success(c, http.StatusOK, authResponse)
}

// Refresh rotates the refresh token and issues a fresh token pair
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken := h.extractRefreshToken(c)
	if refreshToken == "" {
		response.Error(c, domainerrors.BadRequest("Refresh token is required"))
		return
	}

	authResponse, err := h.authUsecase.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setAuthCookies(c, authResponse)
	response.Success(c, http.StatusOK, authResponse)
}

// Logout revokes the presented session, or every session when no refresh
// token accompanies the request. Auth is optional here: a caller whose
// access token expired can still revoke by refresh token alone.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken := h.extractRefreshToken(c)

	var err error
	if userID, ok := middleware.GetUserID(c); ok {
		if refreshToken != "" {
			err = h.authUsecase.LogoutSession(c.Request.Context(), userID, refreshToken)
		} else {
			err = h.authUsecase.Logout(c.Request.Context(), userID)
		}
	} else if refreshToken != "" {
		err = h.authUsecase.LogoutByRefreshToken(c.Request.Context(), refreshToken)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetCookie("token", "", -1, "/", "", false, true)
	c.SetCookie("refresh_token", "", -1, "/", "", false, true)

	response.Success(c, http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Me returns the authenticated user's profile
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	user, err := h.authUsecase.GetMe(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, auth *entities.AuthResponse) {
	c.SetCookie("token", auth.AccessToken, accessCookieMaxAge, "/", "", false, true)
	c.SetCookie("refresh_token", auth.RefreshToken, refreshCookieMaxAge, "/", "", false, true)
}

// extractRefreshToken reads the refresh token from the JSON body, falling
// back to the cookie browsers send automatically.
func (h *AuthHandler) extractRefreshToken(c *gin.Context) string {
	if c.Request.ContentLength > 0 {
		var input struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&input); err == nil && input.RefreshToken != "" {
			return input.RefreshToken
		}
	}

	if cookie, err := c.Cookie("refresh_token"); err == nil {
		return cookie
	}
	return ""
}
