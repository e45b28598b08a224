package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebook/backend/internal/middleware"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/types"
)

type AuthHandler struct {
	authService  service.IAuthService
	resetService service.IPasswordResetService
}

func NewAuthHandler(authService service.IAuthService, resetService service.IPasswordResetService) *AuthHandler {
	useJSONFieldNames()
	return &AuthHandler{authService: authService, resetService: resetService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.NewUserResponse(user))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req types.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	access, err := h.authService.RefreshToken(req.Refresh)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

// RequestPasswordReset always answers 200 so callers cannot probe which
// addresses have accounts.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req types.PasswordResetRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.resetService.RequestReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "If an account exists for this email, a reset code has been sent."})
}

func (h *AuthHandler) VerifyPasswordReset(c *gin.Context) {
	var req types.OTPVerifyRequest
	if !bindJSON(c, &req) {
		return
	}

	access, err := h.resetService.VerifyCode(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

// ConfirmPasswordReset sets a new password for the user authenticated by
// the token returned from VerifyPasswordReset.
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}
	var req types.PasswordResetConfirmRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.SetPassword(c.Request.Context(), userID, req.Password, req.ConfirmPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Password has been reset."})
}
