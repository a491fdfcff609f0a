// internal/handlers/auth.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/hudzstore/backend/internal/services"
	"github.com/hudzstore/backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Password is required", nil)
		return
	}

	token, err := h.authService.Login(req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPassword) {
			utils.UnauthorizedResponse(c, "Invalid password")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"token": token})
}

// GET /v1/auth/me
// Reports session state; defaults to logged-out when no valid token is
// presented.
func (h *AuthHandler) Me(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{"logged_in": c.GetBool("is_admin")})
}
