package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medrep/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// IssueToken handles POST /api/v1/auth/token
// @Summary Exchange an API key for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.TokenInput true "API key"
// @Success 200 {object} APIResponse "Access token"
// @Failure 400 {object} APIResponse "Invalid request body"
// @Failure 401 {object} APIResponse "Invalid credentials"
// @Router /auth/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var input service.TokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	token, err := h.authService.IssueToken(input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, token)
}
