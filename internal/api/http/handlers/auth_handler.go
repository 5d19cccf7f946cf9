package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-insights/internal/api/dto"
	"github.com/spec-kit/ticket-insights/internal/service"
	apperrors "github.com/spec-kit/ticket-insights/pkg/util/errorutil"
)

// AuthHandler exposes operator login.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	token, exp, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: exp})
}
