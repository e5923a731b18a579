package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-desk/complaint-service/internal/api/dto"
	"github.com/campus-desk/complaint-service/internal/auth"
	"github.com/campus-desk/complaint-service/internal/service"
	apperrors "github.com/campus-desk/complaint-service/pkg/util"
)

// AuthHandler exposes registration, login and token validation endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("Name is required", nil)
	}
	if strings.TrimSpace(req.Email) == "" {
		return apperrors.NewValidationError("Email is required", nil)
	}
	if strings.TrimSpace(req.Password) == "" {
		return apperrors.NewValidationError("Password is required", nil)
	}
	if strings.TrimSpace(req.Department) == "" {
		return apperrors.NewValidationError("Department is required", nil)
	}

	user, token, _, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password, req.Department)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.AuthResponse{
		Token: token,
		User:  dto.NewPublicUser(user),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("Email and password are required", nil)
	}

	user, token, _, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{
		Token: token,
		User:  dto.NewPublicUser(user),
	})
}

// Validate handles GET /api/auth/validate. The auth middleware has already
// resolved the bearer token to a principal by the time this runs.
func (h *AuthHandler) Validate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"user": dto.NewPublicUser(principal.User)})
}
