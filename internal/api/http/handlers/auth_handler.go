package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civicgrid/grievance-service/internal/api/dto"
	"github.com/civicgrid/grievance-service/internal/auth"
	"github.com/civicgrid/grievance-service/internal/service"
	apperrors "github.com/civicgrid/grievance-service/pkg/util"
)

// AuthHandler exposes registration, login, and the current-account endpoint.
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
	if err := dto.Validate(req); err != nil {
		return err
	}

	account, token, _, err := h.auth.Register(c.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.AuthResponse{
		User:  dto.NewAccountResponse(account),
		Token: token,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	account, token, _, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.AuthResponse{
		User:  dto.NewAccountResponse(account),
		Token: token,
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	account, err := h.auth.CurrentAccount(c.Context(), principal.Account.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAccountResponse(account))
}
