package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicgrid/grievance-service/internal/domain"
	apperrors "github.com/civicgrid/grievance-service/pkg/util"
)

// RequireCitizen gates routes reserved for citizen callers.
func RequireCitizen() fiber.Handler {
	return requireRole(domain.RoleCitizen)
}

// RequireAdmin gates administrator-only routes.
func RequireAdmin() fiber.Handler {
	return requireRole(domain.RoleAdmin)
}

func requireRole(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		switch principal.Role {
		case required:
			return c.Next()
		case domain.RoleCitizen, domain.RoleAdmin:
			return apperrors.NewForbidden("insufficient role")
		default:
			return apperrors.NewForbidden("unknown role")
		}
	}
}
