package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civicgrid/grievance-service/internal/api/dto"
	"github.com/civicgrid/grievance-service/internal/auth"
	"github.com/civicgrid/grievance-service/internal/domain"
	"github.com/civicgrid/grievance-service/internal/service"
	apperrors "github.com/civicgrid/grievance-service/pkg/util"
)

// GrievancesHandler manages grievance endpoints.
type GrievancesHandler struct {
	service *service.GrievanceService
}

// NewGrievancesHandler constructs handler.
func NewGrievancesHandler(grievanceService *service.GrievanceService) *GrievancesHandler {
	return &GrievancesHandler{service: grievanceService}
}

// Create handles POST /api/grievances. Citizen only; route also gated.
func (h *GrievancesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateGrievanceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	grievance, err := h.service.Create(c.Context(), callerFrom(principal), service.GrievanceCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    domain.GrievanceCategory(req.Category),
		Location:    req.Location,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewGrievanceResponse(grievance))
}

// List handles GET /api/grievances with optional status/category filters.
func (h *GrievancesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	filter, err := parseListFilter(c)
	if err != nil {
		return err
	}

	grievances, err := h.service.List(c.Context(), callerFrom(principal), filter)
	if err != nil {
		return err
	}

	items := make([]dto.GrievanceResponse, 0, len(grievances))
	for i := range grievances {
		items = append(items, dto.NewGrievanceResponse(&grievances[i]))
	}
	return c.JSON(items)
}

// Get handles GET /api/grievances/:id.
func (h *GrievancesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	grievance, err := h.service.Get(c.Context(), callerFrom(principal), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewGrievanceResponse(grievance))
}

// Update handles PATCH /api/grievances/:id. The caller's role selects which
// request contract is decoded, so the two permitted-field sets never mix.
func (h *GrievancesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	switch principal.Role {
	case domain.RoleCitizen:
		var req dto.CitizenUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		if err := dto.Validate(req); err != nil {
			return err
		}
		grievance, err := h.service.UpdateContent(c.Context(), callerFrom(principal), c.Params("id"), service.ContentUpdateInput{
			Title:       req.Title,
			Description: req.Description,
			Category:    categoryPtr(req.Category),
			Location:    req.Location,
		})
		if err != nil {
			return err
		}
		return c.JSON(dto.NewGrievanceResponse(grievance))

	case domain.RoleAdmin:
		var req dto.AdminUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		if err := dto.Validate(req); err != nil {
			return err
		}
		grievance, err := h.service.UpdateTriage(c.Context(), callerFrom(principal), c.Params("id"), service.TriageUpdateInput{
			Status:     statusPtr(req.Status),
			Department: req.Department,
			AdminNotes: req.AdminNotes,
		})
		if err != nil {
			return err
		}
		return c.JSON(dto.NewGrievanceResponse(grievance))

	default:
		return apperrors.NewForbidden("unknown role")
	}
}

// Delete handles DELETE /api/grievances/:id.
func (h *GrievancesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.service.Delete(c.Context(), callerFrom(principal), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Grievance deleted successfully"})
}

func callerFrom(principal *auth.Principal) service.Caller {
	return service.Caller{AccountID: principal.Account.ID, Role: principal.Role}
}

func parseListFilter(c *fiber.Ctx) (service.ListFilter, error) {
	var filter service.ListFilter

	if raw := c.Query("status"); raw != "" {
		status := domain.GrievanceStatus(raw)
		if !status.Valid() {
			return filter, apperrors.NewValidationError("invalid status filter", []string{"status must be Pending, In Progress, or Resolved"})
		}
		filter.Status = &status
	}
	if raw := c.Query("category"); raw != "" {
		category := domain.GrievanceCategory(raw)
		if !category.Valid() {
			return filter, apperrors.NewValidationError("invalid category filter", []string{"category must be one of the known categories"})
		}
		filter.Category = &category
	}
	return filter, nil
}

func categoryPtr(raw *string) *domain.GrievanceCategory {
	if raw == nil {
		return nil
	}
	category := domain.GrievanceCategory(*raw)
	return &category
}

func statusPtr(raw *string) *domain.GrievanceStatus {
	if raw == nil {
		return nil
	}
	status := domain.GrievanceStatus(*raw)
	return &status
}
