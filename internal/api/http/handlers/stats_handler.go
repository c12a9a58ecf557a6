package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicgrid/grievance-service/internal/api/dto"
	"github.com/civicgrid/grievance-service/internal/service"
)

// StatsHandler serves the admin aggregate statistics endpoint.
type StatsHandler struct {
	service *service.GrievanceService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(grievanceService *service.GrievanceService) *StatsHandler {
	return &StatsHandler{service: grievanceService}
}

// Stats handles GET /api/stats. The route is admin-gated.
func (h *StatsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewStatsResponse(stats))
}
