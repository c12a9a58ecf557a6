package dto

import (
	"time"

	"github.com/civicgrid/grievance-service/internal/domain"
)

// CreateGrievanceRequest is the citizen creation payload. Owner and status
// are forced server-side and have no place here.
type CreateGrievanceRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required,oneof=Water Power Roads Sanitation 'Public Safety' Healthcare Education Other"`
	Location    string `json:"location" validate:"required"`
}

// CitizenUpdateRequest carries the owner-mutable fields. Decoding this type
// for citizen callers is what keeps status changes out of their reach.
type CitizenUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Category    *string `json:"category" validate:"omitempty,oneof=Water Power Roads Sanitation 'Public Safety' Healthcare Education Other"`
	Location    *string `json:"location" validate:"omitempty,min=1"`
}

// AdminUpdateRequest carries the administrator-mutable fields only.
type AdminUpdateRequest struct {
	Status     *string `json:"status" validate:"omitempty,oneof=Pending 'In Progress' Resolved"`
	Department *string `json:"department"`
	AdminNotes *string `json:"adminNotes"`
}

// GrievanceResponse is the outward grievance representation.
type GrievanceResponse struct {
	ID          string                   `json:"id"`
	AccountID   string                   `json:"accountId"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Category    domain.GrievanceCategory `json:"category"`
	Location    string                   `json:"location"`
	Status      domain.GrievanceStatus   `json:"status"`
	Department  *string                  `json:"department,omitempty"`
	AdminNotes  *string                  `json:"adminNotes,omitempty"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

// StatsResponse is the admin aggregate view.
type StatsResponse struct {
	Total      int64            `json:"total"`
	Pending    int64            `json:"pending"`
	InProgress int64            `json:"inProgress"`
	Resolved   int64            `json:"resolved"`
	ByCategory map[string]int64 `json:"byCategory"`
}

// NewGrievanceResponse maps a domain grievance to its outward shape.
func NewGrievanceResponse(grievance *domain.Grievance) GrievanceResponse {
	return GrievanceResponse{
		ID:          grievance.ID,
		AccountID:   grievance.AccountID,
		Title:       grievance.Title,
		Description: grievance.Description,
		Category:    grievance.Category,
		Location:    grievance.Location,
		Status:      grievance.Status,
		Department:  grievance.Department,
		AdminNotes:  grievance.AdminNotes,
		CreatedAt:   grievance.CreatedAt,
		UpdatedAt:   grievance.UpdatedAt,
	}
}

// NewStatsResponse maps domain stats to the wire shape.
func NewStatsResponse(stats *domain.GrievanceStats) StatsResponse {
	byCategory := make(map[string]int64, len(stats.ByCategory))
	for category, count := range stats.ByCategory {
		byCategory[string(category)] = count
	}
	return StatsResponse{
		Total:      stats.Total,
		Pending:    stats.Pending,
		InProgress: stats.InProgress,
		Resolved:   stats.Resolved,
		ByCategory: byCategory,
	}
}
