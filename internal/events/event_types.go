package events

import (
	"time"

	"github.com/civicgrid/grievance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventGrievanceFiled         EventType = "grievance_filed"
	EventGrievanceStatusChanged EventType = "grievance_status_changed"
	EventGrievanceDeleted       EventType = "grievance_deleted"
)

// Actor identifies who triggered an event.
type Actor struct {
	AccountID string      `json:"account_id"`
	Role      domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	GrievanceID string    `json:"grievance_id"`
	Actor       Actor     `json:"actor"`
	Timestamp   time.Time `json:"timestamp"`
	Payload     any       `json:"payload"`
}

// GrievanceFiledPayload payload.
type GrievanceFiledPayload struct {
	Category domain.GrievanceCategory `json:"category"`
	Location string                   `json:"location"`
	Title    string                   `json:"title"`
}

// GrievanceStatusChangedPayload payload.
type GrievanceStatusChangedPayload struct {
	OldStatus  domain.GrievanceStatus `json:"old_status"`
	NewStatus  domain.GrievanceStatus `json:"new_status"`
	Department *string                `json:"department,omitempty"`
}

// GrievanceDeletedPayload payload.
type GrievanceDeletedPayload struct {
	OwnerID string `json:"owner_id"`
}
