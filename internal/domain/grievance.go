package domain

import "time"

// GrievanceStatus enumerates lifecycle states for grievances.
type GrievanceStatus string

const (
	StatusPending    GrievanceStatus = "Pending"
	StatusInProgress GrievanceStatus = "In Progress"
	StatusResolved   GrievanceStatus = "Resolved"
)

// Valid reports whether the status is a known lifecycle state.
func (s GrievanceStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// GrievanceCategory enumerates civic complaint categories.
type GrievanceCategory string

const (
	CategoryWater        GrievanceCategory = "Water"
	CategoryPower        GrievanceCategory = "Power"
	CategoryRoads        GrievanceCategory = "Roads"
	CategorySanitation   GrievanceCategory = "Sanitation"
	CategoryPublicSafety GrievanceCategory = "Public Safety"
	CategoryHealthcare   GrievanceCategory = "Healthcare"
	CategoryEducation    GrievanceCategory = "Education"
	CategoryOther        GrievanceCategory = "Other"
)

// Categories lists every known category in display order.
var Categories = []GrievanceCategory{
	CategoryWater,
	CategoryPower,
	CategoryRoads,
	CategorySanitation,
	CategoryPublicSafety,
	CategoryHealthcare,
	CategoryEducation,
	CategoryOther,
}

// Valid reports whether the category is one of the known categories.
func (c GrievanceCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Grievance is the aggregate for citizen-filed civic complaints. The owning
// account is set once at creation and never changes.
type Grievance struct {
	ID          string
	AccountID   string
	Title       string
	Description string
	Category    GrievanceCategory
	Location    string
	Status      GrievanceStatus
	Department  *string
	AdminNotes  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GrievanceStats aggregates counts over the full grievance set.
type GrievanceStats struct {
	Total      int64
	Pending    int64
	InProgress int64
	Resolved   int64
	ByCategory map[GrievanceCategory]int64
}
