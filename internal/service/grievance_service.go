package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/civicgrid/grievance-service/internal/domain"
	"github.com/civicgrid/grievance-service/internal/events"
	"github.com/civicgrid/grievance-service/internal/persistence"
	"github.com/civicgrid/grievance-service/internal/repository"
	apperrors "github.com/civicgrid/grievance-service/pkg/util"
)

// Caller identifies the authenticated account performing an operation.
type Caller struct {
	AccountID string
	Role      domain.Role
}

// GrievanceCreateInput describes the citizen-supplied creation payload.
// Owner, status, department, and admin notes are never client-supplied.
type GrievanceCreateInput struct {
	Title       string
	Description string
	Category    domain.GrievanceCategory
	Location    string
}

// ContentUpdateInput is the owner-mutable field set.
type ContentUpdateInput struct {
	Title       *string
	Description *string
	Category    *domain.GrievanceCategory
	Location    *string
}

// TriageUpdateInput is the administrator-mutable field set.
type TriageUpdateInput struct {
	Status     *domain.GrievanceStatus
	Department *string
	AdminNotes *string
}

// ListFilter narrows a listing; criteria are conjoined.
type ListFilter struct {
	Status   *domain.GrievanceStatus
	Category *domain.GrievanceCategory
}

const statsCacheKey = "grievances:stats"
const statsCacheTTL = time.Minute

// GrievanceService orchestrates grievance workflows, enforcing role and
// ownership rules before touching the repository.
type GrievanceService struct {
	grievances repository.GrievanceRepository
	cache      *persistence.Redis
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// GrievanceDependencies bundles collaborators for the service.
type GrievanceDependencies struct {
	GrievanceRepo repository.GrievanceRepository
	Cache         *persistence.Redis
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewGrievanceService constructs the service.
func NewGrievanceService(deps GrievanceDependencies) *GrievanceService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GrievanceService{
		grievances: deps.GrievanceRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Create files a new grievance owned by the caller. Only citizens file
// grievances; status always starts Pending.
func (s *GrievanceService) Create(ctx context.Context, caller Caller, input GrievanceCreateInput) (*domain.Grievance, error) {
	switch caller.Role {
	case domain.RoleCitizen:
	case domain.RoleAdmin:
		return nil, apperrors.NewForbidden("only citizens may file grievances")
	default:
		return nil, apperrors.NewForbidden("unknown role")
	}

	if !input.Category.Valid() {
		return nil, apperrors.NewValidationError("invalid category", []string{"category must be one of the known categories"})
	}

	grievance := &domain.Grievance{
		AccountID:   caller.AccountID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Location:    strings.TrimSpace(input.Location),
		Status:      domain.StatusPending,
	}
	if err := s.grievances.Create(ctx, grievance); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	s.publishEvent(ctx, events.Event{
		Type:        events.EventGrievanceFiled,
		GrievanceID: grievance.ID,
		Actor:       events.Actor{AccountID: caller.AccountID, Role: caller.Role},
		Payload: events.GrievanceFiledPayload{
			Category: grievance.Category,
			Location: grievance.Location,
			Title:    grievance.Title,
		},
	})
	return grievance, nil
}

// Get fetches a grievance. Citizens only see their own records.
func (s *GrievanceService) Get(ctx context.Context, caller Caller, id string) (*domain.Grievance, error) {
	grievance, err := s.grievances.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("grievance")
		}
		return nil, err
	}
	if err := s.authorizeAccess(caller, grievance); err != nil {
		return nil, err
	}
	return grievance, nil
}

// List returns grievances newest first. Citizen results are implicitly
// scoped to their own records; admins see all.
func (s *GrievanceService) List(ctx context.Context, caller Caller, filter ListFilter) ([]domain.Grievance, error) {
	repoFilter := repository.GrievanceFilter{
		Status:   filter.Status,
		Category: filter.Category,
	}
	switch caller.Role {
	case domain.RoleAdmin:
	case domain.RoleCitizen:
		ownerID := caller.AccountID
		repoFilter.OwnerID = &ownerID
	default:
		return nil, apperrors.NewForbidden("unknown role")
	}
	grievances, err := s.grievances.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	if grievances == nil {
		grievances = []domain.Grievance{}
	}
	return grievances, nil
}

// UpdateContent applies the owner-mutable fields. Only the owning citizen
// may call it; status and routing fields are untouchable by construction.
func (s *GrievanceService) UpdateContent(ctx context.Context, caller Caller, id string, input ContentUpdateInput) (*domain.Grievance, error) {
	switch caller.Role {
	case domain.RoleCitizen:
	case domain.RoleAdmin:
		return nil, apperrors.NewForbidden("admins do not edit grievance content")
	default:
		return nil, apperrors.NewForbidden("unknown role")
	}

	grievance, err := s.grievances.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("grievance")
		}
		return nil, err
	}
	if grievance.AccountID != caller.AccountID {
		return nil, apperrors.NewForbidden("access denied")
	}

	if input.Category != nil && !input.Category.Valid() {
		return nil, apperrors.NewValidationError("invalid category", []string{"category must be one of the known categories"})
	}

	changes := repository.GrievanceChanges{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Location:    input.Location,
	}
	if changes.Empty() {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}
	updated, err := s.grievances.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)
	return updated, nil
}

// UpdateTriage applies the administrator-mutable fields (status, department,
// admin notes). Content fields are untouchable by construction.
func (s *GrievanceService) UpdateTriage(ctx context.Context, caller Caller, id string, input TriageUpdateInput) (*domain.Grievance, error) {
	switch caller.Role {
	case domain.RoleAdmin:
	case domain.RoleCitizen:
		return nil, apperrors.NewForbidden("administrator role required")
	default:
		return nil, apperrors.NewForbidden("unknown role")
	}

	grievance, err := s.grievances.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("grievance")
		}
		return nil, err
	}

	if input.Status != nil && !input.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", []string{"status must be Pending, In Progress, or Resolved"})
	}

	changes := repository.GrievanceChanges{
		Status:     input.Status,
		Department: input.Department,
		AdminNotes: input.AdminNotes,
	}
	if changes.Empty() {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}
	updated, err := s.grievances.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	if input.Status != nil && *input.Status != grievance.Status {
		s.publishEvent(ctx, events.Event{
			Type:        events.EventGrievanceStatusChanged,
			GrievanceID: updated.ID,
			Actor:       events.Actor{AccountID: caller.AccountID, Role: caller.Role},
			Payload: events.GrievanceStatusChangedPayload{
				OldStatus:  grievance.Status,
				NewStatus:  updated.Status,
				Department: updated.Department,
			},
		})
	}
	return updated, nil
}

// Delete removes a grievance. Citizens may only delete their own.
func (s *GrievanceService) Delete(ctx context.Context, caller Caller, id string) error {
	grievance, err := s.grievances.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("grievance")
		}
		return err
	}

	switch caller.Role {
	case domain.RoleAdmin:
	case domain.RoleCitizen:
		if grievance.AccountID != caller.AccountID {
			return apperrors.NewForbidden("access denied")
		}
	default:
		return apperrors.NewForbidden("unknown role")
	}

	deleted, err := s.grievances.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NewNotFound("grievance")
	}

	s.invalidateStats(ctx)
	s.publishEvent(ctx, events.Event{
		Type:        events.EventGrievanceDeleted,
		GrievanceID: id,
		Actor:       events.Actor{AccountID: caller.AccountID, Role: caller.Role},
		Payload:     events.GrievanceDeletedPayload{OwnerID: grievance.AccountID},
	})
	return nil
}

// Stats aggregates counts over the full grievance set. Results are cached
// briefly; every mutation invalidates the cache.
func (s *GrievanceService) Stats(ctx context.Context) (*domain.GrievanceStats, error) {
	if cached, ok, err := s.cache.GetString(ctx, statsCacheKey); err == nil && ok {
		var stats domain.GrievanceStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := s.grievances.Stats(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(stats); err == nil {
		if err := s.cache.SetString(ctx, statsCacheKey, string(encoded), statsCacheTTL); err != nil {
			s.logger.Warn("failed to cache stats", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *GrievanceService) authorizeAccess(caller Caller, grievance *domain.Grievance) error {
	switch caller.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleCitizen:
		if grievance.AccountID != caller.AccountID {
			return apperrors.NewForbidden("access denied")
		}
		return nil
	default:
		return apperrors.NewForbidden("unknown role")
	}
}

func (s *GrievanceService) invalidateStats(ctx context.Context) {
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.Error(err))
	}
}

func (s *GrievanceService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
