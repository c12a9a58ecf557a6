package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/civicgrid/grievance-service/internal/domain"
	"github.com/civicgrid/grievance-service/internal/events"
	"github.com/civicgrid/grievance-service/internal/repository"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	seq      int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	account.ID = fmt.Sprintf("acc-%d", r.seq)
	account.CreatedAt = time.Now()
	clone := *account
	r.accounts[account.ID] = &clone
	return nil
}

func (r *stubAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *account
	return &clone, nil
}

func (r *stubAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Email == email {
			clone := *account
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type stubGrievanceRepo struct {
	mu         sync.Mutex
	grievances map[string]*domain.Grievance
	seq        int
	clock      time.Time
}

func newStubGrievanceRepo() *stubGrievanceRepo {
	return &stubGrievanceRepo{
		grievances: make(map[string]*domain.Grievance),
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick advances the stub clock so created_at ordering is observable.
func (r *stubGrievanceRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Minute)
	return r.clock
}

func (r *stubGrievanceRepo) Create(_ context.Context, grievance *domain.Grievance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	grievance.ID = fmt.Sprintf("grv-%d", r.seq)
	now := r.tick()
	grievance.CreatedAt = now
	grievance.UpdatedAt = now
	clone := *grievance
	r.grievances[grievance.ID] = &clone
	return nil
}

func (r *stubGrievanceRepo) GetByID(_ context.Context, id string) (*domain.Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	grievance, ok := r.grievances[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *grievance
	return &clone, nil
}

func (r *stubGrievanceRepo) List(_ context.Context, filter repository.GrievanceFilter) ([]domain.Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Grievance
	for _, grievance := range r.grievances {
		if filter.OwnerID != nil && grievance.AccountID != *filter.OwnerID {
			continue
		}
		if filter.Status != nil && grievance.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && grievance.Category != *filter.Category {
			continue
		}
		result = append(result, *grievance)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *stubGrievanceRepo) Update(_ context.Context, id string, changes repository.GrievanceChanges) (*domain.Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	grievance, ok := r.grievances[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if changes.Title != nil {
		grievance.Title = *changes.Title
	}
	if changes.Description != nil {
		grievance.Description = *changes.Description
	}
	if changes.Category != nil {
		grievance.Category = *changes.Category
	}
	if changes.Location != nil {
		grievance.Location = *changes.Location
	}
	if changes.Status != nil {
		grievance.Status = *changes.Status
	}
	if changes.Department != nil {
		grievance.Department = changes.Department
	}
	if changes.AdminNotes != nil {
		grievance.AdminNotes = changes.AdminNotes
	}
	grievance.UpdatedAt = r.tick()
	clone := *grievance
	return &clone, nil
}

func (r *stubGrievanceRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.grievances[id]; !ok {
		return false, nil
	}
	delete(r.grievances, id)
	return true, nil
}

func (r *stubGrievanceRepo) Stats(_ context.Context) (*domain.GrievanceStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &domain.GrievanceStats{ByCategory: make(map[domain.GrievanceCategory]int64)}
	for _, grievance := range r.grievances {
		stats.Total++
		switch grievance.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusInProgress:
			stats.InProgress++
		case domain.StatusResolved:
			stats.Resolved++
		}
		stats.ByCategory[grievance.Category]++
	}
	return stats, nil
}

// captureDispatcher records published events.
type captureDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *captureDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var matched []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}
