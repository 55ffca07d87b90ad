package helpers

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// MockPlanRepository is an in-memory implementation of PlanRepository for testing
type MockPlanRepository struct {
	mu    sync.Mutex
	Plans map[string]*dispatch.StoredPlan // key: plan id

	// SaveErr is returned by Save when set
	SaveErr error
}

// NewMockPlanRepository creates a new mock plan repository
func NewMockPlanRepository() *MockPlanRepository {
	return &MockPlanRepository{
		Plans: make(map[string]*dispatch.StoredPlan),
	}
}

// Save stores or replaces a plan
func (m *MockPlanRepository) Save(ctx context.Context, plan *dispatch.StoredPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Plans[plan.ID] = plan
	return nil
}

// FindByID retrieves a plan by id
func (m *MockPlanRepository) FindByID(ctx context.Context, id string) (*dispatch.StoredPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	plan, exists := m.Plans[id]
	if !exists {
		return nil, shared.NewPlanNotFoundError(id)
	}
	return plan, nil
}

// List returns up to limit plans, newest first
func (m *MockPlanRepository) List(ctx context.Context, limit int) ([]*dispatch.StoredPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	plans := make([]*dispatch.StoredPlan, 0, len(m.Plans))
	for _, plan := range m.Plans {
		plans = append(plans, plan)
	}
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].CreatedAt.Equal(plans[j].CreatedAt) {
			return plans[i].ID < plans[j].ID
		}
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	if limit > 0 && len(plans) > limit {
		plans = plans[:limit]
	}
	return plans, nil
}

// Delete removes a plan
func (m *MockPlanRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Plans[id]; !exists {
		return shared.NewPlanNotFoundError(id)
	}
	delete(m.Plans, id)
	return nil
}
