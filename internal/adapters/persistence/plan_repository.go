package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// GormPlanRepository implements PlanRepository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GORM-based plan repository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// Save persists a plan (upsert by id)
func (r *GormPlanRepository) Save(ctx context.Context, plan *dispatch.StoredPlan) error {
	model, err := r.planToModel(plan)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}

	return nil
}

// FindByID retrieves a plan by id
func (r *GormPlanRepository) FindByID(ctx context.Context, id string) (*dispatch.StoredPlan, error) {
	var model PlanModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewPlanNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to find plan: %w", result.Error)
	}

	return r.modelToPlan(&model)
}

// List returns up to limit plans, newest first. limit <= 0 returns all plans.
func (r *GormPlanRepository) List(ctx context.Context, limit int) ([]*dispatch.StoredPlan, error) {
	var models []PlanModel
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	plans := make([]*dispatch.StoredPlan, 0, len(models))
	for i := range models {
		plan, err := r.modelToPlan(&models[i])
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// Delete removes a plan
func (r *GormPlanRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&PlanModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewPlanNotFoundError(id)
	}
	return nil
}

func (r *GormPlanRepository) planToModel(plan *dispatch.StoredPlan) (*PlanModel, error) {
	if plan.Schedule == nil {
		return nil, shared.NewValidationError("schedule", "is required")
	}

	scheduleJSON, err := json.Marshal(plan.Schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schedule: %w", err)
	}

	createdAt := plan.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return &PlanModel{
		ID:             plan.ID,
		Scenario:       plan.Scenario,
		Strategy:       plan.Strategy,
		Makespan:       plan.Makespan,
		FleetSize:      plan.Schedule.FleetSize,
		Capacity:       plan.Schedule.Capacity,
		TripCount:      len(plan.Schedule.Assignments),
		StatesExpanded: plan.Stats.StatesExpanded,
		MemoHits:       plan.Stats.MemoHits,
		MemoSize:       plan.Stats.MemoSize,
		SolveMillis:    plan.Stats.Duration.Milliseconds(),
		ScheduleData:   string(scheduleJSON),
		CreatedAt:      createdAt.UTC(),
	}, nil
}

func (r *GormPlanRepository) modelToPlan(model *PlanModel) (*dispatch.StoredPlan, error) {
	var schedule dispatch.Schedule
	if err := json.Unmarshal([]byte(model.ScheduleData), &schedule); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule of plan %s: %w", model.ID, err)
	}

	return &dispatch.StoredPlan{
		ID:       model.ID,
		Scenario: model.Scenario,
		Strategy: model.Strategy,
		Makespan: model.Makespan,
		Schedule: &schedule,
		Stats: dispatch.SolveStats{
			Strategy:       model.Strategy,
			StatesExpanded: model.StatesExpanded,
			MemoHits:       model.MemoHits,
			MemoSize:       model.MemoSize,
			Duration:       time.Duration(model.SolveMillis) * time.Millisecond,
		},
		CreatedAt: model.CreatedAt,
	}, nil
}
