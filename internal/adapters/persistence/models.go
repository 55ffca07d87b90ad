package persistence

import (
	"time"
)

// PlanModel represents the dispatch_plans table
type PlanModel struct {
	ID             string    `gorm:"column:id;primaryKey;size:64"`
	Scenario       string    `gorm:"column:scenario;size:255;index;not null"`
	Strategy       string    `gorm:"column:strategy;size:32;not null"`
	Makespan       float64   `gorm:"column:makespan;not null"`
	FleetSize      int       `gorm:"column:fleet_size;not null"`
	Capacity       int       `gorm:"column:capacity;not null"`
	TripCount      int       `gorm:"column:trip_count;not null"`
	StatesExpanded int64     `gorm:"column:states_expanded;not null;default:0"`
	MemoHits       int64     `gorm:"column:memo_hits;not null;default:0"`
	MemoSize       int       `gorm:"column:memo_size;not null;default:0"`
	SolveMillis    int64     `gorm:"column:solve_ms;not null;default:0"`
	ScheduleData   string    `gorm:"column:schedule_data;type:jsonb;not null"` // Use JSONB for PostgreSQL, falls back to TEXT for SQLite
	CreatedAt      time.Time `gorm:"column:created_at;not null;index"`
}

func (PlanModel) TableName() string {
	return "dispatch_plans"
}
