package helpers

import (
	"gorm.io/gorm"

	"github.com/andrescamacho/minehaul-go/internal/adapters/persistence"
	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
)

// TestRepositories holds real repository instances for integration tests
type TestRepositories struct {
	DB       *gorm.DB
	PlanRepo dispatch.PlanRepository
}

// NewTestRepositories creates repositories on the shared test DB
func NewTestRepositories() *TestRepositories {
	db := SharedTestDB

	return &TestRepositories{
		DB:       db,
		PlanRepo: persistence.NewGormPlanRepository(db),
	}
}
