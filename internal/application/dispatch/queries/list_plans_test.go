package queries_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/minehaul-go/internal/application/dispatch/queries"
	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
	"github.com/andrescamacho/minehaul-go/test/helpers"
)

func seededRepository(n int) *helpers.MockPlanRepository {
	repo := helpers.NewMockPlanRepository()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("plan-%02d", i)
		repo.Plans[id] = &dispatch.StoredPlan{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
	}
	return repo
}

func TestListPlansHandler_NewestFirstWithLimit(t *testing.T) {
	handler := queries.NewListPlansHandler(seededRepository(5))

	resp, err := handler.Handle(context.Background(), &queries.ListPlansQuery{Limit: 2})

	require.NoError(t, err)
	plans := resp.(*queries.ListPlansResponse).Plans
	require.Len(t, plans, 2)
	assert.Equal(t, "plan-04", plans[0].ID)
	assert.Equal(t, "plan-03", plans[1].ID)
}

func TestListPlansHandler_DefaultLimit(t *testing.T) {
	handler := queries.NewListPlansHandler(seededRepository(queries.DefaultListLimit + 5))

	resp, err := handler.Handle(context.Background(), &queries.ListPlansQuery{})

	require.NoError(t, err)
	assert.Len(t, resp.(*queries.ListPlansResponse).Plans, queries.DefaultListLimit)
}

func TestGetPlanHandler(t *testing.T) {
	handler := queries.NewGetPlanHandler(seededRepository(1))

	resp, err := handler.Handle(context.Background(), &queries.GetPlanQuery{ID: "plan-00"})
	require.NoError(t, err)
	assert.Equal(t, "plan-00", resp.(*queries.GetPlanResponse).Plan.ID)

	_, err = handler.Handle(context.Background(), &queries.GetPlanQuery{ID: "plan-99"})
	var notFound *shared.PlanNotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = handler.Handle(context.Background(), &queries.GetPlanQuery{})
	var validation *shared.ValidationError
	assert.ErrorAs(t, err, &validation)
}
