package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/minehaul-go/internal/application/dispatch/commands"
	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
	"github.com/andrescamacho/minehaul-go/test/helpers"
)

func TestDeletePlanHandler(t *testing.T) {
	// Arrange
	repo := helpers.NewMockPlanRepository()
	repo.Plans["plan-a"] = &dispatch.StoredPlan{ID: "plan-a"}
	handler := commands.NewDeletePlanHandler(repo)

	// Act
	_, err := handler.Handle(context.Background(), &commands.DeletePlanCommand{ID: "plan-a"})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, repo.Plans)

	_, err = handler.Handle(context.Background(), &commands.DeletePlanCommand{ID: "plan-a"})
	var notFound *shared.PlanNotFoundError
	assert.ErrorAs(t, err, &notFound)
}
