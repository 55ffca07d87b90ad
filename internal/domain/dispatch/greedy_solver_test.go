package dispatch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
	"github.com/andrescamacho/minehaul-go/test/helpers"
)

func TestGreedySolver_FillsNearestMinesFirst(t *testing.T) {
	// Arrange
	problem := helpers.NewTestProblem(t, helpers.TriangleNetwork(t), params(100, 1))
	solver := dispatch.NewGreedySolver(nil)

	// Act
	plan, err := solver.Solve(context.Background(), problem)

	// Assert
	require.NoError(t, err)
	require.NoError(t, dispatch.VerifySchedule(problem, plan.Schedule))
	assert.Equal(t, 16.0, plan.Makespan)
	require.Len(t, plan.Schedule.Assignments, 1)
	assert.Equal(t, []shared.SiteID{"M1", "M2"}, plan.Schedule.Assignments[0].Trip.Mines())
	assert.Equal(t, dispatch.StrategyGreedy, plan.Stats.Strategy)
}

func TestGreedySolver_LeastBusyVehicleTakesNextTrip(t *testing.T) {
	problem := helpers.NewTestProblem(t, helpers.ForkNetwork(t), params(10, 2))

	plan, err := dispatch.NewGreedySolver(nil).Solve(context.Background(), problem)

	require.NoError(t, err)
	require.NoError(t, dispatch.VerifySchedule(problem, plan.Schedule))
	require.Len(t, plan.Schedule.Assignments, 2)
	assert.Equal(t, []shared.SiteID{"B"}, plan.Schedule.Assignments[0].Trip.Mines())
	assert.Equal(t, 0, plan.Schedule.Assignments[0].Vehicle)
	assert.Equal(t, 1, plan.Schedule.Assignments[1].Vehicle)
	assert.Equal(t, 20.0, plan.Makespan)
}

func TestGreedySolver_NeverBeatsExact(t *testing.T) {
	problem := helpers.NewTestProblem(t, helpers.TriangleNetwork(t), params(30, 2))

	greedy, err := dispatch.NewGreedySolver(nil).Solve(context.Background(), problem)
	require.NoError(t, err)
	exact, err := dispatch.NewExactSolver().Solve(context.Background(), problem)
	require.NoError(t, err)

	require.NoError(t, dispatch.VerifySchedule(problem, greedy.Schedule))
	assert.GreaterOrEqual(t, greedy.Makespan, exact.Makespan)
}

func TestGreedySolver_UnreachableMine(t *testing.T) {
	problem := helpers.NewTestProblem(t, helpers.StrandedMineNetwork(t), params(100, 1))

	_, err := dispatch.NewGreedySolver(nil).Solve(context.Background(), problem)

	var unreachable *shared.UnreachableError
	assert.ErrorAs(t, err, &unreachable)
}
