package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/minehaul-go/internal/application/dispatch/commands"
	"github.com/andrescamacho/minehaul-go/internal/application/logging"
	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
	"github.com/andrescamacho/minehaul-go/test/helpers"
)

func singleMineProblem(t *testing.T) *dispatch.Problem {
	p := dispatch.DefaultParameters()
	p.Capacity = 50
	p.LoadTime = 2
	p.UnloadTime = 1
	return helpers.NewTestProblem(t, helpers.SingleMineNetwork(t), p)
}

func TestPlanDispatchHandler_SolvesAndStoresPlan(t *testing.T) {
	// Arrange
	repo := helpers.NewMockPlanRepository()
	clock := shared.NewMockClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	handler := commands.NewPlanDispatchHandler(repo, clock)
	logger := &helpers.CapturingLogger{}
	ctx := logging.WithLogger(context.Background(), logger)

	// Act
	resp, err := handler.Handle(ctx, &commands.PlanDispatchCommand{
		ScenarioName: "Single Mine",
		Problem:      singleMineProblem(t),
		Settings:     commands.DefaultSolverSettings(),
		Persist:      true,
	})

	// Assert
	require.NoError(t, err)
	result := resp.(*commands.PlanDispatchResponse)
	assert.Equal(t, 23.0, result.Plan.Makespan)
	assert.Regexp(t, `^plan-single-mine-[0-9a-f]{8}$`, result.PlanID)

	stored, err := repo.FindByID(context.Background(), result.PlanID)
	require.NoError(t, err)
	assert.Equal(t, "Single Mine", stored.Scenario)
	assert.Equal(t, dispatch.StrategyExact, stored.Strategy)
	assert.Equal(t, 23.0, stored.Makespan)
	assert.Contains(t, logger.Messages(logging.LevelInfo), "Dispatch planned")
}

func TestPlanDispatchHandler_WithoutPersistLeavesRepositoryEmpty(t *testing.T) {
	repo := helpers.NewMockPlanRepository()
	handler := commands.NewPlanDispatchHandler(repo, nil)

	resp, err := handler.Handle(context.Background(), &commands.PlanDispatchCommand{
		ScenarioName: "single",
		Problem:      singleMineProblem(t),
		Settings:     commands.DefaultSolverSettings(),
	})

	require.NoError(t, err)
	assert.Empty(t, resp.(*commands.PlanDispatchResponse).PlanID)
	assert.Empty(t, repo.Plans)
}

func TestPlanDispatchHandler_GreedyStrategy(t *testing.T) {
	handler := commands.NewPlanDispatchHandler(nil, nil)
	settings := commands.DefaultSolverSettings()
	settings.Strategy = dispatch.StrategyGreedy

	resp, err := handler.Handle(context.Background(), &commands.PlanDispatchCommand{
		ScenarioName: "single",
		Problem:      singleMineProblem(t),
		Settings:     settings,
	})

	require.NoError(t, err)
	plan := resp.(*commands.PlanDispatchResponse).Plan
	assert.Equal(t, dispatch.StrategyGreedy, plan.Stats.Strategy)
	assert.Equal(t, 23.0, plan.Makespan)
}

func TestPlanDispatchHandler_UnreachableMineFails(t *testing.T) {
	// Arrange
	p := dispatch.DefaultParameters()
	p.Capacity = 10
	problem := helpers.NewTestProblem(t, helpers.StrandedMineNetwork(t), p)
	repo := helpers.NewMockPlanRepository()
	handler := commands.NewPlanDispatchHandler(repo, nil)
	logger := &helpers.CapturingLogger{}

	// Act
	_, err := handler.Handle(logging.WithLogger(context.Background(), logger), &commands.PlanDispatchCommand{
		ScenarioName: "stranded",
		Problem:      problem,
		Settings:     commands.DefaultSolverSettings(),
		Persist:      true,
	})

	// Assert
	var unreachable *shared.UnreachableError
	require.ErrorAs(t, err, &unreachable)
	assert.Equal(t, shared.SiteID("M2"), unreachable.To)
	assert.Empty(t, repo.Plans)
	assert.Contains(t, logger.Messages(logging.LevelError), "Dispatch solve failed")
}

func TestPlanDispatchHandler_SaveFailureIsReported(t *testing.T) {
	repo := helpers.NewMockPlanRepository()
	repo.SaveErr = errors.New("disk full")
	handler := commands.NewPlanDispatchHandler(repo, nil)

	_, err := handler.Handle(context.Background(), &commands.PlanDispatchCommand{
		ScenarioName: "single",
		Problem:      singleMineProblem(t),
		Settings:     commands.DefaultSolverSettings(),
		Persist:      true,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestPlanDispatchHandler_RejectsInvalidRequests(t *testing.T) {
	handler := commands.NewPlanDispatchHandler(nil, nil)

	_, err := handler.Handle(context.Background(), &commands.DeletePlanCommand{ID: "x"})
	assert.EqualError(t, err, "invalid request type")

	_, err = handler.Handle(context.Background(), &commands.PlanDispatchCommand{})
	var validation *shared.ValidationError
	assert.ErrorAs(t, err, &validation)

	_, err = handler.Handle(context.Background(), &commands.PlanDispatchCommand{
		Problem: singleMineProblem(t),
		Persist: true,
	})
	assert.ErrorContains(t, err, "no plan repository configured")
}
