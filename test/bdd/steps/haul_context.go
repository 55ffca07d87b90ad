package steps

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/minehaul-go/internal/adapters/persistence"
	"github.com/andrescamacho/minehaul-go/internal/application/dispatch/commands"
	"github.com/andrescamacho/minehaul-go/internal/application/dispatch/queries"
	"github.com/andrescamacho/minehaul-go/internal/application/mediator"
	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/network"
	"github.com/andrescamacho/minehaul-go/internal/domain/playback"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
	"github.com/andrescamacho/minehaul-go/test/helpers"
)

// haulContext is shared by the network, dispatch, playback and plan store
// steps of one scenario
type haulContext struct {
	sites  []*shared.Site
	roads  []network.Edge
	params dispatch.Parameters

	med      mediator.Mediator
	planRepo dispatch.PlanRepository

	plan      *dispatch.Plan
	planID    string
	solveErr  error
	snapshots []*playback.Snapshot
	summary   *playback.Summary
	replayErr error
	plans     []*dispatch.StoredPlan
	err       error
}

func (hc *haulContext) reset() error {
	hc.sites = nil
	hc.roads = nil
	hc.params = dispatch.DefaultParameters()
	hc.plan = nil
	hc.planID = ""
	hc.solveErr = nil
	hc.snapshots = nil
	hc.summary = nil
	hc.replayErr = nil
	hc.plans = nil
	hc.err = nil

	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	hc.planRepo = persistence.NewGormPlanRepository(helpers.SharedTestDB)
	hc.med = mediator.NewMediator()
	for _, err := range []error{
		mediator.RegisterHandler[*commands.PlanDispatchCommand](hc.med, commands.NewPlanDispatchHandler(hc.planRepo, nil)),
		mediator.RegisterHandler[*commands.DeletePlanCommand](hc.med, commands.NewDeletePlanHandler(hc.planRepo)),
		mediator.RegisterHandler[*queries.ReplayPlanQuery](hc.med, queries.NewReplayPlanHandler(hc.planRepo)),
		mediator.RegisterHandler[*queries.ListPlansQuery](hc.med, queries.NewListPlansHandler(hc.planRepo)),
		mediator.RegisterHandler[*queries.GetPlanQuery](hc.med, queries.NewGetPlanHandler(hc.planRepo)),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// Network steps

func (hc *haulContext) theSites(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		id := shared.SiteID(getCellValue(table, row, "site"))
		role, err := shared.ParseSiteRole(getCellValue(table, row, "role"))
		if err != nil {
			return err
		}
		material, err := getCellInt(table, row, "material")
		if err != nil {
			return err
		}

		var site *shared.Site
		if role == shared.RoleDepot {
			site, err = shared.NewDepot(id)
		} else {
			site, err = shared.NewMine(id, material)
		}
		if err != nil {
			return err
		}
		hc.sites = append(hc.sites, site)
	}
	return nil
}

func (hc *haulContext) theRoads(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		distance, err := getCellFloat(table, row, "distance")
		if err != nil {
			return err
		}
		hc.roads = append(hc.roads, network.Edge{
			From:     shared.SiteID(getCellValue(table, row, "from")),
			To:       shared.SiteID(getCellValue(table, row, "to")),
			Distance: distance,
		})
	}
	return nil
}

func (hc *haulContext) aFleetOfVehiclesWithCapacity(fleet, capacity int) error {
	hc.params.FleetSize = fleet
	hc.params.Capacity = capacity
	return nil
}

func (hc *haulContext) loadTimeAndUnloadTime(load, unload float64) error {
	hc.params.LoadTime = load
	hc.params.UnloadTime = unload
	return nil
}

func (hc *haulContext) problem() (*dispatch.Problem, error) {
	net, err := network.NewNetwork(hc.sites, hc.roads)
	if err != nil {
		return nil, err
	}
	return dispatch.NewProblem(net, hc.params)
}

// Dispatch steps

func (hc *haulContext) solve(strategy string, persist bool) error {
	problem, err := hc.problem()
	if err != nil {
		hc.solveErr = err
		return nil
	}

	settings := commands.DefaultSolverSettings()
	settings.Strategy = strategy
	resp, err := hc.med.Send(context.Background(), &commands.PlanDispatchCommand{
		ScenarioName: "bdd",
		Problem:      problem,
		Settings:     settings,
		Persist:      persist,
	})
	if err != nil {
		hc.solveErr = err
		return nil
	}
	result := resp.(*commands.PlanDispatchResponse)
	hc.plan = result.Plan
	hc.planID = result.PlanID
	return nil
}

func (hc *haulContext) iSolveTheDispatch() error {
	return hc.solve(dispatch.StrategyExact, false)
}

func (hc *haulContext) iSolveTheDispatchWithTheStrategy(strategy string) error {
	return hc.solve(strategy, false)
}

func (hc *haulContext) iSolveAndSaveTheDispatch() error {
	return hc.solve(dispatch.StrategyExact, true)
}

func (hc *haulContext) requirePlan() error {
	if hc.solveErr != nil {
		return fmt.Errorf("solve failed: %w", hc.solveErr)
	}
	if hc.plan == nil {
		return fmt.Errorf("no plan was produced")
	}
	return nil
}

func (hc *haulContext) theMakespanShouldBe(expected float64) error {
	if err := hc.requirePlan(); err != nil {
		return err
	}
	if math.Abs(hc.plan.Makespan-expected) > 1e-9 {
		return fmt.Errorf("expected makespan %v, got %v", expected, hc.plan.Makespan)
	}
	return nil
}

func (hc *haulContext) theMakespanShouldBeLessThan(bound float64) error {
	if err := hc.requirePlan(); err != nil {
		return err
	}
	if hc.plan.Makespan >= bound {
		return fmt.Errorf("expected makespan below %v, got %v", bound, hc.plan.Makespan)
	}
	return nil
}

func (hc *haulContext) theScheduleShouldContainTrips(count int) error {
	if err := hc.requirePlan(); err != nil {
		return err
	}
	if got := len(hc.plan.Schedule.Assignments); got != count {
		return fmt.Errorf("expected %d trips, got %d", count, got)
	}
	return nil
}

func (hc *haulContext) aSingleTripShouldVisitBothAnd(first, second string) error {
	if err := hc.requirePlan(); err != nil {
		return err
	}
	for _, a := range hc.plan.Schedule.Assignments {
		visited := map[shared.SiteID]bool{}
		for _, m := range a.Trip.Mines() {
			visited[m] = true
		}
		if visited[shared.SiteID(first)] && visited[shared.SiteID(second)] {
			return nil
		}
	}
	return fmt.Errorf("no trip visits both %s and %s", first, second)
}

func (hc *haulContext) thePickupsFromShouldTotal(mine string, total int) error {
	if err := hc.requirePlan(); err != nil {
		return err
	}
	sum := 0
	for _, a := range hc.plan.Schedule.Assignments {
		for _, v := range a.Trip.Visits {
			if v.Mine == shared.SiteID(mine) {
				sum += v.Pickup
			}
		}
	}
	if sum != total {
		return fmt.Errorf("expected %d picked up from %s, got %d", total, mine, sum)
	}
	return nil
}

func (hc *haulContext) everyVehicleShouldHaveATrip() error {
	if err := hc.requirePlan(); err != nil {
		return err
	}
	for v := 0; v < hc.plan.Schedule.FleetSize; v++ {
		if len(hc.plan.Schedule.TripsFor(v)) == 0 {
			return fmt.Errorf("vehicle %d has no trips", v)
		}
	}
	return nil
}

func (hc *haulContext) theScheduleShouldBeValid() error {
	if err := hc.requirePlan(); err != nil {
		return err
	}
	problem, err := hc.problem()
	if err != nil {
		return err
	}
	return dispatch.VerifySchedule(problem, hc.plan.Schedule)
}

func (hc *haulContext) theSolveShouldFailWithAnUnreachableError() error {
	if hc.solveErr == nil {
		return fmt.Errorf("expected an unreachable error, solve succeeded")
	}
	var unreachable *shared.UnreachableError
	if !errors.As(hc.solveErr, &unreachable) {
		return fmt.Errorf("expected an unreachable error, got %v", hc.solveErr)
	}
	if hc.plan != nil {
		return fmt.Errorf("no schedule should be produced")
	}
	return nil
}

// InitializeHaulScenario registers the dispatch, playback and plan store steps
func InitializeHaulScenario(ctx *godog.ScenarioContext) {
	hc := &haulContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, hc.reset()
	})

	// Given steps
	ctx.Step(`^the sites:$`, hc.theSites)
	ctx.Step(`^the roads:$`, hc.theRoads)
	ctx.Step(`^a fleet of (\d+) vehicles? with capacity (\d+)$`, hc.aFleetOfVehiclesWithCapacity)
	ctx.Step(`^load time ([0-9.]+) and unload time ([0-9.]+)$`, hc.loadTimeAndUnloadTime)

	// When steps
	ctx.Step(`^I solve the dispatch$`, hc.iSolveTheDispatch)
	ctx.Step(`^I solve the dispatch with the (\w+) strategy$`, hc.iSolveTheDispatchWithTheStrategy)
	ctx.Step(`^I solve and save the dispatch$`, hc.iSolveAndSaveTheDispatch)

	// Then steps
	ctx.Step(`^the makespan should be ([0-9.]+)$`, hc.theMakespanShouldBe)
	ctx.Step(`^the makespan should be less than ([0-9.]+)$`, hc.theMakespanShouldBeLessThan)
	ctx.Step(`^the schedule should contain (\d+) trips?$`, hc.theScheduleShouldContainTrips)
	ctx.Step(`^a single trip should visit both "([^"]*)" and "([^"]*)"$`, hc.aSingleTripShouldVisitBothAnd)
	ctx.Step(`^the pickups from "([^"]*)" should total (\d+)$`, hc.thePickupsFromShouldTotal)
	ctx.Step(`^every vehicle should have a trip$`, hc.everyVehicleShouldHaveATrip)
	ctx.Step(`^the schedule should be valid$`, hc.theScheduleShouldBeValid)
	ctx.Step(`^the solve should fail with an unreachable error$`, hc.theSolveShouldFailWithAnUnreachableError)

	registerPlaybackSteps(ctx, hc)
	registerPlanStoreSteps(ctx, hc)
}
