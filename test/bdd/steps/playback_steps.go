package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/minehaul-go/internal/application/dispatch/queries"
	"github.com/andrescamacho/minehaul-go/internal/domain/playback"
)

func (hc *haulContext) replay(query *queries.ReplayPlanQuery) error {
	hc.snapshots = nil
	hc.summary = nil
	if query.PlanID == "" {
		if err := hc.requirePlan(); err != nil {
			return err
		}
		query.Schedule = hc.plan.Schedule
	}
	if query.Options.TickDuration == 0 {
		query.Options.TickDuration = 1
	}
	query.OnSnapshot = func(s *playback.Snapshot) error {
		hc.snapshots = append(hc.snapshots, s)
		return nil
	}

	resp, err := hc.med.Send(context.Background(), query)
	if err != nil {
		hc.replayErr = err
		return nil
	}
	hc.summary = resp.(*queries.ReplayPlanResponse).Summary
	return nil
}

func (hc *haulContext) iPlayThePlan() error {
	return hc.replay(&queries.ReplayPlanQuery{})
}

func (hc *haulContext) iPlayThePlanWithTicksOf(tick float64) error {
	return hc.replay(&queries.ReplayPlanQuery{Options: playback.Options{TickDuration: tick}})
}

func (hc *haulContext) iPlayThePlanWithUnloadBays(bays int) error {
	return hc.replay(&queries.ReplayPlanQuery{Options: playback.Options{TickDuration: 1, UnloadBays: bays}})
}

func (hc *haulContext) requireSummary() error {
	if hc.replayErr != nil {
		return fmt.Errorf("replay failed: %w", hc.replayErr)
	}
	if hc.summary == nil {
		return fmt.Errorf("no replay has run")
	}
	return nil
}

func (hc *haulContext) playbackShouldFinishAtTick(tick int) error {
	if err := hc.requireSummary(); err != nil {
		return err
	}
	if hc.summary.FinalTick != tick {
		return fmt.Errorf("expected final tick %d, got %d", tick, hc.summary.FinalTick)
	}
	return nil
}

func (hc *haulContext) theDeliveredMaterialShouldBe(amount int) error {
	if err := hc.requireSummary(); err != nil {
		return err
	}
	if hc.summary.Delivered != amount {
		return fmt.Errorf("expected %d delivered, got %d", amount, hc.summary.Delivered)
	}
	return nil
}

func (hc *haulContext) materialShouldBeConservedAtEveryTick() error {
	if err := hc.requireSummary(); err != nil {
		return err
	}
	for _, s := range hc.snapshots {
		held := s.Delivered
		for _, m := range s.Mines {
			held += m.Remaining
		}
		for _, v := range s.Vehicles {
			held += v.Cargo
		}
		if held != s.Total {
			return fmt.Errorf("tick %d accounts for %d of %d units", s.Tick, held, s.Total)
		}
	}
	return nil
}

func (hc *haulContext) vehicleShouldHaveWaitedTicks(vehicle, ticks int) error {
	if err := hc.requireSummary(); err != nil {
		return err
	}
	if vehicle >= len(hc.summary.Vehicles) {
		return fmt.Errorf("no vehicle %d in the summary", vehicle)
	}
	if got := hc.summary.Vehicles[vehicle].WaitTicks; got != ticks {
		return fmt.Errorf("expected vehicle %d to wait %d ticks, got %d", vehicle, ticks, got)
	}
	return nil
}

func (hc *haulContext) theReplayedTimeShouldExceedThePlannedMakespan() error {
	if err := hc.requireSummary(); err != nil {
		return err
	}
	if hc.summary.Time <= hc.summary.PlannedMakespan {
		return fmt.Errorf("replayed time %v does not exceed planned makespan %v", hc.summary.Time, hc.summary.PlannedMakespan)
	}
	return nil
}

func (hc *haulContext) everyVehicleShouldBeFinished() error {
	if err := hc.requireSummary(); err != nil {
		return err
	}
	final := hc.snapshots[len(hc.snapshots)-1]
	for _, v := range final.Vehicles {
		if v.Activity != playback.ActivityFinished {
			return fmt.Errorf("vehicle %d is %s at the last tick", v.Vehicle, v.Activity)
		}
	}
	return nil
}

func (hc *haulContext) playingAgainShouldProduceTheSameSnapshots() error {
	if err := hc.requireSummary(); err != nil {
		return err
	}
	first := hc.snapshots
	if err := hc.iPlayThePlan(); err != nil {
		return err
	}
	if err := hc.requireSummary(); err != nil {
		return err
	}
	if len(first) != len(hc.snapshots) {
		return fmt.Errorf("first replay had %d snapshots, second had %d", len(first), len(hc.snapshots))
	}
	for i := range first {
		if first[i].Delivered != hc.snapshots[i].Delivered || first[i].InTransit() != hc.snapshots[i].InTransit() {
			return fmt.Errorf("replays diverge at tick %d", i)
		}
	}
	return nil
}

func registerPlaybackSteps(ctx *godog.ScenarioContext, hc *haulContext) {
	// When steps
	ctx.Step(`^I play the plan$`, hc.iPlayThePlan)
	ctx.Step(`^I play the plan with ticks of ([0-9.]+)$`, hc.iPlayThePlanWithTicksOf)
	ctx.Step(`^I play the plan with (\d+) unload bays?$`, hc.iPlayThePlanWithUnloadBays)

	// Then steps
	ctx.Step(`^playback should finish at tick (\d+)$`, hc.playbackShouldFinishAtTick)
	ctx.Step(`^the delivered material should be (\d+)$`, hc.theDeliveredMaterialShouldBe)
	ctx.Step(`^material should be conserved at every tick$`, hc.materialShouldBeConservedAtEveryTick)
	ctx.Step(`^vehicle (\d+) should have waited (\d+) ticks?$`, hc.vehicleShouldHaveWaitedTicks)
	ctx.Step(`^the replayed time should exceed the planned makespan$`, hc.theReplayedTimeShouldExceedThePlannedMakespan)
	ctx.Step(`^every vehicle should be finished$`, hc.everyVehicleShouldBeFinished)
	ctx.Step(`^playing again should produce the same snapshots$`, hc.playingAgainShouldProduceTheSameSnapshots)
}
