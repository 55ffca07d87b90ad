package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/minehaul-go/internal/application/dispatch/commands"
	"github.com/andrescamacho/minehaul-go/internal/application/dispatch/queries"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

func (hc *haulContext) thePlanShouldBeStored() error {
	if err := hc.requirePlan(); err != nil {
		return err
	}
	if hc.planID == "" {
		return fmt.Errorf("plan was not given an id")
	}
	stored, err := hc.planRepo.FindByID(context.Background(), hc.planID)
	if err != nil {
		return err
	}
	if stored.Makespan != hc.plan.Makespan {
		return fmt.Errorf("stored makespan %v differs from solved makespan %v", stored.Makespan, hc.plan.Makespan)
	}
	if len(stored.Schedule.Assignments) != len(hc.plan.Schedule.Assignments) {
		return fmt.Errorf("stored schedule has %d trips, solved schedule has %d",
			len(stored.Schedule.Assignments), len(hc.plan.Schedule.Assignments))
	}
	return nil
}

func (hc *haulContext) iListTheStoredPlans() error {
	resp, err := hc.med.Send(context.Background(), &queries.ListPlansQuery{})
	if err != nil {
		return err
	}
	hc.plans = resp.(*queries.ListPlansResponse).Plans
	return nil
}

func (hc *haulContext) plansShouldBeListed(count int) error {
	if len(hc.plans) != count {
		return fmt.Errorf("expected %d plans, got %d", count, len(hc.plans))
	}
	return nil
}

func (hc *haulContext) iReplayTheStoredPlan() error {
	return hc.replay(&queries.ReplayPlanQuery{PlanID: hc.planID})
}

func (hc *haulContext) iDeleteTheStoredPlan() error {
	_, err := hc.med.Send(context.Background(), &commands.DeletePlanCommand{ID: hc.planID})
	return err
}

func (hc *haulContext) fetchingTheStoredPlanShouldFailWithNotFound() error {
	_, err := hc.med.Send(context.Background(), &queries.GetPlanQuery{ID: hc.planID})
	var notFound *shared.PlanNotFoundError
	if !errors.As(err, &notFound) {
		return fmt.Errorf("expected plan not found, got %v", err)
	}
	return nil
}

func registerPlanStoreSteps(ctx *godog.ScenarioContext, hc *haulContext) {
	// When steps
	ctx.Step(`^I list the stored plans$`, hc.iListTheStoredPlans)
	ctx.Step(`^I replay the stored plan$`, hc.iReplayTheStoredPlan)
	ctx.Step(`^I delete the stored plan$`, hc.iDeleteTheStoredPlan)

	// Then steps
	ctx.Step(`^the plan should be stored$`, hc.thePlanShouldBeStored)
	ctx.Step(`^(\d+) plans? should be listed$`, hc.plansShouldBeListed)
	ctx.Step(`^fetching the stored plan should fail with not found$`, hc.fetchingTheStoredPlanShouldFailWithNotFound)
}
