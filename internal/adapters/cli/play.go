package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/minehaul-go/internal/application/dispatch/commands"
	"github.com/andrescamacho/minehaul-go/internal/application/dispatch/queries"
	"github.com/andrescamacho/minehaul-go/internal/application/mediator"
	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/playback"
)

// NewPlayCommand creates the play command
func NewPlayCommand() *cobra.Command {
	var (
		sFlags     scenarioFlags
		solveFlags solverFlags
		planID     string
		tick       float64
		unloadBays int
		pace       float64
		every      int
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "play [scenario]",
		Short: "Replay a dispatch plan tick by tick",
		Long: `Replay a dispatch plan as a tick-driven simulation.

Without --plan the scenario is solved first and the fresh plan is played.
Vehicles queue first come first served at each mine's loading bay, and at
the depot when --unload-bays is set, so the replayed finish time can exceed
the planned makespan.

Examples:
  minehaul play scenarios/north-pit.yaml
  minehaul play --plan plan-north-pit-a3f8e2b1 --pace 10
  minehaul play data/pit --tick 0.5 --unload-bays 1 --every 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(planID != "")
			if err != nil {
				return err
			}
			defer sess.close()

			if err := sess.serveMetrics(); err != nil {
				return err
			}
			ctx := sess.context(cmd.Context())

			opts := playback.Options{
				TickDuration: sess.cfg.Playback.TickDuration,
				UnloadBays:   sess.cfg.Playback.UnloadBays,
			}
			if cmd.Flags().Changed("tick") {
				opts.TickDuration = tick
			}
			if cmd.Flags().Changed("unload-bays") {
				opts.UnloadBays = unloadBays
			}
			if !cmd.Flags().Changed("pace") {
				pace = sess.cfg.Playback.PacePerSecond
			}
			if every < 1 {
				every = 1
			}

			query := &queries.ReplayPlanQuery{PlanID: planID, Options: opts}
			if planID == "" {
				schedule, err := solveForPlayback(ctx, cmd, sess, args, &sFlags, &solveFlags)
				if err != nil {
					return err
				}
				query.Schedule = schedule
			}

			formatter := NewScheduleFormatter(false)
			var limiter *rate.Limiter
			if pace > 0 {
				limiter = rate.NewLimiter(rate.Limit(pace), 1)
			}
			query.OnSnapshot = func(snapshot *playback.Snapshot) error {
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						return err
					}
				}
				if quiet || jsonOutput {
					return nil
				}
				if snapshot.Tick%every == 0 || snapshot.Done() {
					fmt.Println(formatter.FormatSnapshot(snapshot))
				}
				return nil
			}

			result, err := mediator.SendTyped[*queries.ReplayPlanResponse](ctx, sess.med, query)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(os.Stdout, result.Summary)
			}
			fmt.Println()
			fmt.Print(formatter.FormatSummary(result.Summary))
			return nil
		},
	}

	sFlags.register(cmd)
	solveFlags.register(cmd)
	cmd.Flags().StringVar(&planID, "plan", "", "Replay a stored plan instead of solving")
	cmd.Flags().Float64Var(&tick, "tick", 1, "Simulated time per tick")
	cmd.Flags().IntVar(&unloadBays, "unload-bays", 0, "Concurrent unloads at the depot (0 = unlimited)")
	cmd.Flags().Float64Var(&pace, "pace", 0, "Ticks per wall-clock second (0 = as fast as possible)")
	cmd.Flags().IntVar(&every, "every", 1, "Print every Nth tick")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the summary")

	return cmd
}

func solveForPlayback(ctx context.Context, cmd *cobra.Command, sess *session, args []string, sFlags *scenarioFlags, solveFlags *solverFlags) (*dispatch.Schedule, error) {
	sc, err := loadScenario(args, sFlags)
	if err != nil {
		return nil, err
	}
	problem, err := sc.Problem()
	if err != nil {
		return nil, err
	}
	settings, err := solveFlags.settings(cmd, sess.cfg.Solver)
	if err != nil {
		return nil, err
	}

	resp, err := mediator.SendTyped[*commands.PlanDispatchResponse](ctx, sess.med, &commands.PlanDispatchCommand{
		ScenarioName: sc.Name,
		Problem:      problem,
		Settings:     settings,
	})
	if err != nil {
		return nil, err
	}
	plan := resp.Plan
	if !jsonOutput {
		fmt.Printf("Planned %s: makespan %s with %d trips\n\n", sc.Name, formatNumber(plan.Makespan), len(plan.Schedule.Assignments))
	}
	return plan.Schedule, nil
}
