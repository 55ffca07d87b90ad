package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/minehaul-go/internal/application/dispatch/commands"
	"github.com/andrescamacho/minehaul-go/internal/application/mediator"
	"github.com/andrescamacho/minehaul-go/internal/infrastructure/config"
)

// solverFlags override the solver section of the configuration
type solverFlags struct {
	strategy     string
	workers      int
	maxNodes     int64
	timeout      string
	maxTripStops int
	noCanonical  bool
}

func (f *solverFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "Solver strategy: exact or greedy (default from config)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Goroutines sharing the exact search root")
	cmd.Flags().Int64Var(&f.maxNodes, "max-nodes", 0, "Abort after expanding this many fleet states")
	cmd.Flags().StringVar(&f.timeout, "timeout", "", "Abort the solve after this duration (e.g. 30s)")
	cmd.Flags().IntVar(&f.maxTripStops, "max-stops", 0, "Cap mines visited per trip")
	cmd.Flags().BoolVar(&f.noCanonical, "no-canonical", false, "Disable identical-vehicle state merging")
}

func (f *solverFlags) settings(cmd *cobra.Command, cfg config.SolverConfig) (commands.SolverSettings, error) {
	settings := commands.SolverSettings{
		Strategy:     cfg.Strategy,
		Workers:      cfg.Workers,
		MaxNodes:     cfg.MaxNodes,
		Timeout:      cfg.Timeout,
		MaxTripStops: cfg.MaxTripStops,
		Canonicalize: cfg.Canonicalize,
	}
	if f.strategy != "" {
		settings.Strategy = f.strategy
	}
	if cmd.Flags().Changed("workers") {
		settings.Workers = f.workers
	}
	if cmd.Flags().Changed("max-nodes") {
		settings.MaxNodes = f.maxNodes
	}
	if f.timeout != "" {
		timeout, err := parseDuration(f.timeout)
		if err != nil {
			return settings, fmt.Errorf("invalid --timeout: %w", err)
		}
		settings.Timeout = timeout
	}
	if cmd.Flags().Changed("max-stops") {
		settings.MaxTripStops = f.maxTripStops
	}
	if f.noCanonical {
		settings.Canonicalize = false
	}
	return settings, nil
}

// NewSolveCommand creates the solve command
func NewSolveCommand() *cobra.Command {
	var (
		sFlags     scenarioFlags
		solveFlags solverFlags
		save       bool
		showPaths  bool
	)

	cmd := &cobra.Command{
		Use:   "solve [scenario]",
		Short: "Compute a dispatch plan",
		Long: `Compute a minimum-makespan dispatch plan for a scenario.

The exact strategy explores every trip assignment with memoization and is
optimal; bound it with --max-nodes or --timeout on large sites. The greedy
strategy is fast and feasible but not optimal.

Examples:
  minehaul solve scenarios/north-pit.yaml
  minehaul solve data/pit --capacity 70 --fleet 2 --save
  minehaul solve scenarios/north-pit.yaml --workers 8 --timeout 1m --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(save)
			if err != nil {
				return err
			}
			defer sess.close()

			sc, err := loadScenario(args, &sFlags)
			if err != nil {
				return err
			}
			problem, err := sc.Problem()
			if err != nil {
				return err
			}
			settings, err := solveFlags.settings(cmd, sess.cfg.Solver)
			if err != nil {
				return err
			}

			result, err := mediator.SendTyped[*commands.PlanDispatchResponse](sess.context(cmd.Context()), sess.med, &commands.PlanDispatchCommand{
				ScenarioName: sc.Name,
				Problem:      problem,
				Settings:     settings,
				Persist:      save,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(os.Stdout, map[string]interface{}{
					"plan_id":  result.PlanID,
					"scenario": sc.Name,
					"makespan": result.Plan.Makespan,
					"stats":    result.Plan.Stats,
					"schedule": result.Plan.Schedule,
				})
			}

			fmt.Printf("Scenario %s: %d material in %d mine(s)\n\n", sc.Name, problem.TotalMaterial(), len(problem.Mines()))
			fmt.Print(NewScheduleFormatter(showPaths).FormatSchedule(result.Plan.Schedule))
			stats := result.Plan.Stats
			fmt.Printf("\nStrategy %s: %d states expanded, %d memo hits, %d memo entries in %s\n",
				stats.Strategy, stats.StatesExpanded, stats.MemoHits, stats.MemoSize, stats.Duration)
			if result.PlanID != "" {
				fmt.Printf("Saved as %s\n", result.PlanID)
			}
			return nil
		},
	}

	sFlags.register(cmd)
	solveFlags.register(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "Store the plan for later replay")
	cmd.Flags().BoolVar(&showPaths, "paths", false, "Show the road path of every leg")

	return cmd
}
