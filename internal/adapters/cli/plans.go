package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/minehaul-go/internal/application/dispatch/commands"
	"github.com/andrescamacho/minehaul-go/internal/application/dispatch/queries"
	"github.com/andrescamacho/minehaul-go/internal/application/mediator"
)

// NewPlansCommand creates the plans command with subcommands
func NewPlansCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Manage stored dispatch plans",
		Long: `List, show and delete plans stored with 'minehaul solve --save'.

Examples:
  minehaul plans list
  minehaul plans show plan-north-pit-a3f8e2b1 --paths
  minehaul plans delete plan-north-pit-a3f8e2b1`,
	}

	cmd.AddCommand(newPlansListCommand())
	cmd.AddCommand(newPlansShowCommand())
	cmd.AddCommand(newPlansDeleteCommand())

	return cmd
}

func newPlansListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored plans, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(true)
			if err != nil {
				return err
			}
			defer sess.close()

			resp, err := mediator.SendTyped[*queries.ListPlansResponse](sess.context(cmd.Context()), sess.med, &queries.ListPlansQuery{Limit: limit})
			if err != nil {
				return err
			}
			plans := resp.Plans

			if jsonOutput {
				return printJSON(os.Stdout, plans)
			}
			if len(plans) == 0 {
				fmt.Println("No stored plans")
				return nil
			}

			fmt.Printf("%-42s %-20s %-8s %-10s %-6s %s\n", "ID", "SCENARIO", "STRATEGY", "MAKESPAN", "TRIPS", "CREATED")
			fmt.Println(strings.Repeat("-", 110))
			for _, p := range plans {
				trips := 0
				if p.Schedule != nil {
					trips = len(p.Schedule.Assignments)
				}
				fmt.Printf("%-42s %-20s %-8s %-10s %-6d %s\n",
					truncate(p.ID, 42), truncate(p.Scenario, 20), p.Strategy,
					formatNumber(p.Makespan), trips, formatTimestamp(p.CreatedAt))
			}
			fmt.Printf("\nTotal: %d plan(s)\n", len(plans))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", queries.DefaultListLimit, "Maximum plans to list")

	return cmd
}

func newPlansShowCommand() *cobra.Command {
	var showPaths bool

	cmd := &cobra.Command{
		Use:   "show <plan-id>",
		Short: "Show a stored plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(true)
			if err != nil {
				return err
			}
			defer sess.close()

			resp, err := mediator.SendTyped[*queries.GetPlanResponse](sess.context(cmd.Context()), sess.med, &queries.GetPlanQuery{ID: args[0]})
			if err != nil {
				return err
			}
			plan := resp.Plan

			if jsonOutput {
				return printJSON(os.Stdout, plan)
			}

			fmt.Printf("Plan:     %s\n", plan.ID)
			fmt.Printf("Scenario: %s\n", plan.Scenario)
			fmt.Printf("Strategy: %s\n", plan.Strategy)
			fmt.Printf("Created:  %s\n", formatTimestamp(plan.CreatedAt))
			fmt.Printf("Search:   %d states, %d memo hits, %s\n\n",
				plan.Stats.StatesExpanded, plan.Stats.MemoHits, plan.Stats.Duration)
			fmt.Print(NewScheduleFormatter(showPaths).FormatSchedule(plan.Schedule))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showPaths, "paths", false, "Show the road path of every leg")

	return cmd
}

func newPlansDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <plan-id>",
		Short: "Delete a stored plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(true)
			if err != nil {
				return err
			}
			defer sess.close()

			if _, err := sess.med.Send(sess.context(cmd.Context()), &commands.DeletePlanCommand{ID: args[0]}); err != nil {
				return err
			}
			fmt.Printf("✓ Plan %s deleted\n", args[0])
			return nil
		},
	}

	return cmd
}
