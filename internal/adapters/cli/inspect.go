package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/network"
	"github.com/andrescamacho/minehaul-go/internal/domain/routing"
)

type routeView struct {
	Mine       string   `json:"mine"`
	Material   int      `json:"material"`
	Reachable  bool     `json:"reachable"`
	Distance   float64  `json:"distance,omitempty"`
	TravelTime float64  `json:"travel_time,omitempty"`
	Path       []string `json:"path,omitempty"`
}

type tripView struct {
	Mines    []string `json:"mines"`
	Load     int      `json:"load"`
	Duration float64  `json:"duration"`
}

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	var (
		sFlags    scenarioFlags
		showTrips bool
		maxStops  int
	)

	cmd := &cobra.Command{
		Use:   "inspect [scenario]",
		Short: "Inspect a scenario's road network",
		Long: `Show the sites, connectivity and shortest depot routes of a scenario.

Mines that share no road component with the depot are reported as stranded;
solving such a scenario fails before any search. With --trips the candidate
first trips of a vehicle leaving the depot are listed.

Examples:
  minehaul inspect scenarios/north-pit.yaml
  minehaul inspect data/pit --trips --capacity 50`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(args, &sFlags)
			if err != nil {
				return err
			}

			net := sc.Network
			report := network.AnalyzeConnectivity(net)
			routes, err := depotRoutes(net, sc.Params.TimePerDistance)
			if err != nil {
				return err
			}

			var trips []tripView
			if showTrips {
				trips, err = firstTrips(sc.Network, sc.Params, maxStops)
				if err != nil {
					return err
				}
			}

			if jsonOutput {
				return printJSON(os.Stdout, map[string]interface{}{
					"scenario":       sc.Name,
					"depot":          net.Depot(),
					"sites":          net.SiteCount(),
					"roads":          net.EdgeCount(),
					"components":     report.Components,
					"stranded_mines": report.StrandedMines,
					"routes":         routes,
					"trips":          trips,
				})
			}

			fmt.Printf("Scenario: %s\n", sc.Name)
			if sc.Description != "" {
				fmt.Printf("  %s\n", sc.Description)
			}
			fmt.Printf("Depot:    %s\n", net.Depot())
			fmt.Printf("Sites:    %d (%d mines)\n", net.SiteCount(), len(net.Mines()))
			fmt.Printf("Roads:    %d\n", net.EdgeCount())
			fmt.Printf("Fleet:    %d vehicle(s), capacity %d\n\n", sc.Params.FleetSize, sc.Params.Capacity)

			fmt.Printf("Connectivity: %d component(s)\n", len(report.Components))
			for _, c := range report.Components {
				marker := ""
				if c.HasDepot {
					marker = " (depot)"
				}
				names := make([]string, len(c.Sites))
				for i, s := range c.Sites {
					names[i] = string(s)
				}
				fmt.Printf("  #%d%s: %s\n", c.ID, marker, truncate(strings.Join(names, ", "), 100))
			}
			if len(report.StrandedMines) > 0 {
				fmt.Printf("\n⚠ Stranded mines: %d\n", len(report.StrandedMines))
				for _, m := range report.StrandedMines {
					fmt.Printf("  - %s\n", m)
				}
			}

			fmt.Println("\nRoutes from depot:")
			fmt.Printf("%-20s %-10s %-10s %-10s %s\n", "MINE", "MATERIAL", "DISTANCE", "TIME", "PATH")
			fmt.Println(strings.Repeat("-", 90))
			for _, r := range routes {
				if !r.Reachable {
					fmt.Printf("%-20s %-10d %-10s %-10s %s\n", truncate(r.Mine, 20), r.Material, "-", "-", "unreachable")
					continue
				}
				fmt.Printf("%-20s %-10d %-10s %-10s %s\n", truncate(r.Mine, 20), r.Material,
					formatNumber(r.Distance), formatNumber(r.TravelTime), truncate(strings.Join(r.Path, " → "), 40))
			}

			if showTrips {
				fmt.Printf("\nCandidate first trips: %d\n", len(trips))
				for _, t := range trips {
					fmt.Printf("  %-40s load %-6d duration %s\n", strings.Join(t.Mines, " → "), t.Load, formatNumber(t.Duration))
				}
			}
			return nil
		},
	}

	sFlags.register(cmd)
	cmd.Flags().BoolVar(&showTrips, "trips", false, "List the candidate trips from the depot")
	cmd.Flags().IntVar(&maxStops, "max-stops", 0, "Cap mines visited per listed trip")

	return cmd
}

func depotRoutes(net *network.Network, timePerDistance float64) ([]routeView, error) {
	oracle := routing.NewDijkstraOracle(net)
	reachable, err := oracle.Reachable(net.Depot())
	if err != nil {
		return nil, err
	}

	routes := make([]routeView, 0, len(net.Mines()))
	for _, mine := range net.Mines() {
		site, err := net.GetSite(mine)
		if err != nil {
			return nil, err
		}
		view := routeView{Mine: string(mine), Material: site.Material, Reachable: reachable[mine]}
		if view.Reachable {
			route, err := oracle.Shortest(net.Depot(), mine)
			if err != nil {
				return nil, err
			}
			view.Distance = route.Cost
			view.TravelTime = route.Cost * timePerDistance
			for _, s := range route.Path {
				view.Path = append(view.Path, string(s))
			}
		}
		routes = append(routes, view)
	}
	return routes, nil
}

func firstTrips(net *network.Network, params dispatch.Parameters, maxStops int) ([]tripView, error) {
	problem, err := dispatch.NewProblem(net, params)
	if err != nil {
		return nil, err
	}

	enumerator := dispatch.NewTripEnumerator(problem, problem.Oracle(), maxStops)
	var trips []tripView
	for trip, err := range enumerator.Enumerate(problem.Depot(), problem.Stock(), params.Capacity) {
		if err != nil {
			return nil, err
		}
		view := tripView{Load: trip.Load(), Duration: trip.Duration}
		for _, m := range trip.Mines() {
			view.Mines = append(view.Mines, string(m))
		}
		trips = append(trips, view)
	}
	return trips, nil
}
