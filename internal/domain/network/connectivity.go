package network

import (
	"sort"

	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// Component is one connected piece of the road network
type Component struct {
	ID       int
	Sites    []shared.SiteID
	HasDepot bool
}

// ConnectivityReport summarizes how the road network splits into components
type ConnectivityReport struct {
	Components []Component
	// StrandedMines are mines that share no component with the depot
	StrandedMines []shared.SiteID
}

// IsConnected reports whether the whole network forms a single component
func (r *ConnectivityReport) IsConnected() bool {
	return len(r.Components) <= 1
}

// AnalyzeConnectivity labels every site with its connected component using a
// breadth-first walk. Components are numbered from 1 in site declaration order.
func AnalyzeConnectivity(n *Network) *ConnectivityReport {
	visited := make(map[shared.SiteID]bool, n.SiteCount())
	report := &ConnectivityReport{}

	for _, start := range n.order {
		if visited[start] {
			continue
		}

		component := Component{ID: len(report.Components) + 1}
		queue := []shared.SiteID{start}
		visited[start] = true

		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			component.Sites = append(component.Sites, current)
			if current == n.depot {
				component.HasDepot = true
			}

			for _, neighbor := range n.adjacency[current] {
				if !visited[neighbor.Site] {
					visited[neighbor.Site] = true
					queue = append(queue, neighbor.Site)
				}
			}
		}

		sort.Slice(component.Sites, func(i, j int) bool { return component.Sites[i] < component.Sites[j] })
		report.Components = append(report.Components, component)
	}

	depotComponent := make(map[shared.SiteID]bool)
	for _, component := range report.Components {
		if component.HasDepot {
			for _, id := range component.Sites {
				depotComponent[id] = true
			}
		}
	}
	for _, mine := range n.mines {
		if !depotComponent[mine] {
			report.StrandedMines = append(report.StrandedMines, mine)
		}
	}

	return report
}
