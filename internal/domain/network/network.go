package network

import (
	"fmt"
	"math"
	"sort"

	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// Edge represents an undirected road between two sites.
// Distance is expressed in distance units; the solver converts it to time.
type Edge struct {
	From     shared.SiteID `json:"from"`
	To       shared.SiteID `json:"to"`
	Distance float64       `json:"distance"`
}

// Neighbor is one adjacency entry
type Neighbor struct {
	Site     shared.SiteID
	Distance float64
}

// Network is the immutable road network the optimizer works on.
// It holds exactly one depot and keeps mines in declaration order, which is the
// stable mine index used by every fleet state.
type Network struct {
	depot     shared.SiteID
	sites     map[shared.SiteID]*shared.Site
	order     []shared.SiteID
	mines     []shared.SiteID
	edges     []Edge
	adjacency map[shared.SiteID][]Neighbor
}

// NewNetwork validates sites and edges and builds the adjacency lists.
//
// Errors:
//   - ValidationError for duplicate ids, a missing depot or more than one depot
//   - UnknownSiteError for edges naming undeclared sites
//   - InfeasibleConfigError for negative or non-finite distances
func NewNetwork(sites []*shared.Site, edges []Edge) (*Network, error) {
	n := &Network{
		sites:     make(map[shared.SiteID]*shared.Site, len(sites)),
		adjacency: make(map[shared.SiteID][]Neighbor, len(sites)),
	}

	for _, site := range sites {
		if site == nil || site.ID == "" {
			return nil, shared.NewValidationError("sites", "site id cannot be empty")
		}
		if _, exists := n.sites[site.ID]; exists {
			return nil, shared.NewValidationError("sites", fmt.Sprintf("duplicate site id %s", site.ID))
		}

		copied := *site
		n.sites[site.ID] = &copied
		n.order = append(n.order, site.ID)
		n.adjacency[site.ID] = nil

		switch site.Role {
		case shared.RoleDepot:
			if n.depot != "" {
				return nil, shared.NewValidationError("sites", fmt.Sprintf("second depot %s (depot is %s)", site.ID, n.depot))
			}
			n.depot = site.ID
		case shared.RoleMine:
			if site.Material < 0 {
				return nil, shared.NewInfeasibleConfigError(fmt.Sprintf("mine %s material", site.ID), "cannot be negative")
			}
			n.mines = append(n.mines, site.ID)
		default:
			return nil, shared.NewValidationError("sites", fmt.Sprintf("site %s has unknown role %q", site.ID, site.Role))
		}
	}

	if n.depot == "" {
		return nil, shared.NewValidationError("sites", "network has no depot")
	}

	for _, edge := range edges {
		if err := n.addEdge(edge); err != nil {
			return nil, err
		}
	}

	for id := range n.adjacency {
		neighbors := n.adjacency[id]
		sort.SliceStable(neighbors, func(i, j int) bool { return neighbors[i].Site < neighbors[j].Site })
	}

	return n, nil
}

func (n *Network) addEdge(edge Edge) error {
	if _, ok := n.sites[edge.From]; !ok {
		return shared.NewUnknownSiteError(edge.From)
	}
	if _, ok := n.sites[edge.To]; !ok {
		return shared.NewUnknownSiteError(edge.To)
	}
	if math.IsNaN(edge.Distance) || math.IsInf(edge.Distance, 0) {
		return shared.NewInfeasibleConfigError(fmt.Sprintf("edge %s-%s distance", edge.From, edge.To), "must be finite")
	}
	if edge.Distance < 0 {
		return shared.NewInfeasibleConfigError(fmt.Sprintf("edge %s-%s distance", edge.From, edge.To), "cannot be negative")
	}

	n.edges = append(n.edges, edge)
	n.adjacency[edge.From] = append(n.adjacency[edge.From], Neighbor{Site: edge.To, Distance: edge.Distance})
	if edge.From != edge.To {
		n.adjacency[edge.To] = append(n.adjacency[edge.To], Neighbor{Site: edge.From, Distance: edge.Distance})
	}
	return nil
}

// Depot returns the depot id
func (n *Network) Depot() shared.SiteID { return n.depot }

// Mines returns mine ids in their stable order
func (n *Network) Mines() []shared.SiteID {
	mines := make([]shared.SiteID, len(n.mines))
	copy(mines, n.mines)
	return mines
}

// Sites returns every site id in declaration order
func (n *Network) Sites() []shared.SiteID {
	ids := make([]shared.SiteID, len(n.order))
	copy(ids, n.order)
	return ids
}

// Edges returns a copy of the edge list
func (n *Network) Edges() []Edge {
	edges := make([]Edge, len(n.edges))
	copy(edges, n.edges)
	return edges
}

// GetSite retrieves a site by id
func (n *Network) GetSite(id shared.SiteID) (*shared.Site, error) {
	site, exists := n.sites[id]
	if !exists {
		return nil, shared.NewUnknownSiteError(id)
	}
	copied := *site
	return &copied, nil
}

// HasSite checks if a site exists in the network
func (n *Network) HasSite(id shared.SiteID) bool {
	_, exists := n.sites[id]
	return exists
}

// Neighbors returns the adjacency list of a site sorted by neighbor id
func (n *Network) Neighbors(id shared.SiteID) []Neighbor {
	return n.adjacency[id]
}

// InitialMaterial returns each mine's declared material in mine order
func (n *Network) InitialMaterial() []int {
	stock := make([]int, len(n.mines))
	for i, id := range n.mines {
		stock[i] = n.sites[id].Material
	}
	return stock
}

// SiteCount returns the number of sites in the network
func (n *Network) SiteCount() int { return len(n.order) }

// EdgeCount returns the number of edges in the network
func (n *Network) EdgeCount() int { return len(n.edges) }
