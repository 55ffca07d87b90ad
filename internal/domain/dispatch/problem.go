package dispatch

import (
	"fmt"
	"math"

	"github.com/andrescamacho/minehaul-go/internal/domain/network"
	"github.com/andrescamacho/minehaul-go/internal/domain/routing"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// Parameters are the fleet and timing inputs of a dispatch problem
type Parameters struct {
	// Capacity is the material a vehicle carries per trip
	Capacity int
	// FleetSize is the number of interchangeable vehicles, all starting at the depot
	FleetSize int
	// LoadTime is spent at every visited mine unless LoadTimes overrides it
	LoadTime float64
	// LoadTimes holds per-mine load time overrides
	LoadTimes map[shared.SiteID]float64
	// UnloadTime is spent at the depot at the end of every trip
	UnloadTime float64
	// TimePerDistance converts network distance into time (1 distance unit = 1 time unit by default)
	TimePerDistance float64
}

// DefaultParameters returns a single-vehicle parameter set with the 1:1
// distance-to-time conversion and no load or unload time
func DefaultParameters() Parameters {
	return Parameters{
		FleetSize:       1,
		TimePerDistance: 1,
	}
}

// Problem bundles a network, the fleet parameters and the initial stock of
// every mine (in the network's mine order)
type Problem struct {
	net       *network.Network
	params    Parameters
	stock     []int
	mineIndex map[shared.SiteID]int
	loadTimes []float64
	oracle    *routing.DijkstraOracle
}

// NewProblem validates the parameters against the network. The initial stock
// is the material declared on each mine.
//
// All validation failures are InfeasibleConfigError and happen before any search.
func NewProblem(net *network.Network, params Parameters) (*Problem, error) {
	if net == nil {
		return nil, shared.NewInfeasibleConfigError("network", "is required")
	}
	if err := validateParameters(net, params); err != nil {
		return nil, err
	}

	mines := net.Mines()
	p := &Problem{
		net:       net,
		params:    params,
		stock:     net.InitialMaterial(),
		mineIndex: make(map[shared.SiteID]int, len(mines)),
		loadTimes: make([]float64, len(mines)),
		oracle:    routing.NewDijkstraOracle(net),
	}
	for i, id := range mines {
		p.mineIndex[id] = i
		p.loadTimes[i] = params.LoadTime
		if override, ok := params.LoadTimes[id]; ok {
			p.loadTimes[i] = override
		}
	}

	return p, nil
}

func validateParameters(net *network.Network, params Parameters) error {
	if params.Capacity <= 0 {
		return shared.NewInfeasibleConfigError("capacity", fmt.Sprintf("must be positive, got %d", params.Capacity))
	}
	if params.FleetSize <= 0 {
		return shared.NewInfeasibleConfigError("fleet size", fmt.Sprintf("must be positive, got %d", params.FleetSize))
	}
	if !validDuration(params.LoadTime) {
		return shared.NewInfeasibleConfigError("load time", fmt.Sprintf("must be a non-negative number, got %v", params.LoadTime))
	}
	if !validDuration(params.UnloadTime) {
		return shared.NewInfeasibleConfigError("unload time", fmt.Sprintf("must be a non-negative number, got %v", params.UnloadTime))
	}
	if math.IsNaN(params.TimePerDistance) || math.IsInf(params.TimePerDistance, 0) || params.TimePerDistance <= 0 {
		return shared.NewInfeasibleConfigError("time per distance", fmt.Sprintf("must be positive, got %v", params.TimePerDistance))
	}
	for id, loadTime := range params.LoadTimes {
		site, err := net.GetSite(id)
		if err != nil {
			return shared.NewInfeasibleConfigError(fmt.Sprintf("load time for %s", id), "names an unknown site")
		}
		if !site.IsMine() {
			return shared.NewInfeasibleConfigError(fmt.Sprintf("load time for %s", id), "is only valid for mines")
		}
		if !validDuration(loadTime) {
			return shared.NewInfeasibleConfigError(fmt.Sprintf("load time for %s", id), fmt.Sprintf("must be a non-negative number, got %v", loadTime))
		}
	}
	return nil
}

func validDuration(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0) && d >= 0
}

// WithStock returns a copy of the problem whose listed mines start with the
// given material. Mines not listed keep their current stock.
func (p *Problem) WithStock(stock map[shared.SiteID]int) (*Problem, error) {
	copied := *p
	copied.stock = append([]int(nil), p.stock...)
	for id, amount := range stock {
		idx, ok := p.mineIndex[id]
		if !ok {
			return nil, shared.NewInfeasibleConfigError(fmt.Sprintf("stock for %s", id), "names an unknown mine")
		}
		if amount < 0 {
			return nil, shared.NewInfeasibleConfigError(fmt.Sprintf("stock for %s", id), "cannot be negative")
		}
		copied.stock[idx] = amount
	}
	return &copied, nil
}

// Network returns the road network
func (p *Problem) Network() *network.Network { return p.net }

// Params returns the fleet parameters
func (p *Problem) Params() Parameters { return p.params }

// Depot returns the depot id
func (p *Problem) Depot() shared.SiteID { return p.net.Depot() }

// Mines returns mine ids in stable order
func (p *Problem) Mines() []shared.SiteID { return p.net.Mines() }

// Stock returns the initial material per mine in mine order
func (p *Problem) Stock() []int { return append([]int(nil), p.stock...) }

// TotalMaterial is the material the plan has to move to the depot
func (p *Problem) TotalMaterial() int {
	total := 0
	for _, amount := range p.stock {
		total += amount
	}
	return total
}

// MineIndex returns the stable index of a mine
func (p *Problem) MineIndex(id shared.SiteID) (int, bool) {
	idx, ok := p.mineIndex[id]
	return idx, ok
}

// LoadTimeAt returns the load time of the mine with the given index
func (p *Problem) LoadTimeAt(mine int) float64 { return p.loadTimes[mine] }

// Oracle returns the shared distance oracle of the problem's network
func (p *Problem) Oracle() *routing.DijkstraOracle { return p.oracle }

// InitialState returns the fleet state with full mines and every vehicle idle at the depot
func (p *Problem) InitialState() FleetState {
	state := FleetState{
		Remaining: p.Stock(),
		Elapsed:   make([]float64, p.params.FleetSize),
		Location:  make([]shared.SiteID, p.params.FleetSize),
	}
	for i := range state.Location {
		state.Location[i] = p.Depot()
	}
	return state
}

// checkReachability fails fast when a mine that still holds material cannot be
// reached from the depot
func (p *Problem) checkReachability() error {
	reachable, err := p.oracle.Reachable(p.Depot())
	if err != nil {
		return err
	}
	for i, id := range p.net.Mines() {
		if p.stock[i] > 0 && !reachable[id] {
			return shared.NewUnreachableError(p.Depot(), id)
		}
	}
	return nil
}
