package routing

import (
	"container/heap"
	"math"
	"sync"

	"github.com/andrescamacho/minehaul-go/internal/domain/network"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// DijkstraOracle computes shortest paths with Dijkstra's algorithm and caches
// one shortest-path tree per source site.
//
// Caching Strategy:
// - trees holds every tree built so far (never invalidated, the network is immutable)
// - buildLocks holds one mutex per source so concurrent callers build a tree once
// - a pair is always answered from the tree of its smaller endpoint, so
//   Shortest(a, b) and Shortest(b, a) read the same cost
type DijkstraOracle struct {
	net        *network.Network
	trees      sync.Map // key: shared.SiteID -> *pathTree
	buildLocks sync.Map // key: shared.SiteID -> *sync.Mutex
}

// NewDijkstraOracle creates an oracle over an immutable network
func NewDijkstraOracle(net *network.Network) *DijkstraOracle {
	return &DijkstraOracle{net: net}
}

// pathTree is a single-source shortest-path result
type pathTree struct {
	source shared.SiteID
	dist   map[shared.SiteID]float64
	parent map[shared.SiteID]shared.SiteID
}

// Shortest returns the cost and path between two sites.
//
// Errors:
//   - UnknownSiteError when either site is not part of the network
//   - UnreachableError when the sites lie in different components
func (o *DijkstraOracle) Shortest(from, to shared.SiteID) (Route, error) {
	if !o.net.HasSite(from) {
		return Route{}, shared.NewUnknownSiteError(from)
	}
	if !o.net.HasSite(to) {
		return Route{}, shared.NewUnknownSiteError(to)
	}
	if from == to {
		return Route{From: from, To: to, Cost: 0, Path: []shared.SiteID{from}}, nil
	}

	source, target := from, to
	reversed := false
	if target < source {
		source, target = target, source
		reversed = true
	}

	tree := o.tree(source)
	cost, ok := tree.dist[target]
	if !ok {
		return Route{}, shared.NewUnreachableError(from, to)
	}

	path := tree.pathTo(target)
	if reversed {
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
	}

	return Route{From: from, To: to, Cost: cost, Path: path}, nil
}

// Reachable returns every site connected to the given one (itself included)
func (o *DijkstraOracle) Reachable(from shared.SiteID) (map[shared.SiteID]bool, error) {
	if !o.net.HasSite(from) {
		return nil, shared.NewUnknownSiteError(from)
	}
	tree := o.tree(from)
	reachable := make(map[shared.SiteID]bool, len(tree.dist))
	for id := range tree.dist {
		reachable[id] = true
	}
	return reachable, nil
}

// tree returns the cached tree for a source, building it under a per-source lock
func (o *DijkstraOracle) tree(source shared.SiteID) *pathTree {
	if cached, ok := o.trees.Load(source); ok {
		return cached.(*pathTree)
	}

	lock, _ := o.buildLocks.LoadOrStore(source, &sync.Mutex{})
	mutex := lock.(*sync.Mutex)
	mutex.Lock()
	defer mutex.Unlock()

	// Double-check after acquiring lock - another goroutine may have built it
	if cached, ok := o.trees.Load(source); ok {
		return cached.(*pathTree)
	}

	tree := buildTree(o.net, source)
	o.trees.Store(source, tree)
	return tree
}

func (t *pathTree) pathTo(target shared.SiteID) []shared.SiteID {
	var reversed []shared.SiteID
	for current := target; ; {
		reversed = append(reversed, current)
		if current == t.source {
			break
		}
		current = t.parent[current]
	}

	path := make([]shared.SiteID, len(reversed))
	for i, id := range reversed {
		path[len(reversed)-1-i] = id
	}
	return path
}

// queueItem for the Dijkstra frontier
type queueItem struct {
	site shared.SiteID
	dist float64
}

// frontier implements heap.Interface; equal distances pop in site id order so
// parent pointers (and therefore paths) are deterministic
type frontier []queueItem

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].dist != f[j].dist {
		return f[i].dist < f[j].dist
	}
	return f[i].site < f[j].site
}
func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any)   { *f = append(*f, x.(queueItem)) }
func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}

func buildTree(net *network.Network, source shared.SiteID) *pathTree {
	tree := &pathTree{
		source: source,
		dist:   map[shared.SiteID]float64{source: 0},
		parent: make(map[shared.SiteID]shared.SiteID),
	}
	settled := make(map[shared.SiteID]bool)

	queue := &frontier{{site: source, dist: 0}}
	for queue.Len() > 0 {
		item := heap.Pop(queue).(queueItem)
		if settled[item.site] {
			continue
		}
		settled[item.site] = true

		for _, neighbor := range net.Neighbors(item.site) {
			if settled[neighbor.Site] {
				continue
			}
			candidate := item.dist + neighbor.Distance
			best, seen := tree.dist[neighbor.Site]
			if !seen {
				best = math.Inf(1)
			}
			// Equal-cost alternatives keep the parent with the smaller id
			if candidate < best || (candidate == best && item.site < tree.parent[neighbor.Site]) {
				tree.dist[neighbor.Site] = candidate
				tree.parent[neighbor.Site] = item.site
				heap.Push(queue, queueItem{site: neighbor.Site, dist: candidate})
			}
		}
	}

	return tree
}
