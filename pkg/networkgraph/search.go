package networkgraph

import (
	"container/heap"
	"math"
	"strings"

	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/errs"
)

type Criteria string

const (
	CriteriaTime      Criteria = "time"
	CriteriaDistance  Criteria = "distance"
	CriteriaFare      Criteria = "fare"
	CriteriaTransfers Criteria = "transfers"
)

// ParseCriteria defaults an empty string to time.
func ParseCriteria(value string) (Criteria, error) {
	switch Criteria(value) {
	case "":
		return CriteriaTime, nil
	case CriteriaTime, CriteriaDistance, CriteriaFare, CriteriaTransfers:
		return Criteria(value), nil
	default:
		return "", errs.New(errs.ErrInvalidCriteria, "unknown criteria %q", value)
	}
}

type PathResult struct {
	Criteria      Criteria `json:"criteria"`
	Path          []string `json:"path"`
	TotalDistance float64  `json:"total_distance"`
	TotalTime     float64  `json:"total_time"`
	TotalFare     float64  `json:"total_fare"`
	Transfers     int      `json:"transfers"`
	Cost          float64  `json:"cost"`
	Stops         int      `json:"stops"`
}

func (g *Graph) edgeCost(edge *Edge, previousRoute string, criteria Criteria) float64 {
	switch criteria {
	case CriteriaDistance:
		return edge.Distance
	case CriteriaFare:
		return edge.Fare
	case CriteriaTransfers:
		cost := edge.Distance * g.TransferTiebreak
		if previousRoute != "" && edge.RouteID != "" && edge.RouteID != previousRoute {
			cost += g.TransferPenalty
		}
		return cost
	default:
		return edge.Time
	}
}

// ShortestPath runs a best-first search over (stop, route ridden) states so the transfer
// penalty sees which route the traveller arrived on.
// An unreachable destination returns ErrNoPath with Cost set to +Inf.
func (g *Graph) ShortestPath(start string, end string, criteria Criteria) (PathResult, error) {
	unreachable := PathResult{Criteria: criteria, Path: []string{}, Cost: math.Inf(1)}

	if !g.HasStop(start) {
		return unreachable, errs.New(errs.ErrUnknownStop, "stop %s does not exist", start)
	}
	if !g.HasStop(end) {
		return unreachable, errs.New(errs.ErrUnknownStop, "stop %s does not exist", end)
	}
	if criteria == "" {
		criteria = CriteriaTime
		unreachable.Criteria = criteria
	}
	if _, err := ParseCriteria(string(criteria)); err != nil {
		return unreachable, err
	}

	if start == end {
		return PathResult{Criteria: criteria, Path: []string{start}}, nil
	}

	origin := searchState{stop: start}

	costs := map[searchState]float64{origin: 0}
	previous := map[searchState]searchState{}
	settled := map[searchState]bool{}

	queue := &stateQueue{}
	sequence := 0
	heap.Push(queue, queueItem{cost: 0, state: origin, seq: sequence})

	var best searchState
	bestCost := math.Inf(1)

	for queue.Len() > 0 {
		item := heap.Pop(queue).(queueItem)

		if settled[item.state] {
			continue
		}
		// nothing left in the queue can beat a settled destination
		if item.cost > bestCost {
			break
		}
		settled[item.state] = true

		if item.state.stop == end {
			if item.cost < bestCost {
				bestCost = item.cost
				best = item.state
			}
			continue
		}

		current := g.nodes[item.state.stop]
		for _, neighbour := range current.order {
			edge := current.edges[neighbour]
			next := searchState{stop: neighbour, route: edge.RouteID}

			if settled[next] {
				continue
			}

			cost := item.cost + g.edgeCost(edge, item.state.route, criteria)
			if known, ok := costs[next]; ok && cost >= known {
				continue
			}

			costs[next] = cost
			previous[next] = item.state

			sequence++
			heap.Push(queue, queueItem{cost: cost, state: next, seq: sequence})
		}
	}

	if math.IsInf(bestCost, 1) {
		return unreachable, errs.New(errs.ErrNoPath, "no path from %s to %s", start, end)
	}

	states := []searchState{best}
	for state := best; state != origin; {
		state = previous[state]
		states = append(states, state)
	}

	result := PathResult{
		Criteria: criteria,
		Path:     make([]string, 0, len(states)),
		Cost:     bestCost,
	}
	for i := len(states) - 1; i >= 0; i-- {
		result.Path = append(result.Path, states[i].stop)
	}

	lastRoute := ""
	for i := 0; i < len(result.Path)-1; i++ {
		edge, _ := g.edge(result.Path[i], result.Path[i+1])

		result.TotalDistance += edge.Distance
		result.TotalTime += edge.Time
		result.TotalFare += edge.Fare

		if edge.RouteID != "" {
			if lastRoute != "" && edge.RouteID != lastRoute {
				result.Transfers++
			}
			lastRoute = edge.RouteID
		}
	}
	result.TotalFare = math.Round(result.TotalFare*100) / 100
	result.Stops = len(result.Path) - 1

	return result, nil
}

type NearestResult struct {
	Found    bool     `json:"found"`
	Stop     string   `json:"stop,omitempty"`
	Location string   `json:"location,omitempty"`
	Hops     int      `json:"hops"`
	Path     []string `json:"path"`
}

// NearestStop searches breadth first from the first stop added to the graph.
func (g *Graph) NearestStop(location string) NearestResult {
	if len(g.order) == 0 {
		return NearestResult{Path: []string{}}
	}

	result, _ := g.NearestStopFrom(g.order[0], location)
	return result
}

// NearestStopFrom returns the stop fewest hops from start whose location contains the
// query, ignoring case. Neighbours are visited in the order their edges were added.
func (g *Graph) NearestStopFrom(start string, location string) (NearestResult, error) {
	if !g.HasStop(start) {
		return NearestResult{Path: []string{}}, errs.New(errs.ErrUnknownStop, "stop %s does not exist", start)
	}

	needle := strings.ToLower(location)

	type visit struct {
		stop string
		path []string
	}

	visited := map[string]bool{}
	queue := []visit{{stop: start, path: []string{start}}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current.stop] {
			continue
		}
		visited[current.stop] = true

		n := g.nodes[current.stop]
		if strings.Contains(strings.ToLower(n.stop.Location), needle) {
			return NearestResult{
				Found:    true,
				Stop:     current.stop,
				Location: n.stop.Location,
				Hops:     len(current.path) - 1,
				Path:     current.path,
			}, nil
		}

		for _, neighbour := range n.order {
			if visited[neighbour] {
				continue
			}

			path := make([]string, len(current.path), len(current.path)+1)
			copy(path, current.path)
			queue = append(queue, visit{stop: neighbour, path: append(path, neighbour)})
		}
	}

	return NearestResult{Path: []string{}}, nil
}

// EnumeratePaths lists every simple path leaving start with between 1 and maxDepth edges,
// in depth first order.
func (g *Graph) EnumeratePaths(start string, maxDepth int) ([][]string, error) {
	if !g.HasStop(start) {
		return nil, errs.New(errs.ErrUnknownStop, "stop %s does not exist", start)
	}

	paths := [][]string{}
	onPath := map[string]bool{}

	var walk func(stop string, path []string)
	walk = func(stop string, path []string) {
		if len(path) > 1 {
			found := make([]string, len(path))
			copy(found, path)
			paths = append(paths, found)
		}
		if len(path)-1 >= maxDepth {
			return
		}

		onPath[stop] = true
		for _, neighbour := range g.nodes[stop].order {
			if !onPath[neighbour] {
				walk(neighbour, append(path, neighbour))
			}
		}
		onPath[stop] = false
	}

	walk(start, []string{start})

	return paths, nil
}

// HasCycle reports whether any connected component contains a cycle.
func (g *Graph) HasCycle() bool {
	visited := map[string]bool{}

	var walk func(stop string, parent string) bool
	walk = func(stop string, parent string) bool {
		visited[stop] = true

		for _, neighbour := range g.nodes[stop].order {
			if !visited[neighbour] {
				if walk(neighbour, stop) {
					return true
				}
			} else if neighbour != parent {
				return true
			}
		}

		return false
	}

	for _, stop := range g.order {
		if !visited[stop] && walk(stop, "") {
			return true
		}
	}

	return false
}

// ClosestStop returns the stop with coordinates nearest to the given point.
func (g *Graph) ClosestStop(latitude float64, longitude float64) (ctdf.Stop, float64, bool) {
	var closest ctdf.Stop
	closestDistance := math.Inf(1)
	found := false

	for _, name := range g.order {
		stop := g.nodes[name].stop
		if !stop.HasCoordinates() {
			continue
		}

		distance := ctdf.DistanceKm(latitude, longitude, *stop.Latitude, *stop.Longitude)
		if distance < closestDistance {
			closest = stop
			closestDistance = distance
			found = true
		}
	}

	return closest, closestDistance, found
}
