package networkgraph

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/errs"
)

const (
	DefaultFarePerKm        = 10.0
	DefaultTransferPenalty  = 5.0
	DefaultTransferTiebreak = 0.001
)

// Edge weights are shared by both directions of a connection.
type Edge struct {
	Distance float64 `json:"distance"`
	Time     float64 `json:"time"`
	Fare     float64 `json:"fare"`
	RouteID  string  `json:"route_id,omitempty"`
}

type Neighbour struct {
	Stop string `json:"stop"`
	Edge Edge   `json:"edge"`
}

type node struct {
	stop  ctdf.Stop
	edges map[string]*Edge
	// neighbour names in the order their edges were first added
	order []string
}

// Graph is the undirected weighted stop network.
type Graph struct {
	FarePerKm        float64
	TransferPenalty  float64
	TransferTiebreak float64

	nodes map[string]*node
	order []string
}

func New() *Graph {
	return &Graph{
		FarePerKm:        DefaultFarePerKm,
		TransferPenalty:  DefaultTransferPenalty,
		TransferTiebreak: DefaultTransferTiebreak,

		nodes: map[string]*node{},
	}
}

// AddStop is a no-op when the stop already exists.
func (g *Graph) AddStop(name string, location string, latitude *float64, longitude *float64) {
	if _, exists := g.nodes[name]; exists {
		return
	}

	g.nodes[name] = &node{
		stop: ctdf.Stop{
			Name:      name,
			Location:  location,
			Latitude:  latitude,
			Longitude: longitude,
		},
		edges: map[string]*Edge{},
	}
	g.order = append(g.order, name)
}

// AddEdge connects two existing stops in both directions, replacing any previous edge between them.
// A nil fare defaults to distance multiplied by FarePerKm.
func (g *Graph) AddEdge(a string, b string, distance float64, minutes float64, routeID string, fare *float64) error {
	nodeA, okA := g.nodes[a]
	nodeB, okB := g.nodes[b]

	if !okA {
		return errs.New(errs.ErrUnknownStop, "stop %s does not exist", a)
	}
	if !okB {
		return errs.New(errs.ErrUnknownStop, "stop %s does not exist", b)
	}
	if distance <= 0 {
		return errs.New(errs.ErrInvalidDistance, "edge %s-%s needs a positive distance, got %.2f", a, b, distance)
	}
	if minutes <= 0 {
		return errs.New(errs.ErrInvalidTime, "edge %s-%s needs a positive time, got %.2f", a, b, minutes)
	}

	edgeFare := distance * g.FarePerKm
	if fare != nil {
		edgeFare = *fare
	}

	edge := Edge{
		Distance: distance,
		Time:     minutes,
		Fare:     edgeFare,
		RouteID:  routeID,
	}

	nodeA.link(b, edge)
	nodeB.link(a, edge)

	return nil
}

func (n *node) link(neighbour string, edge Edge) {
	if existing, ok := n.edges[neighbour]; ok {
		*existing = edge
		return
	}

	n.edges[neighbour] = &edge
	n.order = append(n.order, neighbour)
}

func (g *Graph) HasStop(name string) bool {
	_, exists := g.nodes[name]
	return exists
}

func (g *Graph) Stop(name string) (ctdf.Stop, bool) {
	n, exists := g.nodes[name]
	if !exists {
		return ctdf.Stop{}, false
	}

	return n.stop, true
}

// Stops lists every stop in insertion order.
func (g *Graph) Stops() []ctdf.Stop {
	stops := make([]ctdf.Stop, 0, len(g.order))
	for _, name := range g.order {
		stops = append(stops, g.nodes[name].stop)
	}

	return stops
}

func (g *Graph) StopCount() int {
	return len(g.nodes)
}

func (g *Graph) EdgeCount() int {
	count := 0
	for _, n := range g.nodes {
		count += len(n.edges)
	}

	return count / 2
}

func (g *Graph) Neighbours(name string) ([]Neighbour, error) {
	n, exists := g.nodes[name]
	if !exists {
		return nil, errs.New(errs.ErrUnknownStop, "stop %s does not exist", name)
	}

	neighbours := make([]Neighbour, 0, len(n.order))
	for _, neighbour := range n.order {
		neighbours = append(neighbours, Neighbour{Stop: neighbour, Edge: *n.edges[neighbour]})
	}

	return neighbours, nil
}

func (g *Graph) edge(a string, b string) (*Edge, bool) {
	n, exists := g.nodes[a]
	if !exists {
		return nil, false
	}

	edge, exists := n.edges[b]
	return edge, exists
}

// BuildFromCatalogue adds every route's stops and links consecutive stops.
// Edge time is twice the distance plus the dwell at the departing stop, fare is per km.
func BuildFromCatalogue(g *Graph, catalogue *ctdf.Catalogue) error {
	for _, route := range catalogue.Routes {
		for _, stop := range route.Stops {
			g.AddStop(stop.StopName, stop.Location, stop.Latitude, stop.Longitude)
		}

		for i := 0; i < len(route.Stops)-1; i++ {
			from := route.Stops[i]
			to := route.Stops[i+1]

			distance, err := to.Distance()
			if err != nil {
				return err
			}

			// short hops with no dwell still take a minute
			travelMinutes := float64(max(int(distance*2)+from.EdgeWaitMinutes(), 1))
			fare := distance * g.FarePerKm

			if err := g.AddEdge(from.StopName, to.StopName, distance, travelMinutes, route.RouteID, &fare); err != nil {
				return err
			}
		}
	}

	log.Debug().Int("stops", g.StopCount()).Int("edges", g.EdgeCount()).Msg("Built network graph")

	return nil
}
