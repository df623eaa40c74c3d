package engine

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/transitops/pkg/booking"
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/fleet"
	"github.com/travigo/transitops/pkg/networkgraph"
	"github.com/travigo/transitops/pkg/passengers"
	"github.com/travigo/transitops/pkg/scheduling"
)

const DefaultMaxPathDepth = 3

type Options struct {
	Now func() time.Time

	Pricing            booking.Pricing
	Calendar           scheduling.Defaults
	HopOverheadMinutes int

	FarePerKm        float64
	TransferPenalty  float64
	TransferTiebreak float64
	MaxPathDepth     int
}

func DefaultOptions() Options {
	return Options{
		Now: time.Now,

		Pricing:            booking.DefaultPricing(),
		Calendar:           scheduling.DefaultCalendar(),
		HopOverheadMinutes: scheduling.DefaultHopOverheadMinutes,

		FarePerKm:        networkgraph.DefaultFarePerKm,
		TransferPenalty:  networkgraph.DefaultTransferPenalty,
		TransferTiebreak: networkgraph.DefaultTransferTiebreak,
		MaxPathDepth:     DefaultMaxPathDepth,
	}
}

// Engine is the transit operations context. One lock guards every component so each
// public call runs as a single transaction: reads share it, mutations hold it exclusively.
type Engine struct {
	mu sync.RWMutex

	options Options

	catalogue  *ctdf.Catalogue
	schedule   *scheduling.Adapter
	graph      *networkgraph.Graph
	fleet      *fleet.Index
	passengers *passengers.Registry
	ledger     *booking.Ledger
}

func New(options Options) *Engine {
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.MaxPathDepth <= 0 {
		options.MaxPathDepth = DefaultMaxPathDepth
	}

	schedule := &scheduling.Adapter{
		Defaults:           options.Calendar,
		HopOverheadMinutes: options.HopOverheadMinutes,
	}

	e := &Engine{
		options:   options,
		catalogue: &ctdf.Catalogue{},
		schedule:  schedule,
		graph:     newGraph(options),
	}

	e.fleet = fleet.NewIndex(e.catalogue, schedule, options.Now)
	e.passengers = passengers.NewRegistry(options.Now)

	e.ledger = booking.NewLedger(e.fleet, e.passengers, e.catalogue)
	e.ledger.Schedule = schedule
	e.ledger.Pricing = options.Pricing
	e.ledger.Network = e.graph
	e.ledger.Now = options.Now

	return e
}

func newGraph(options Options) *networkgraph.Graph {
	graph := networkgraph.New()
	graph.FarePerKm = options.FarePerKm
	graph.TransferPenalty = options.TransferPenalty
	graph.TransferTiebreak = options.TransferTiebreak

	return graph
}

// Load initialises the engine from the three persisted documents. Nothing changes
// if any of them is rejected.
func (e *Engine) Load(catalogue ctdf.Catalogue, fleetSnapshot ctdf.FleetSnapshot, ledger ctdf.LedgerSnapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	routes, graph, err := e.prepareCatalogue(catalogue)
	if err != nil {
		return err
	}

	index := fleet.NewIndex(routes, e.schedule, e.options.Now)
	if err := index.Load(fleetSnapshot); err != nil {
		return err
	}

	registry := passengers.NewRegistry(e.options.Now)
	registry.Load(ledger.Passengers)

	bookings := booking.NewLedger(index, registry, routes)
	bookings.Schedule = e.schedule
	bookings.Pricing = e.options.Pricing
	bookings.Network = graph
	bookings.Now = e.options.Now
	bookings.Load(ledger)

	e.catalogue = routes
	e.graph = graph
	e.fleet = index
	e.passengers = registry
	e.ledger = bookings

	log.Info().
		Int("routes", len(routes.Routes)).
		Int("stops", graph.StopCount()).
		Int("vehicles", index.Len()).
		Int("passengers", registry.Len()).
		Msg("Engine loaded")

	return nil
}

// ReplaceCatalogue rebuilds the network graph wholesale from new route definitions.
func (e *Engine) ReplaceCatalogue(catalogue ctdf.Catalogue) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	routes, graph, err := e.prepareCatalogue(catalogue)
	if err != nil {
		return err
	}

	e.catalogue = routes
	e.graph = graph
	e.fleet.Routes = routes
	e.ledger.Routes = routes
	e.ledger.Network = graph

	log.Info().Int("routes", len(routes.Routes)).Int("stops", graph.StopCount()).Msg("Catalogue replaced")

	return nil
}

func (e *Engine) prepareCatalogue(catalogue ctdf.Catalogue) (*ctdf.Catalogue, *networkgraph.Graph, error) {
	clone := catalogue.Clone()
	routes := &clone

	graph := newGraph(e.options)
	if err := networkgraph.BuildFromCatalogue(graph, routes); err != nil {
		return nil, nil, err
	}

	return routes, graph, nil
}

// Snapshot is the engine state handed back to the host for persistence.
type Snapshot struct {
	Catalogue ctdf.Catalogue
	Fleet     ctdf.FleetSnapshot
	Ledger    ctdf.LedgerSnapshot
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return Snapshot{
		Catalogue: e.catalogue.Clone(),
		Fleet:     e.fleet.All(),
		Ledger:    e.ledger.Snapshot(),
	}
}

func (e *Engine) Now() time.Time {
	return e.options.Now()
}
