package calculator

import (
	"github.com/travigo/transitops/pkg/engine"
	"github.com/travigo/transitops/pkg/fleet"
	"github.com/travigo/transitops/pkg/util"
)

type RouteLoad struct {
	Vehicles   int `json:"vehicles"`
	Capacity   int `json:"capacity"`
	Passengers int `json:"passengers"`
}

type FleetStats struct {
	fleet.Statistics

	RoutesServed []string             `json:"routes_served"`
	ByRoute      map[string]RouteLoad `json:"by_route"`
	Unallocated  int                  `json:"unallocated"`
}

func GetFleet(transitEngine *engine.Engine) FleetStats {
	stats := FleetStats{
		Statistics: transitEngine.FleetStatistics(),
		ByRoute:    map[string]RouteLoad{},
	}

	var routeIDs []string
	for _, vehicle := range transitEngine.Vehicles() {
		if vehicle.RouteID == "" {
			stats.Unallocated++
			continue
		}

		routeIDs = append(routeIDs, vehicle.RouteID)

		load := stats.ByRoute[vehicle.RouteID]
		load.Vehicles++
		load.Capacity += vehicle.Capacity
		load.Passengers += vehicle.CurrentPassengers
		stats.ByRoute[vehicle.RouteID] = load
	}

	stats.RoutesServed = util.RemoveDuplicateStrings(routeIDs, nil)

	return stats
}
