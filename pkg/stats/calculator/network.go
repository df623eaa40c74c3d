package calculator

import (
	"github.com/travigo/transitops/pkg/engine"
)

type NetworkStats struct {
	Stops    int  `json:"stops"`
	Edges    int  `json:"edges"`
	Routes   int  `json:"routes"`
	HasCycle bool `json:"has_cycle"`

	LongestRoute     string `json:"longest_route"`
	LongestRouteStop int    `json:"longest_route_stops"`
}

func GetNetwork(transitEngine *engine.Engine) NetworkStats {
	stats := NetworkStats{
		Stops:    len(transitEngine.Stops()),
		Edges:    transitEngine.EdgeCount(),
		HasCycle: transitEngine.HasCycle(),
	}

	routes := transitEngine.Routes()
	stats.Routes = len(routes)

	for _, route := range routes {
		if len(route.Stops) > stats.LongestRouteStop {
			stats.LongestRoute = route.RouteID
			stats.LongestRouteStop = len(route.Stops)
		}
	}

	return stats
}
