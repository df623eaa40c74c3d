package ctdf

import "golang.org/x/exp/slices"

// Catalogue is the route/stop document the engine is initialised from.
type Catalogue struct {
	Routes []Route `json:"routes" yaml:"routes"`
}

// RouteFor resolves a route by identifier first and by name second.
func (c *Catalogue) RouteFor(routeID string, routeName string) *Route {
	if c == nil {
		return nil
	}

	if routeID != "" {
		for i := range c.Routes {
			if c.Routes[i].RouteID == routeID {
				return &c.Routes[i]
			}
		}
	}

	if routeName != "" {
		for i := range c.Routes {
			if c.Routes[i].RouteName == routeName {
				return &c.Routes[i]
			}
		}
	}

	return nil
}

// Clone copies the route and stop lists so the result can be changed independently.
// Stop level pointers are shared, nothing mutates through them.
func (c *Catalogue) Clone() Catalogue {
	clone := Catalogue{Routes: make([]Route, len(c.Routes))}

	for i, route := range c.Routes {
		route.Stops = slices.Clone(route.Stops)

		if route.ServiceCalendar != nil {
			calendar := *route.ServiceCalendar
			if calendar.Weekday != nil {
				weekday := *calendar.Weekday
				calendar.Weekday = &weekday
			}
			if calendar.Weekend != nil {
				weekend := *calendar.Weekend
				calendar.Weekend = &weekend
			}
			route.ServiceCalendar = &calendar
		}

		clone.Routes[i] = route
	}

	return clone
}

// LedgerSnapshot is the persisted ticket ledger.
type LedgerSnapshot struct {
	Tickets    []Ticket          `json:"tickets"`
	NextID     int               `json:"next_id"`
	Passengers []PassengerRecord `json:"passengers,omitempty"`
}

// FleetSnapshot is the persisted fleet, a bare list of vehicles.
type FleetSnapshot []Vehicle
