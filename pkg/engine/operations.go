package engine

import (
	"github.com/travigo/transitops/pkg/booking"
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/errs"
	"github.com/travigo/transitops/pkg/fleet"
	"github.com/travigo/transitops/pkg/networkgraph"
)

// Network

func (e *Engine) ShortestPath(start string, end string, criteria networkgraph.Criteria) (networkgraph.PathResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.graph.ShortestPath(start, end, criteria)
}

func (e *Engine) NearestStop(location string) networkgraph.NearestResult {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.graph.NearestStop(location)
}

func (e *Engine) ClosestStop(latitude float64, longitude float64) (ctdf.Stop, float64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.graph.ClosestStop(latitude, longitude)
}

// EnumeratePaths lists simple paths from start, a depth of 0 uses the configured maximum.
func (e *Engine) EnumeratePaths(start string, maxDepth int) ([][]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if maxDepth <= 0 {
		maxDepth = e.options.MaxPathDepth
	}

	return e.graph.EnumeratePaths(start, maxDepth)
}

func (e *Engine) HasCycle() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.graph.HasCycle()
}

func (e *Engine) Stops() []ctdf.Stop {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.graph.Stops()
}

func (e *Engine) EdgeCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.graph.EdgeCount()
}

func (e *Engine) Routes() []ctdf.Route {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.catalogue.Clone().Routes
}

func (e *Engine) Route(routeID string) (ctdf.Route, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	route := e.catalogue.RouteFor(routeID, routeID)
	if route == nil {
		return ctdf.Route{}, errs.New(errs.ErrRouteNotFound, "route %s does not exist", routeID)
	}

	clone := (&ctdf.Catalogue{Routes: []ctdf.Route{*route}}).Clone()

	return clone.Routes[0], nil
}

// Fleet

func (e *Engine) AddVehicle(vehicle ctdf.Vehicle) (ctdf.Vehicle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.fleet.Add(vehicle)
}

func (e *Engine) RemoveVehicle(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.fleet.Remove(id)
}

func (e *Engine) UpdateVehicle(id int, patch ctdf.VehiclePatch) (ctdf.Vehicle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.fleet.Update(id, patch)
}

func (e *Engine) AllocateVehicle(id int, routeID string, routeName string) (ctdf.Vehicle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.fleet.Allocate(id, routeID, routeName)
}

func (e *Engine) UpdateArrival(id int, arrival string) (ctdf.Vehicle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.fleet.UpdateArrival(id, arrival)
}

func (e *Engine) UpdatePosition(id int, latitude float64, longitude float64, stopIndex *int) (ctdf.Vehicle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.fleet.UpdatePosition(id, latitude, longitude, stopIndex)
}

func (e *Engine) Vehicle(id int) (ctdf.Vehicle, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.fleet.Find(id)
}

func (e *Engine) Vehicles() []ctdf.Vehicle {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.fleet.All()
}

func (e *Engine) VehiclesByStatus(status ctdf.VehicleStatus) []ctdf.Vehicle {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.fleet.FilterByStatus(status)
}

func (e *Engine) VehiclesByRoute(routeID string) []ctdf.Vehicle {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.fleet.FilterByRoute(routeID)
}

func (e *Engine) QueryVehicles(expression string) ([]ctdf.Vehicle, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.fleet.Query(expression)
}

func (e *Engine) NextArrival() (ctdf.Vehicle, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.fleet.NextArrival()
}

func (e *Engine) HighestPriority() (ctdf.Vehicle, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.fleet.HighestPriority()
}

func (e *Engine) SortedByArrival() []ctdf.Vehicle {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.fleet.SortedByArrival()
}

func (e *Engine) PriorityOrder() []ctdf.Vehicle {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.fleet.PriorityOrder()
}

func (e *Engine) FleetStatistics() fleet.Statistics {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.fleet.Statistics()
}

func (e *Engine) TransferPoints(firstRouteID string, secondRouteID string) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.fleet.TransferPoints(firstRouteID, secondRouteID)
}

// Passengers

func (e *Engine) RegisterPassenger(fullName string, email string, phone string, address string) ctdf.PassengerRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.passengers.Register(fullName, email, phone, address)
}

func (e *Engine) Passenger(id string) (ctdf.PassengerRecord, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.passengers.Search(id)
}

func (e *Engine) Passengers() []ctdf.PassengerRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.passengers.All()
}

func (e *Engine) TravelHistory(passengerID string) ([]ctdf.Ticket, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, err := e.passengers.Search(passengerID); err != nil {
		return nil, err
	}

	return e.ledger.TravelHistory(passengerID), nil
}

// Bookings

func (e *Engine) AvailableVehicles(fromStop string, toStop string, travelDate string) ([]booking.Availability, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.ledger.AvailableVehicles(fromStop, toStop, travelDate)
}

func (e *Engine) Book(request ctdf.BookingRequest) (ctdf.Ticket, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.ledger.Book(request)
}

func (e *Engine) Cancel(ticketID string) (ctdf.Ticket, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.ledger.Cancel(ticketID)
}

func (e *Engine) Ticket(ticketID string) (ctdf.Ticket, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.ledger.Ticket(ticketID)
}

func (e *Engine) PassengerTickets(passengerID string) []ctdf.Ticket {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.ledger.PassengerTickets(passengerID)
}

func (e *Engine) RecentBookings(count int) []ctdf.Ticket {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.ledger.RecentBookings(count)
}

func (e *Engine) BookingsByDate(travelDate string) []ctdf.Ticket {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.ledger.BookingsByDate(travelDate)
}

func (e *Engine) PriorityTicket() (ctdf.Ticket, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.ledger.PriorityTicket()
}

// PopPriorityTicket mutates the queue so it takes the write lock.
func (e *Engine) PopPriorityTicket() (ctdf.Ticket, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.ledger.PopPriorityTicket()
}

func (e *Engine) BookingStatistics() booking.Statistics {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.ledger.Statistics()
}
