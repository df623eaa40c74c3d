package fleet

import (
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/errs"
	"github.com/travigo/transitops/pkg/scheduling"
)

type RouteResolver interface {
	RouteFor(routeID string, routeName string) *ctdf.Route
}

// Index owns the fleet. The list is authoritative, the arrival and priority views
// are rebuilt from it after every mutation.
type Index struct {
	Routes   RouteResolver
	Schedule *scheduling.Adapter
	Now      func() time.Time

	list       *vehicleList
	arrivals   *view
	priorities *view
}

func NewIndex(routes RouteResolver, schedule *scheduling.Adapter, now func() time.Time) *Index {
	if schedule == nil {
		schedule = scheduling.NewAdapter()
	}
	if now == nil {
		now = time.Now
	}

	return &Index{
		Routes:   routes,
		Schedule: schedule,
		Now:      now,

		list:       newVehicleList(),
		arrivals:   newArrivalView(),
		priorities: newPriorityView(),
	}
}

// Load replaces the fleet with previously persisted vehicles, keeping their ids.
func (i *Index) Load(vehicles []ctdf.Vehicle) error {
	list := newVehicleList()
	seen := map[int]bool{}

	for _, vehicle := range vehicles {
		if vehicle.ID <= 0 || seen[vehicle.ID] {
			return errs.New(errs.ErrInvalidVehicle, "vehicle id %d is missing or duplicated", vehicle.ID)
		}
		seen[vehicle.ID] = true

		i.normalise(&vehicle)
		list.append(cloneVehicle(&vehicle))
	}

	i.list = list
	i.rebuild()

	log.Debug().Int("vehicles", list.size).Msg("Loaded fleet")

	return nil
}

func (i *Index) Len() int {
	return i.list.size
}

// Add assigns the next id, stamps the timestamps and inserts the vehicle.
func (i *Index) Add(vehicle ctdf.Vehicle) (ctdf.Vehicle, error) {
	if err := validate(&vehicle); err != nil {
		return ctdf.Vehicle{}, err
	}

	timestamp := i.timestamp()
	vehicle.ID = i.list.maxID() + 1
	vehicle.CreatedAt = timestamp
	vehicle.LastUpdated = timestamp
	i.normalise(&vehicle)

	handle := i.list.append(cloneVehicle(&vehicle))
	i.rebuild()

	log.Debug().Int("vehicle", vehicle.ID).Str("bus", vehicle.BusNumber).Msg("Added vehicle")

	return cloneVehicle(i.list.get(handle)), nil
}

func (i *Index) Remove(id int) error {
	handle := i.list.find(id)
	if handle == noHandle {
		return errs.New(errs.ErrVehicleNotFound, "vehicle %d does not exist", id)
	}

	i.list.remove(handle)
	i.rebuild()

	log.Debug().Int("vehicle", id).Msg("Removed vehicle")

	return nil
}

// Update merges the patch into the vehicle. The vehicle is left untouched if the result is invalid.
func (i *Index) Update(id int, patch ctdf.VehiclePatch) (ctdf.Vehicle, error) {
	handle := i.list.find(id)
	if handle == noHandle {
		return ctdf.Vehicle{}, errs.New(errs.ErrVehicleNotFound, "vehicle %d does not exist", id)
	}

	updated := cloneVehicle(i.list.get(handle))
	patch.Apply(&updated)

	if err := validate(&updated); err != nil {
		return ctdf.Vehicle{}, err
	}

	updated.LastUpdated = i.timestamp()
	i.normalise(&updated)

	*i.list.get(handle) = updated
	i.rebuild()

	return cloneVehicle(&updated), nil
}

func (i *Index) Find(id int) (ctdf.Vehicle, error) {
	handle := i.list.find(id)
	if handle == noHandle {
		return ctdf.Vehicle{}, errs.New(errs.ErrVehicleNotFound, "vehicle %d does not exist", id)
	}

	return cloneVehicle(i.list.get(handle)), nil
}

// All lists every vehicle in insertion order.
func (i *Index) All() []ctdf.Vehicle {
	return i.filter(func(*ctdf.Vehicle) bool { return true })
}

func (i *Index) FilterByStatus(status ctdf.VehicleStatus) []ctdf.Vehicle {
	return i.filter(func(vehicle *ctdf.Vehicle) bool {
		return vehicle.Status == status
	})
}

func (i *Index) FilterByRoute(routeID string) []ctdf.Vehicle {
	return i.filter(func(vehicle *ctdf.Vehicle) bool {
		return vehicle.RouteID == routeID
	})
}

func (i *Index) filter(match func(vehicle *ctdf.Vehicle) bool) []ctdf.Vehicle {
	vehicles := []ctdf.Vehicle{}

	i.list.each(func(_ int, vehicle *ctdf.Vehicle) bool {
		if match(vehicle) {
			vehicles = append(vehicles, cloneVehicle(vehicle))
		}
		return true
	})

	return vehicles
}

// Allocate assigns the vehicle to a route and resets its demand to the allocation baseline.
func (i *Index) Allocate(id int, routeID string, routeName string) (ctdf.Vehicle, error) {
	handle := i.list.find(id)
	if handle == noHandle {
		return ctdf.Vehicle{}, errs.New(errs.ErrVehicleNotFound, "vehicle %d does not exist", id)
	}

	if i.Routes != nil && i.Routes.RouteFor(routeID, routeName) == nil {
		return ctdf.Vehicle{}, errs.New(errs.ErrRouteNotFound, "route %s (%s) does not exist", routeID, routeName)
	}

	vehicle := i.list.get(handle)
	vehicle.RouteID = routeID
	vehicle.RouteName = routeName
	vehicle.RouteDemand = allocateDemand
	vehicle.LastUpdated = i.timestamp()
	i.normalise(vehicle)

	i.rebuild()

	log.Debug().Int("vehicle", id).Str("route", routeID).Msg("Allocated vehicle to route")

	return cloneVehicle(vehicle), nil
}

// UpdateArrival records a new next arrival, "auto" resolves it from the route.
func (i *Index) UpdateArrival(id int, arrival string) (ctdf.Vehicle, error) {
	if arrival != ctdf.AutoNextArrival {
		if _, err := scheduling.ParseClock(arrival); err != nil {
			return ctdf.Vehicle{}, err
		}
	}

	return i.Update(id, ctdf.VehiclePatch{NextArrival: &arrival})
}

func (i *Index) UpdatePosition(id int, latitude float64, longitude float64, stopIndex *int) (ctdf.Vehicle, error) {
	return i.Update(id, ctdf.VehiclePatch{
		CurrentLat:       &latitude,
		CurrentLng:       &longitude,
		CurrentStopIndex: stopIndex,
	})
}

// AdjustPassengers moves the passenger count by delta, clamped to [0, capacity].
func (i *Index) AdjustPassengers(id int, delta int) (ctdf.Vehicle, error) {
	handle := i.list.find(id)
	if handle == noHandle {
		return ctdf.Vehicle{}, errs.New(errs.ErrVehicleNotFound, "vehicle %d does not exist", id)
	}

	vehicle := i.list.get(handle)

	count := vehicle.CurrentPassengers + delta
	if count < 0 {
		count = 0
	}
	if count > vehicle.Capacity {
		count = vehicle.Capacity
	}

	vehicle.CurrentPassengers = count
	vehicle.LastUpdated = i.timestamp()
	i.rebuild()

	return cloneVehicle(vehicle), nil
}

// NextArrival peeks the vehicle with the earliest next arrival.
func (i *Index) NextArrival() (ctdf.Vehicle, bool) {
	handle, ok := i.arrivals.peek()
	if !ok {
		return ctdf.Vehicle{}, false
	}

	return cloneVehicle(i.list.get(handle)), true
}

// HighestPriority peeks the vehicle with the highest dispatch score.
func (i *Index) HighestPriority() (ctdf.Vehicle, bool) {
	handle, ok := i.priorities.peek()
	if !ok {
		return ctdf.Vehicle{}, false
	}

	return cloneVehicle(i.list.get(handle)), true
}

func (i *Index) SortedByArrival() []ctdf.Vehicle {
	return i.fromHandles(i.arrivals.ordered())
}

func (i *Index) PriorityOrder() []ctdf.Vehicle {
	return i.fromHandles(i.priorities.ordered())
}

func (i *Index) fromHandles(handles []int) []ctdf.Vehicle {
	vehicles := make([]ctdf.Vehicle, 0, len(handles))
	for _, handle := range handles {
		vehicles = append(vehicles, cloneVehicle(i.list.get(handle)))
	}

	return vehicles
}

func (i *Index) rebuild() {
	i.arrivals.rebuild(i.list, func(vehicle *ctdf.Vehicle) float64 {
		return float64(ArrivalKey(vehicle))
	})
	i.priorities.rebuild(i.list, DispatchScore)
}

// normalise fills the operational defaults and resolves an automatic next arrival.
func (i *Index) normalise(vehicle *ctdf.Vehicle) {
	if vehicle.Status == "" {
		vehicle.Status = ctdf.VehicleStatusActive
	}
	if vehicle.Type == "" {
		vehicle.Type = ctdf.BusTypeRegular
	}
	if vehicle.SpeedKmph == 0 {
		vehicle.SpeedKmph = ctdf.DefaultSpeedKmph
	}

	if vehicle.NextArrival != "" && vehicle.NextArrival != ctdf.AutoNextArrival {
		return
	}

	vehicle.NextArrival = ctdf.DefaultNextArrival

	if i.Routes == nil || !vehicle.HasRoute() {
		return
	}

	route := i.Routes.RouteFor(vehicle.RouteID, vehicle.RouteName)
	if route == nil {
		return
	}

	arrival, err := i.Schedule.NextServiceArrival(route, i.Now())
	if err != nil {
		log.Debug().Err(err).Int("vehicle", vehicle.ID).Msg("Could not resolve next arrival")
		return
	}

	vehicle.NextArrival = arrival.String()
}

func (i *Index) timestamp() string {
	return i.Now().Format(ctdf.TimestampFormat)
}

func validate(vehicle *ctdf.Vehicle) error {
	if vehicle.Capacity <= 0 {
		return errs.New(errs.ErrInvalidVehicle, "capacity must be positive, got %d", vehicle.Capacity)
	}
	if vehicle.CurrentPassengers < 0 || vehicle.CurrentPassengers > vehicle.Capacity {
		return errs.New(errs.ErrInvalidVehicle, "passenger count %d outside 0..%d", vehicle.CurrentPassengers, vehicle.Capacity)
	}
	if vehicle.Status != "" && !vehicle.Status.Valid() {
		return errs.New(errs.ErrInvalidVehicle, "unknown status %q", vehicle.Status)
	}

	return nil
}

func cloneVehicle(vehicle *ctdf.Vehicle) ctdf.Vehicle {
	var clone ctdf.Vehicle
	copier.CopyWithOption(&clone, vehicle, copier.Option{DeepCopy: true})

	return clone
}
