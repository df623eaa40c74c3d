package fleet

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/errs"
)

// queryEnv is what a fleet query expression can see of a vehicle.
type queryEnv struct {
	ID                int
	BusNumber         string
	PlateNumber       string
	DriverName        string
	Type              string
	Capacity          int
	CurrentPassengers int
	Status            string
	RouteID           string
	RouteName         string
	NextArrival       string
	RouteDemand       float64
	CurrentStopIndex  int
	SpeedKmph         float64

	Load      float64
	Remaining int
	Score     float64
}

func envFor(vehicle *ctdf.Vehicle) queryEnv {
	return queryEnv{
		ID:                vehicle.ID,
		BusNumber:         vehicle.BusNumber,
		PlateNumber:       vehicle.PlateNumber,
		DriverName:        vehicle.DriverName,
		Type:              string(vehicle.Type),
		Capacity:          vehicle.Capacity,
		CurrentPassengers: vehicle.CurrentPassengers,
		Status:            string(vehicle.Status),
		RouteID:           vehicle.RouteID,
		RouteName:         vehicle.RouteName,
		NextArrival:       vehicle.NextArrival,
		RouteDemand:       vehicle.RouteDemand,
		CurrentStopIndex:  vehicle.CurrentStopIndex,
		SpeedKmph:         vehicle.SpeedKmph,

		Load:      vehicle.Load(),
		Remaining: vehicle.RemainingCapacity(),
		Score:     DispatchScore(vehicle),
	}
}

func CompileQuery(expression string) (*vm.Program, error) {
	program, err := expr.Compile(expression, expr.Env(queryEnv{}), expr.AsBool())
	if err != nil {
		return nil, errs.New(errs.ErrInvalidRequest, "invalid fleet query: %s", err)
	}

	return program, nil
}

// Query returns the vehicles, in insertion order, for which the boolean expression holds,
// for example `Status == "active" && Load > 0.6`.
func (i *Index) Query(expression string) ([]ctdf.Vehicle, error) {
	program, err := CompileQuery(expression)
	if err != nil {
		return nil, err
	}

	vehicles := []ctdf.Vehicle{}
	var runErr error

	i.list.each(func(_ int, vehicle *ctdf.Vehicle) bool {
		output, err := expr.Run(program, envFor(vehicle))
		if err != nil {
			runErr = errs.New(errs.ErrInvalidRequest, "fleet query failed on vehicle %d: %s", vehicle.ID, err)
			return false
		}

		if matched, _ := output.(bool); matched {
			vehicles = append(vehicles, cloneVehicle(vehicle))
		}
		return true
	})

	if runErr != nil {
		return nil, runErr
	}

	return vehicles, nil
}

type Statistics struct {
	TotalVehicles       int     `json:"total_buses"`
	ActiveVehicles      int     `json:"active_buses"`
	InactiveVehicles    int     `json:"inactive_buses"`
	MaintenanceVehicles int     `json:"maintenance_buses"`
	TotalCapacity       int     `json:"total_capacity"`
	AverageLoad         float64 `json:"average_load"`
	NextArrival         string  `json:"next_arrival"`
	PriorityVehicle     string  `json:"priority_bus"`
}

const notAvailable = "N/A"

func (i *Index) Statistics() Statistics {
	stats := Statistics{
		NextArrival:     notAvailable,
		PriorityVehicle: notAvailable,
	}

	totalLoad := 0.0
	i.list.each(func(_ int, vehicle *ctdf.Vehicle) bool {
		stats.TotalVehicles++
		stats.TotalCapacity += vehicle.Capacity
		totalLoad += vehicle.Load() * 100

		switch vehicle.Status {
		case ctdf.VehicleStatusActive:
			stats.ActiveVehicles++
		case ctdf.VehicleStatusInactive:
			stats.InactiveVehicles++
		case ctdf.VehicleStatusMaintenance:
			stats.MaintenanceVehicles++
		}
		return true
	})

	if stats.TotalVehicles > 0 {
		stats.AverageLoad = totalLoad / float64(stats.TotalVehicles)
	}
	if next, ok := i.NextArrival(); ok {
		stats.NextArrival = next.NextArrival
	}
	if priority, ok := i.HighestPriority(); ok {
		stats.PriorityVehicle = priority.BusNumber
	}

	return stats
}

// TransferPoints lists the stops two routes share, in the order of the first route.
func (i *Index) TransferPoints(firstRouteID string, secondRouteID string) ([]string, error) {
	if i.Routes == nil {
		return nil, errs.New(errs.ErrRouteNotFound, "no routes loaded")
	}

	first := i.Routes.RouteFor(firstRouteID, "")
	if first == nil {
		return nil, errs.New(errs.ErrRouteNotFound, "route %s does not exist", firstRouteID)
	}
	second := i.Routes.RouteFor(secondRouteID, "")
	if second == nil {
		return nil, errs.New(errs.ErrRouteNotFound, "route %s does not exist", secondRouteID)
	}

	shared := []string{}
	for _, stop := range first.StopNames() {
		if second.HasStop(stop) {
			shared = append(shared, stop)
		}
	}

	return shared, nil
}
