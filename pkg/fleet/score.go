package fleet

import (
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/scheduling"
)

var (
	fallbackArrival = scheduling.Clock(8 * 60)

	peakWindows = [][2]scheduling.Clock{
		{7 * 60, 9 * 60},
		{17 * 60, 19 * 60},
	}
)

const (
	peakBonus      = 50
	heavyLoadBonus = 30
	busyLoadBonus  = 20
	allocateDemand = 50
)

// ArrivalKey parses the vehicle's next arrival, an unparsable time counts as 08:00.
func ArrivalKey(vehicle *ctdf.Vehicle) scheduling.Clock {
	arrival, err := scheduling.ParseClock(vehicle.NextArrival)
	if err != nil {
		return fallbackArrival
	}

	return arrival
}

// DispatchScore ranks vehicles for service attention, higher is more urgent.
func DispatchScore(vehicle *ctdf.Vehicle) float64 {
	score := 0.0

	arrival := ArrivalKey(vehicle)
	for _, window := range peakWindows {
		if arrival >= window[0] && arrival <= window[1] {
			score += peakBonus
			break
		}
	}

	score += vehicle.RouteDemand
	score += float64(vehicle.Capacity) / 10

	load := vehicle.Load()
	if load > 0.8 {
		score += heavyLoadBonus
	} else if load > 0.6 {
		score += busyLoadBonus
	}

	return score
}
