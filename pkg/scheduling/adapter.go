package scheduling

import (
	"errors"
	"time"

	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/errs"
)

const DefaultHopOverheadMinutes = 10

type DayKey string

const (
	DayKeyWeekday DayKey = "weekday"
	DayKeyWeekend DayKey = "weekend"
)

type WindowDefaults struct {
	StartTime      string `yaml:"start_time" validate:"required"`
	EndTime        string `yaml:"end_time" validate:"required"`
	HeadwayMinutes int    `yaml:"headway_minutes" validate:"gt=0"`
}

type Defaults struct {
	Weekday WindowDefaults `yaml:"weekday"`
	Weekend WindowDefaults `yaml:"weekend"`
}

func DefaultCalendar() Defaults {
	return Defaults{
		Weekday: WindowDefaults{StartTime: "06:00", EndTime: "22:00", HeadwayMinutes: 15},
		Weekend: WindowDefaults{StartTime: "08:00", EndTime: "20:00", HeadwayMinutes: 20},
	}
}

// Window is the resolved service window of a route on one travel date.
type Window struct {
	DayKey         DayKey
	Start          Clock
	End            Clock
	HeadwayMinutes int
}

// Adapter resolves departures and arrivals from a route's service calendar.
type Adapter struct {
	Defaults           Defaults
	HopOverheadMinutes int
}

func NewAdapter() *Adapter {
	return &Adapter{
		Defaults:           DefaultCalendar(),
		HopOverheadMinutes: DefaultHopOverheadMinutes,
	}
}

func DayKeyFor(date time.Time) DayKey {
	if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		return DayKeyWeekend
	}

	return DayKeyWeekday
}

func (a *Adapter) ServiceWindow(route *ctdf.Route, travelDate time.Time) (Window, error) {
	dayKey := DayKeyFor(travelDate)

	defaults := a.Defaults.Weekday
	var configured *ctdf.ServiceWindow
	if route.ServiceCalendar != nil {
		configured = route.ServiceCalendar.Weekday
	}
	if dayKey == DayKeyWeekend {
		defaults = a.Defaults.Weekend
		configured = nil
		if route.ServiceCalendar != nil {
			configured = route.ServiceCalendar.Weekend
		}
	}

	startTime := defaults.StartTime
	endTime := defaults.EndTime
	headway := route.HeadwayMinutes

	if configured != nil {
		if configured.StartTime != "" {
			startTime = configured.StartTime
		}
		if configured.EndTime != "" {
			endTime = configured.EndTime
		}
		if configured.HeadwayMinutes.Valid {
			headway = configured.HeadwayMinutes
		}
	}

	if !headway.Valid {
		headway = ctdf.HeadwayOf(defaults.HeadwayMinutes)
	}

	start, err := ParseClock(startTime)
	if err != nil {
		return Window{}, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return Window{}, err
	}

	return Window{
		DayKey:         dayKey,
		Start:          start,
		End:            end,
		HeadwayMinutes: headway.Minutes,
	}, nil
}

// BaseDeparture is the first departure of the day at the stop, from its timetable entry
// or from the window start plus the per-hop overhead and dwell of every preceding stop.
func (a *Adapter) BaseDeparture(route *ctdf.Route, stopIndex int, window Window) (Clock, error) {
	if stopIndex < 0 || stopIndex >= len(route.Stops) {
		return 0, errs.New(errs.ErrUnknownStop, "stop index %d is outside route %s", stopIndex, route.RouteName)
	}

	stop := route.Stops[stopIndex]
	if stop.DepartureTime != "" {
		return ParseClock(stop.DepartureTime)
	}
	if stop.ArrivalTime != "" {
		return ParseClock(stop.ArrivalTime)
	}

	offset := 0
	for idx := 0; idx < stopIndex; idx++ {
		offset += a.HopOverheadMinutes
		offset += route.Stops[idx].WaitMinutes()
	}

	return window.Start.Add(offset), nil
}

// NextDeparture finds the departure at fromStop on travelDate.
// Without a reference the base departure is returned, otherwise the first departure at or
// after the reference, stepping in headway increments and never past the window end.
func (a *Adapter) NextDeparture(route *ctdf.Route, fromStop string, travelDate time.Time, reference *Clock) (Clock, error) {
	window, err := a.ServiceWindow(route, travelDate)
	if err != nil {
		return 0, err
	}

	stopIndex := route.IndexOf(fromStop)
	if stopIndex == -1 {
		return 0, errs.New(errs.ErrUnknownStop, "%s is not served by route %s", fromStop, route.RouteName)
	}

	base, err := a.BaseDeparture(route, stopIndex, window)
	if err != nil {
		return 0, err
	}

	if reference == nil || *reference <= base {
		return base, nil
	}

	headway := window.HeadwayMinutes
	if stopHeadway := route.Stops[stopIndex].HeadwayMinutes; stopHeadway.Valid {
		headway = stopHeadway.Minutes
	}

	if headway <= 0 {
		return 0, errs.New(errs.ErrNoScheduledDeparture, "route %s has no headway at %s", route.RouteName, fromStop)
	}

	elapsed := int(*reference - base)
	intervals := (elapsed + headway - 1) / headway
	next := base.Add(intervals * headway)

	if next > window.End {
		return 0, errs.New(errs.ErrNoScheduledDeparture, "no departure from %s after %s, service ends %s", fromStop, reference, window.End)
	}

	return next, nil
}

// TravelMinutes sums the per-hop overhead and the dwell at each stop reached.
// A destination at or before the origin yields zero.
func (a *Adapter) TravelMinutes(route *ctdf.Route, fromIndex int, toIndex int) int {
	if toIndex <= fromIndex {
		return 0
	}

	minutes := 0
	for idx := fromIndex; idx < toIndex && idx+1 < len(route.Stops); idx++ {
		minutes += a.HopOverheadMinutes
		minutes += route.Stops[idx+1].WaitMinutes()
	}

	return minutes
}

func (a *Adapter) Arrival(route *ctdf.Route, fromStop string, toStop string, departure Clock) (Clock, error) {
	fromIndex := route.IndexOf(fromStop)
	toIndex := route.IndexOf(toStop)

	if fromIndex == -1 || toIndex == -1 {
		return 0, errs.New(errs.ErrUnknownStop, "%s or %s is not served by route %s", fromStop, toStop, route.RouteName)
	}

	return departure.Add(a.TravelMinutes(route, fromIndex, toIndex)), nil
}

// NextServiceArrival is the next departure from the first stop of the route relative to now.
// After the end of service it falls back to the start of the window.
func (a *Adapter) NextServiceArrival(route *ctdf.Route, now time.Time) (Clock, error) {
	if len(route.Stops) == 0 {
		return 0, errs.New(errs.ErrUnknownStop, "route %s has no stops", route.RouteName)
	}

	reference := ClockOf(now)
	next, err := a.NextDeparture(route, route.Stops[0].StopName, now, &reference)
	if errors.Is(err, errs.ErrNoScheduledDeparture) {
		window, windowErr := a.ServiceWindow(route, now)
		if windowErr != nil {
			return 0, windowErr
		}

		return a.BaseDeparture(route, 0, window)
	}

	return next, err
}
