package ctdf

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/travigo/transitops/pkg/errs"
)

const (
	DefaultDistanceFromPrevious = 5.0
	DefaultEdgeWaitTime         = 5
)

type Route struct {
	RouteID   string `json:"route_id" yaml:"route_id" groups:"basic"`
	RouteName string `json:"route_name" yaml:"route_name" groups:"basic"`

	Stops []RouteStop `json:"stops" yaml:"stops" groups:"detailed"`

	ServiceCalendar *ServiceCalendar `json:"service_calendar,omitempty" yaml:"service_calendar,omitempty" groups:"detailed"`
	HeadwayMinutes  Headway          `json:"headway_minutes,omitempty" yaml:"headway_minutes,omitempty" groups:"detailed"`
}

type RouteStop struct {
	StopName string `json:"stop_name" yaml:"stop_name"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`

	WaitTime             *int `json:"wait_time,omitempty" yaml:"wait_time,omitempty"`
	DistanceFromPrevious any  `json:"distance_from_previous,omitempty" yaml:"distance_from_previous,omitempty"`

	// Optional explicit timetable entries
	DepartureTime  string  `json:"departure_time,omitempty" yaml:"departure_time,omitempty"`
	ArrivalTime    string  `json:"arrival_time,omitempty" yaml:"arrival_time,omitempty"`
	HeadwayMinutes Headway `json:"headway_minutes,omitempty" yaml:"headway_minutes,omitempty"`
}

type ServiceCalendar struct {
	Weekday *ServiceWindow `json:"weekday,omitempty" yaml:"weekday,omitempty"`
	Weekend *ServiceWindow `json:"weekend,omitempty" yaml:"weekend,omitempty"`
}

type ServiceWindow struct {
	StartTime      string  `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndTime        string  `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	HeadwayMinutes Headway `json:"headway_minutes,omitempty" yaml:"headway_minutes,omitempty"`
}

func (r *Route) StopNames() []string {
	names := make([]string, 0, len(r.Stops))
	for _, stop := range r.Stops {
		names = append(names, stop.StopName)
	}

	return names
}

// IndexOf returns the position of the first stop with the given name, or -1.
func (r *Route) IndexOf(stopName string) int {
	for i, stop := range r.Stops {
		if stop.StopName == stopName {
			return i
		}
	}

	return -1
}

func (r *Route) HasStop(stopName string) bool {
	return r.IndexOf(stopName) != -1
}

// WaitMinutes is the dwell time used when summing travel times, unset counts as zero.
func (s *RouteStop) WaitMinutes() int {
	if s.WaitTime == nil {
		return 0
	}

	return *s.WaitTime
}

// EdgeWaitMinutes is the dwell time folded into graph edge weights, unset counts as DefaultEdgeWaitTime.
func (s *RouteStop) EdgeWaitMinutes() int {
	if s.WaitTime == nil {
		return DefaultEdgeWaitTime
	}

	return *s.WaitTime
}

// Distance parses DistanceFromPrevious, which arrives as a number or a numeric string.
func (s *RouteStop) Distance() (float64, error) {
	var distance float64

	switch value := s.DistanceFromPrevious.(type) {
	case nil:
		return DefaultDistanceFromPrevious, nil
	case float64:
		distance = value
	case float32:
		distance = float64(value)
	case int:
		distance = float64(value)
	case int64:
		distance = float64(value)
	case json.Number:
		parsed, err := value.Float64()
		if err != nil {
			return 0, errs.New(errs.ErrInvalidDistance, "stop %s has non-numeric distance %q", s.StopName, value.String())
		}
		distance = parsed
	case string:
		if strings.TrimSpace(value) == "" {
			return DefaultDistanceFromPrevious, nil
		}

		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, errs.New(errs.ErrInvalidDistance, "stop %s has non-numeric distance %q", s.StopName, value)
		}
		distance = parsed
	default:
		return 0, errs.New(errs.ErrInvalidDistance, "stop %s has non-numeric distance %v", s.StopName, value)
	}

	if distance < 0 {
		return 0, errs.New(errs.ErrInvalidDistance, "stop %s has negative distance %.2f", s.StopName, distance)
	}

	return distance, nil
}

func (s *RouteStop) AsStop() Stop {
	return Stop{
		Name:      s.StopName,
		Location:  s.Location,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
	}
}
