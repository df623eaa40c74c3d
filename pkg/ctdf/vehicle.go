package ctdf

type VehicleStatus string

const (
	VehicleStatusActive      VehicleStatus = "active"
	VehicleStatusInactive    VehicleStatus = "inactive"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
)

func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleStatusActive, VehicleStatusInactive, VehicleStatusMaintenance:
		return true
	}

	return false
}

type BusType string

const (
	BusTypeRegular        BusType = "regular"
	BusTypeAirConditioned BusType = "air_conditioned"
	BusTypeLuxury         BusType = "luxury"
)

func (b BusType) FareMultiplier() float64 {
	switch b {
	case BusTypeAirConditioned:
		return 1.5
	case BusTypeLuxury:
		return 2.0
	default:
		return 1.0
	}
}

const (
	DefaultSpeedKmph   = 35
	DefaultNextArrival = "08:00"
	AutoNextArrival    = "auto"
)

type Vehicle struct {
	ID int `json:"id" groups:"basic"`

	BusNumber     string  `json:"bus_number" groups:"basic"`
	PlateNumber   string  `json:"plate_number" groups:"basic"`
	DriverName    string  `json:"driver_name" groups:"detailed"`
	DriverContact string  `json:"driver_contact,omitempty" groups:"detailed"`
	Type          BusType `json:"type,omitempty" groups:"basic"`

	Capacity          int           `json:"capacity" groups:"basic"`
	CurrentPassengers int           `json:"current_passengers" groups:"basic"`
	Status            VehicleStatus `json:"status" groups:"basic"`

	RouteID   string `json:"route_id,omitempty" groups:"basic"`
	RouteName string `json:"route_name,omitempty" groups:"basic"`

	NextArrival string  `json:"next_arrival" groups:"basic"`
	RouteDemand float64 `json:"route_demand" groups:"detailed"`

	CurrentStopIndex int      `json:"current_stop_index" groups:"detailed"`
	SpeedKmph        float64  `json:"speed_kmph" groups:"detailed"`
	CurrentLat       *float64 `json:"current_lat" groups:"detailed"`
	CurrentLng       *float64 `json:"current_lng" groups:"detailed"`

	CreatedAt   string `json:"created_at" groups:"detailed"`
	LastUpdated string `json:"last_updated" groups:"detailed"`
}

// Load is the occupied fraction of the vehicle, 0 when capacity is unknown.
func (v *Vehicle) Load() float64 {
	if v.Capacity <= 0 {
		return 0
	}

	return float64(v.CurrentPassengers) / float64(v.Capacity)
}

func (v *Vehicle) RemainingCapacity() int {
	remaining := v.Capacity - v.CurrentPassengers
	if remaining < 0 {
		return 0
	}

	return remaining
}

func (v *Vehicle) HasRoute() bool {
	return v.RouteID != "" || v.RouteName != ""
}

// VehiclePatch carries the fields an update may change, nil fields are left alone.
// Route assignment goes through allocation instead.
type VehiclePatch struct {
	BusNumber     *string  `json:"bus_number,omitempty"`
	PlateNumber   *string  `json:"plate_number,omitempty"`
	DriverName    *string  `json:"driver_name,omitempty"`
	DriverContact *string  `json:"driver_contact,omitempty"`
	Type          *BusType `json:"type,omitempty"`

	Capacity          *int           `json:"capacity,omitempty"`
	CurrentPassengers *int           `json:"current_passengers,omitempty"`
	Status            *VehicleStatus `json:"status,omitempty"`

	NextArrival *string  `json:"next_arrival,omitempty"`
	RouteDemand *float64 `json:"route_demand,omitempty"`

	CurrentStopIndex *int     `json:"current_stop_index,omitempty"`
	SpeedKmph        *float64 `json:"speed_kmph,omitempty"`
	CurrentLat       *float64 `json:"current_lat,omitempty"`
	CurrentLng       *float64 `json:"current_lng,omitempty"`
}

func (p *VehiclePatch) Apply(v *Vehicle) {
	if p.BusNumber != nil {
		v.BusNumber = *p.BusNumber
	}
	if p.PlateNumber != nil {
		v.PlateNumber = *p.PlateNumber
	}
	if p.DriverName != nil {
		v.DriverName = *p.DriverName
	}
	if p.DriverContact != nil {
		v.DriverContact = *p.DriverContact
	}
	if p.Type != nil {
		v.Type = *p.Type
	}
	if p.Capacity != nil {
		v.Capacity = *p.Capacity
	}
	if p.CurrentPassengers != nil {
		v.CurrentPassengers = *p.CurrentPassengers
	}
	if p.Status != nil {
		v.Status = *p.Status
	}
	if p.NextArrival != nil {
		v.NextArrival = *p.NextArrival
	}
	if p.RouteDemand != nil {
		v.RouteDemand = *p.RouteDemand
	}
	if p.CurrentStopIndex != nil {
		v.CurrentStopIndex = *p.CurrentStopIndex
	}
	if p.SpeedKmph != nil {
		v.SpeedKmph = *p.SpeedKmph
	}
	if p.CurrentLat != nil {
		v.CurrentLat = p.CurrentLat
	}
	if p.CurrentLng != nil {
		v.CurrentLng = p.CurrentLng
	}
}
