package ctdf

type TicketStatus string

const (
	TicketStatusConfirmed TicketStatus = "confirmed"
	TicketStatusCancelled TicketStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type Ticket struct {
	TicketID string `json:"ticket_id" groups:"basic"`

	PassengerID      string `json:"passenger_id" groups:"basic"`
	PassengerName    string `json:"passenger_name" groups:"basic"`
	PassengerContact string `json:"passenger_contact" groups:"detailed"`

	VehicleID int    `json:"vehicle_id" groups:"basic"`
	BusNumber string `json:"bus_number" groups:"basic"`
	RouteID   string `json:"route_id" groups:"basic"`
	RouteName string `json:"route_name" groups:"basic"`

	FromStop      string `json:"from_stop" groups:"basic"`
	ToStop        string `json:"to_stop" groups:"basic"`
	DepartureTime string `json:"departure_time" groups:"basic"`
	ArrivalTime   string `json:"arrival_time" groups:"basic"`
	TravelDate    string `json:"travel_date" groups:"basic"`

	SeatNumber int     `json:"seat_number" groups:"basic"`
	Fare       float64 `json:"fare" groups:"basic"`

	BookingTime      string        `json:"booking_time" groups:"detailed"`
	Status           TicketStatus  `json:"status" groups:"basic"`
	QRCode           string        `json:"qr_code,omitempty" groups:"detailed"`
	PaymentStatus    PaymentStatus `json:"payment_status" groups:"detailed"`
	Emergency        bool          `json:"emergency,omitempty" groups:"detailed"`
	CancellationTime string        `json:"cancellation_time,omitempty" groups:"detailed"`
	Dequeued         bool          `json:"dequeued,omitempty" groups:"detailed"`

	// Counted is whether booking raised the vehicle's passenger count. Ledgers written
	// before it existed leave it nil, and those tickets are treated as counted.
	Counted *bool `json:"counted,omitempty"`
}

// PassengerDelta is how much cancelling this ticket lowers the vehicle's passenger count.
func (t *Ticket) PassengerDelta() int {
	if t.Counted != nil && !*t.Counted {
		return 0
	}

	return 1
}

func (t *Ticket) IsActive() bool {
	return t.Status != TicketStatusCancelled
}

type BookingRequest struct {
	PassengerID      string `json:"passenger_id" validate:"required"`
	PassengerName    string `json:"passenger_name"`
	PassengerContact string `json:"passenger_contact"`

	VehicleID  int    `json:"vehicle_id" validate:"required,gt=0"`
	FromStop   string `json:"from_stop" validate:"required"`
	ToStop     string `json:"to_stop" validate:"required,nefield=FromStop"`
	TravelDate string `json:"travel_date" validate:"required,datetime=2006-01-02"`

	Emergency bool `json:"emergency"`
}
