package booking

import (
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/errs"
	"github.com/travigo/transitops/pkg/fleet"
	"github.com/travigo/transitops/pkg/passengers"
	"github.com/travigo/transitops/pkg/scheduling"
	"golang.org/x/exp/slices"
)

const DefaultNextTicketID = 1000

type seatKey struct {
	vehicleID  int
	travelDate string
}

type StopCounter interface {
	StopCount() int
}

// Ledger books and cancels tickets against the fleet, keeping seat maps,
// the booking history and the ticket priority queue in step.
type Ledger struct {
	Fleet      *fleet.Index
	Passengers *passengers.Registry
	Routes     fleet.RouteResolver
	Schedule   *scheduling.Adapter
	Network    StopCounter
	Pricing    Pricing
	Now        func() time.Time

	tickets map[string]*ctdf.Ticket
	order   []string
	seats   map[seatKey]map[int]bool
	// history is kept oldest first and read back to front
	history []ctdf.Ticket
	queue   *ticketQueue
	nextID  int
}

func NewLedger(fleetIndex *fleet.Index, registry *passengers.Registry, routes fleet.RouteResolver) *Ledger {
	return &Ledger{
		Fleet:      fleetIndex,
		Passengers: registry,
		Routes:     routes,
		Schedule:   scheduling.NewAdapter(),
		Pricing:    DefaultPricing(),
		Now:        time.Now,

		tickets: map[string]*ctdf.Ticket{},
		seats:   map[seatKey]map[int]bool{},
		queue:   &ticketQueue{},
		nextID:  DefaultNextTicketID,
	}
}

// Load replaces the ledger with a persisted snapshot. Seat maps are rebuilt from the
// tickets that are still confirmed, queue entries from every ticket not yet popped.
func (l *Ledger) Load(snapshot ctdf.LedgerSnapshot) {
	l.tickets = map[string]*ctdf.Ticket{}
	l.order = nil
	l.seats = map[seatKey]map[int]bool{}
	l.history = nil
	l.queue = &ticketQueue{}

	l.nextID = snapshot.NextID
	if l.nextID <= 0 {
		l.nextID = DefaultNextTicketID
	}

	for _, stored := range snapshot.Tickets {
		ticket := cloneTicket(&stored)

		var sequence int
		if _, err := fmt.Sscanf(ticket.TicketID, "TKT%d", &sequence); err == nil && sequence >= l.nextID {
			l.nextID = sequence + 1
		}

		l.tickets[ticket.TicketID] = &ticket
		l.order = append(l.order, ticket.TicketID)
		l.history = append(l.history, cloneTicket(&ticket))

		if ticket.IsActive() {
			l.occupy(seatKey{ticket.VehicleID, ticket.TravelDate}, ticket.SeatNumber)
		}
		if !ticket.Dequeued {
			l.queue.push(ticket.TicketID, priorityFor(&ticket))
		}
	}

	log.Debug().Int("tickets", len(l.order)).Int("next", l.nextID).Msg("Loaded booking ledger")
}

func (l *Ledger) Snapshot() ctdf.LedgerSnapshot {
	snapshot := ctdf.LedgerSnapshot{
		Tickets: l.Tickets(),
		NextID:  l.nextID,
	}

	if l.Passengers != nil {
		snapshot.Passengers = l.Passengers.Snapshot()
	}

	return snapshot
}

type Availability struct {
	VehicleID     int          `json:"vehicle_id" groups:"basic"`
	BusNumber     string       `json:"bus_number" groups:"basic"`
	PlateNumber   string       `json:"plate_number" groups:"basic"`
	DriverName    string       `json:"driver_name" groups:"detailed"`
	DriverContact string       `json:"driver_contact" groups:"detailed"`
	Type          ctdf.BusType `json:"type" groups:"basic"`

	Capacity       int `json:"capacity" groups:"basic"`
	AvailableSeats int `json:"available_seats" groups:"basic"`

	RouteID   string `json:"route_id" groups:"basic"`
	RouteName string `json:"route_name" groups:"basic"`

	FromStop            string  `json:"from_stop" groups:"basic"`
	ToStop              string  `json:"to_stop" groups:"basic"`
	DepartureTime       string  `json:"departure_time" groups:"basic"`
	ArrivalTime         string  `json:"arrival_time" groups:"basic"`
	EstimatedTravelTime string  `json:"estimated_travel_time" groups:"basic"`
	Fare                float64 `json:"fare" groups:"basic"`

	departure scheduling.Clock
}

// journey is a vehicle's resolved trip between two stops on a date.
type journey struct {
	route     *ctdf.Route
	fromIndex int
	toIndex   int
	departure scheduling.Clock
	arrival   scheduling.Clock
}

// AvailableVehicles lists active vehicles whose route serves fromStop before toStop on
// travelDate, by departure. Vehicles with incomplete route or timetable data are skipped.
func (l *Ledger) AvailableVehicles(fromStop string, toStop string, travelDate string) ([]Availability, error) {
	date, err := parseTravelDate(travelDate)
	if err != nil {
		return nil, err
	}

	available := []Availability{}

	for _, vehicle := range l.Fleet.FilterByStatus(ctdf.VehicleStatusActive) {
		trip, err := l.plan(&vehicle, fromStop, toStop, date)
		if err != nil {
			log.Debug().Err(err).Int("vehicle", vehicle.ID).Msg("Vehicle not available")
			continue
		}

		booked := len(l.seats[seatKey{vehicle.ID, travelDate}])

		available = append(available, Availability{
			VehicleID:     vehicle.ID,
			BusNumber:     vehicle.BusNumber,
			PlateNumber:   vehicle.PlateNumber,
			DriverName:    vehicle.DriverName,
			DriverContact: vehicle.DriverContact,
			Type:          vehicle.Type,

			Capacity:       vehicle.Capacity,
			AvailableSeats: vehicle.Capacity - booked,

			RouteID:   trip.route.RouteID,
			RouteName: trip.route.RouteName,

			FromStop:            fromStop,
			ToStop:              toStop,
			DepartureTime:       trip.departure.String(),
			ArrivalTime:         trip.arrival.String(),
			EstimatedTravelTime: scheduling.FormatTravelTime(int(trip.arrival - trip.departure)),
			Fare:                l.Pricing.Fare(vehicle.Type, trip.toIndex-trip.fromIndex),

			departure: trip.departure,
		})
	}

	slices.SortStableFunc(available, func(a, b Availability) int {
		return int(a.departure - b.departure)
	})

	return available, nil
}

// plan resolves the route, stop order and timings of a trip. The reference clock only
// applies when travelling today, later dates get the first departure of the day.
func (l *Ledger) plan(vehicle *ctdf.Vehicle, fromStop string, toStop string, date time.Time) (journey, error) {
	var route *ctdf.Route
	if l.Routes != nil && vehicle.HasRoute() {
		route = l.Routes.RouteFor(vehicle.RouteID, vehicle.RouteName)
	}
	if route == nil {
		return journey{}, errs.New(errs.ErrRouteNotFound, "vehicle %d has no known route", vehicle.ID)
	}

	fromIndex := route.IndexOf(fromStop)
	if fromIndex == -1 {
		return journey{}, errs.New(errs.ErrUnknownStop, "%s is not served by route %s", fromStop, route.RouteName)
	}
	toIndex := route.IndexOf(toStop)
	if toIndex == -1 {
		return journey{}, errs.New(errs.ErrUnknownStop, "%s is not served by route %s", toStop, route.RouteName)
	}
	if fromIndex >= toIndex {
		return journey{}, errs.New(errs.ErrRouteShape, "%s does not come before %s on route %s", fromStop, toStop, route.RouteName)
	}

	var reference *scheduling.Clock
	if now := l.Now(); sameDay(now, date) {
		clock := scheduling.ClockOf(now)
		reference = &clock
	}

	departure, err := l.Schedule.NextDeparture(route, fromStop, date, reference)
	if err != nil {
		return journey{}, err
	}

	arrival, err := l.Schedule.Arrival(route, fromStop, toStop, departure)
	if err != nil {
		return journey{}, err
	}

	return journey{
		route:     route,
		fromIndex: fromIndex,
		toIndex:   toIndex,
		departure: departure,
		arrival:   arrival,
	}, nil
}

// Book issues a ticket. Every check runs before anything is written, so a failed
// booking leaves seats, history, queue, passenger totals and the fleet untouched.
func (l *Ledger) Book(request ctdf.BookingRequest) (ctdf.Ticket, error) {
	date, err := parseTravelDate(request.TravelDate)
	if err != nil {
		return ctdf.Ticket{}, err
	}

	vehicle, err := l.Fleet.Find(request.VehicleID)
	if err != nil {
		return ctdf.Ticket{}, err
	}

	passenger, err := l.Passengers.Search(request.PassengerID)
	if err != nil {
		return ctdf.Ticket{}, err
	}

	trip, err := l.plan(&vehicle, request.FromStop, request.ToStop, date)
	if err != nil {
		return ctdf.Ticket{}, err
	}

	key := seatKey{vehicle.ID, request.TravelDate}
	seat := l.freeSeat(key, vehicle.Capacity)
	if seat == 0 {
		return ctdf.Ticket{}, errs.New(errs.ErrNoSeatsAvailable, "vehicle %d has no free seats on %s", vehicle.ID, request.TravelDate)
	}

	// seats are per date while the passenger count is not, so a full count only stops counting
	counted := vehicle.CurrentPassengers < vehicle.Capacity

	now := l.Now()
	ticketID := fmt.Sprintf("TKT%06d", l.nextID)

	ticket := ctdf.Ticket{
		TicketID:         ticketID,
		PassengerID:      passenger.PassengerID,
		PassengerName:    request.PassengerName,
		PassengerContact: request.PassengerContact,

		VehicleID: vehicle.ID,
		BusNumber: vehicle.BusNumber,
		RouteID:   trip.route.RouteID,
		RouteName: trip.route.RouteName,

		FromStop:      request.FromStop,
		ToStop:        request.ToStop,
		DepartureTime: trip.departure.String(),
		ArrivalTime:   trip.arrival.String(),
		TravelDate:    request.TravelDate,

		SeatNumber: seat,
		Fare:       l.Pricing.Fare(vehicle.Type, trip.toIndex-trip.fromIndex),

		BookingTime:   now.Format(ctdf.TimestampFormat),
		Status:        ctdf.TicketStatusConfirmed,
		QRCode:        fmt.Sprintf("BUS:%s:%s", ticketID, now.Format("20060102150405")),
		PaymentStatus: ctdf.PaymentStatusPaid,
		Emergency:     request.Emergency,
		Counted:       &counted,
	}
	if ticket.PassengerName == "" {
		ticket.PassengerName = passenger.FullName
	}
	if ticket.PassengerContact == "" {
		ticket.PassengerContact = passenger.Contact()
	}

	l.nextID++
	l.occupy(key, seat)
	l.tickets[ticketID] = &ticket
	l.order = append(l.order, ticketID)
	l.history = append(l.history, cloneTicket(&ticket))
	l.queue.push(ticketID, priorityFor(&ticket))

	if err := l.Passengers.RecordBooking(passenger.PassengerID, ticket.Fare); err != nil {
		return ctdf.Ticket{}, err
	}
	if counted {
		if _, err := l.Fleet.AdjustPassengers(vehicle.ID, 1); err != nil {
			return ctdf.Ticket{}, err
		}
	}

	log.Debug().Str("ticket", ticketID).Int("vehicle", vehicle.ID).Int("seat", seat).Msg("Booked ticket")

	return cloneTicket(&ticket), nil
}

// Cancel frees the seat and demotes the ticket to the back of the priority queue.
func (l *Ledger) Cancel(ticketID string) (ctdf.Ticket, error) {
	ticket, exists := l.tickets[ticketID]
	if !exists {
		return ctdf.Ticket{}, errs.New(errs.ErrTicketNotFound, "ticket %s does not exist", ticketID)
	}
	if !ticket.IsActive() {
		return ctdf.Ticket{}, errs.New(errs.ErrAlreadyCancelled, "ticket %s was cancelled at %s", ticketID, ticket.CancellationTime)
	}

	ticket.Status = ctdf.TicketStatusCancelled
	ticket.CancellationTime = l.Now().Format(ctdf.TimestampFormat)

	delete(l.seats[seatKey{ticket.VehicleID, ticket.TravelDate}], ticket.SeatNumber)

	if delta := ticket.PassengerDelta(); delta > 0 {
		if _, err := l.Fleet.AdjustPassengers(ticket.VehicleID, -delta); err != nil {
			log.Debug().Err(err).Str("ticket", ticketID).Msg("Vehicle gone, passenger count not adjusted")
		}
	}

	l.queue.updatePriority(ticketID, PriorityCancelled)

	log.Debug().Str("ticket", ticketID).Msg("Cancelled ticket")

	return cloneTicket(ticket), nil
}

func (l *Ledger) occupy(key seatKey, seat int) {
	occupied, exists := l.seats[key]
	if !exists {
		occupied = map[int]bool{}
		l.seats[key] = occupied
	}

	occupied[seat] = true
}

// freeSeat returns the lowest unoccupied seat number, 0 when the vehicle is full.
func (l *Ledger) freeSeat(key seatKey, capacity int) int {
	occupied := l.seats[key]

	for seat := 1; seat <= capacity; seat++ {
		if !occupied[seat] {
			return seat
		}
	}

	return 0
}

// BookedSeats lists the occupied seats of a vehicle on a date in ascending order.
func (l *Ledger) BookedSeats(vehicleID int, travelDate string) []int {
	seats := []int{}
	for seat := range l.seats[seatKey{vehicleID, travelDate}] {
		seats = append(seats, seat)
	}
	slices.Sort(seats)

	return seats
}

func priorityFor(ticket *ctdf.Ticket) int {
	if !ticket.IsActive() {
		return PriorityCancelled
	}
	if ticket.Emergency {
		return PriorityEmergency
	}

	return PriorityNormal
}

func parseTravelDate(value string) (time.Time, error) {
	date, err := time.Parse(ctdf.DateFormat, value)
	if err != nil {
		return time.Time{}, errs.New(errs.ErrInvalidDate, "%q is not a YYYY-MM-DD date", value)
	}

	return date, nil
}

func sameDay(a time.Time, b time.Time) bool {
	return a.Format(ctdf.DateFormat) == b.Format(ctdf.DateFormat)
}

func cloneTicket(ticket *ctdf.Ticket) ctdf.Ticket {
	var clone ctdf.Ticket
	copier.CopyWithOption(&clone, ticket, copier.Option{DeepCopy: true})

	return clone
}
