package events

import (
	"time"

	"github.com/travigo/transitops/pkg/ctdf"
)

const QueueName = "booking-events"

type EventType string

const (
	EventTypeTicketBooked    EventType = "TicketBooked"
	EventTypeTicketCancelled EventType = "TicketCancelled"
	EventTypeVehicleUpdated  EventType = "VehicleUpdated"
	EventTypeNetworkReloaded EventType = "NetworkReloaded"
)

type Event struct {
	Type      EventType     `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Ticket    *ctdf.Ticket  `json:"ticket,omitempty"`
	Vehicle   *ctdf.Vehicle `json:"vehicle,omitempty"`
}

func TicketEvent(eventType EventType, ticket ctdf.Ticket, now time.Time) Event {
	return Event{Type: eventType, Timestamp: now, Ticket: &ticket}
}

func VehicleEvent(vehicle ctdf.Vehicle, now time.Time) Event {
	return Event{Type: EventTypeVehicleUpdated, Timestamp: now, Vehicle: &vehicle}
}
