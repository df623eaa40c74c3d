package calculator

import (
	"github.com/travigo/transitops/pkg/booking"
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/engine"
)

type BookingsStats struct {
	booking.Statistics

	EmergencyTickets int    `json:"emergency_tickets"`
	NextPriority     string `json:"next_priority_ticket"`
}

func GetBookings(transitEngine *engine.Engine) BookingsStats {
	stats := BookingsStats{
		Statistics:   transitEngine.BookingStatistics(),
		NextPriority: "N/A",
	}

	for _, passenger := range transitEngine.Passengers() {
		for _, ticket := range transitEngine.PassengerTickets(passenger.PassengerID) {
			if ticket.Emergency && ticket.Status == ctdf.TicketStatusConfirmed {
				stats.EmergencyTickets++
			}
		}
	}

	if ticket, ok := transitEngine.PriorityTicket(); ok {
		stats.NextPriority = ticket.TicketID
	}

	return stats
}
