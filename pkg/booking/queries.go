package booking

import (
	"math"

	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/errs"
)

func (l *Ledger) Ticket(ticketID string) (ctdf.Ticket, error) {
	ticket, exists := l.tickets[ticketID]
	if !exists {
		return ctdf.Ticket{}, errs.New(errs.ErrTicketNotFound, "ticket %s does not exist", ticketID)
	}

	return cloneTicket(ticket), nil
}

// Tickets lists every ticket in issue order.
func (l *Ledger) Tickets() []ctdf.Ticket {
	return l.collect(func(*ctdf.Ticket) bool { return true })
}

func (l *Ledger) PassengerTickets(passengerID string) []ctdf.Ticket {
	return l.collect(func(ticket *ctdf.Ticket) bool {
		return ticket.PassengerID == passengerID
	})
}

func (l *Ledger) collect(match func(ticket *ctdf.Ticket) bool) []ctdf.Ticket {
	tickets := []ctdf.Ticket{}
	for _, ticketID := range l.order {
		ticket := l.tickets[ticketID]
		if match(ticket) {
			tickets = append(tickets, cloneTicket(ticket))
		}
	}

	return tickets
}

// History walks the booking log newest first until fn returns false.
func (l *Ledger) History(fn func(entry ctdf.Ticket) bool) {
	for i := len(l.history) - 1; i >= 0; i-- {
		if !fn(cloneTicket(&l.history[i])) {
			return
		}
	}
}

// TravelHistory lists the passenger's bookings as they were issued, newest first.
func (l *Ledger) TravelHistory(passengerID string) []ctdf.Ticket {
	entries := []ctdf.Ticket{}
	l.History(func(entry ctdf.Ticket) bool {
		if entry.PassengerID == passengerID {
			entries = append(entries, entry)
		}
		return true
	})

	return entries
}

func (l *Ledger) RecentBookings(count int) []ctdf.Ticket {
	entries := []ctdf.Ticket{}
	l.History(func(entry ctdf.Ticket) bool {
		if len(entries) >= count {
			return false
		}
		entries = append(entries, entry)
		return true
	})

	return entries
}

func (l *Ledger) BookingsByDate(travelDate string) []ctdf.Ticket {
	entries := []ctdf.Ticket{}
	l.History(func(entry ctdf.Ticket) bool {
		if entry.TravelDate == travelDate {
			entries = append(entries, entry)
		}
		return true
	})

	return entries
}

// PriorityTicket peeks the front of the ticket queue.
func (l *Ledger) PriorityTicket() (ctdf.Ticket, bool) {
	ticketID, ok := l.queue.peek()
	if !ok {
		return ctdf.Ticket{}, false
	}

	return cloneTicket(l.tickets[ticketID]), true
}

// PopPriorityTicket removes the front of the ticket queue and marks the ticket so a
// reloaded ledger does not queue it again.
func (l *Ledger) PopPriorityTicket() (ctdf.Ticket, bool) {
	ticketID, ok := l.queue.pop()
	if !ok {
		return ctdf.Ticket{}, false
	}

	ticket := l.tickets[ticketID]
	ticket.Dequeued = true

	return cloneTicket(ticket), true
}

type Statistics struct {
	TotalTickets       int     `json:"total_tickets"`
	ActiveTickets      int     `json:"active_tickets"`
	CancelledTickets   int     `json:"cancelled_tickets"`
	TotalRevenue       float64 `json:"total_revenue"`
	TotalPassengers    int     `json:"total_passengers"`
	PriorityQueueSize  int     `json:"priority_queue_size"`
	BookingHistorySize int     `json:"booking_history_size"`
	TransportNodes     int     `json:"transport_nodes"`
	AverageFare        float64 `json:"average_fare"`
}

// Statistics counts revenue only from confirmed, paid tickets.
func (l *Ledger) Statistics() Statistics {
	stats := Statistics{
		TotalTickets:       len(l.order),
		PriorityQueueSize:  l.queue.len(),
		BookingHistorySize: len(l.history),
	}

	for _, ticketID := range l.order {
		ticket := l.tickets[ticketID]

		switch ticket.Status {
		case ctdf.TicketStatusConfirmed:
			stats.ActiveTickets++
			if ticket.PaymentStatus == ctdf.PaymentStatusPaid {
				stats.TotalRevenue += ticket.Fare
			}
		case ctdf.TicketStatusCancelled:
			stats.CancelledTickets++
		}
	}

	if stats.ActiveTickets > 0 {
		stats.AverageFare = roundCents(stats.TotalRevenue / float64(stats.ActiveTickets))
	}
	stats.TotalRevenue = roundCents(stats.TotalRevenue)

	if l.Passengers != nil {
		stats.TotalPassengers = l.Passengers.Len()
	}
	if l.Network != nil {
		stats.TransportNodes = l.Network.StopCount()
	}

	return stats
}

func roundCents(value float64) float64 {
	return math.Round(value*100) / 100
}
