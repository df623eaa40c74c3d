package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/events"
)

func BookingsRouter(router fiber.Router, services *Services) {
	router.Post("/", services.book)
	router.Post("/available", services.listAvailableVehicles)

	router.Get("/statistics", services.getBookingStatistics)
	router.Get("/recent", services.listRecentBookings)
	router.Get("/date/:date", services.listBookingsByDate)
	router.Get("/priority", services.getPriorityTicket)
	router.Post("/priority/pop", services.popPriorityTicket)

	router.Get("/:id", services.getTicket)
	router.Post("/:id/cancel", services.cancelTicket)
}

type availabilityRequest struct {
	FromStop   string `json:"from_stop" validate:"required"`
	ToStop     string `json:"to_stop" validate:"required"`
	TravelDate string `json:"travel_date" validate:"required"`
}

func (s *Services) listAvailableVehicles(c *fiber.Ctx) error {
	var request availabilityRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "Could not parse availability request")
	}
	if err := validate.Struct(request); err != nil {
		return badRequest(c, err.Error())
	}

	available, err := s.Engine.AvailableVehicles(request.FromStop, request.ToStop, request.TravelDate)
	if err != nil {
		return sendError(c, err)
	}

	return reduce(c, available)
}

func (s *Services) book(c *fiber.Ctx) error {
	var request ctdf.BookingRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "Could not parse booking request")
	}
	if err := validate.Struct(request); err != nil {
		return badRequest(c, err.Error())
	}

	ticket, err := s.Engine.Book(request)
	if err != nil {
		return sendError(c, err)
	}

	s.persist()
	s.publish(events.TicketEvent(events.EventTypeTicketBooked, ticket, s.Engine.Now()))

	c.Status(fiber.StatusCreated)
	return reduce(c, ticket)
}

func (s *Services) cancelTicket(c *fiber.Ctx) error {
	ticket, err := s.Engine.Cancel(c.Params("id"))
	if err != nil {
		return sendError(c, err)
	}

	s.persist()
	s.publish(events.TicketEvent(events.EventTypeTicketCancelled, ticket, s.Engine.Now()))

	return reduce(c, ticket)
}

func (s *Services) getTicket(c *fiber.Ctx) error {
	ticket, err := s.Engine.Ticket(c.Params("id"))
	if err != nil {
		return sendError(c, err)
	}

	return reduce(c, ticket)
}

func (s *Services) listRecentBookings(c *fiber.Ctx) error {
	count := c.QueryInt("count", 10)
	if count <= 0 {
		return badRequest(c, "Parameter count should be a positive integer")
	}

	return reduce(c, s.Engine.RecentBookings(count))
}

func (s *Services) listBookingsByDate(c *fiber.Ctx) error {
	return reduce(c, s.Engine.BookingsByDate(c.Params("date")))
}

func (s *Services) getPriorityTicket(c *fiber.Ctx) error {
	ticket, ok := s.Engine.PriorityTicket()
	if !ok {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "The priority queue is empty",
		})
	}

	return reduce(c, ticket)
}

func (s *Services) popPriorityTicket(c *fiber.Ctx) error {
	ticket, ok := s.Engine.PopPriorityTicket()
	if !ok {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "The priority queue is empty",
		})
	}

	s.persist()

	return reduce(c, ticket)
}

func (s *Services) getBookingStatistics(c *fiber.Ctx) error {
	return c.JSON(s.Engine.BookingStatistics())
}
