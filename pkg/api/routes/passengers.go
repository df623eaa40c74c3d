package routes

import (
	"github.com/gofiber/fiber/v2"
)

func PassengersRouter(router fiber.Router, services *Services) {
	router.Get("/", services.listPassengers)
	router.Post("/", services.registerPassenger)
	router.Get("/:id", services.getPassenger)
	router.Get("/:id/tickets", services.getPassengerTickets)
	router.Get("/:id/history", services.getPassengerHistory)
}

type registerPassengerRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (s *Services) listPassengers(c *fiber.Ctx) error {
	return reduce(c, s.Engine.Passengers())
}

func (s *Services) registerPassenger(c *fiber.Ctx) error {
	var request registerPassengerRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "Could not parse passenger")
	}
	if err := validate.Struct(request); err != nil {
		return badRequest(c, err.Error())
	}

	passenger := s.Engine.RegisterPassenger(request.FullName, request.Email, request.Phone, request.Address)

	s.persist()

	c.Status(fiber.StatusCreated)
	return reduce(c, passenger)
}

func (s *Services) getPassenger(c *fiber.Ctx) error {
	passenger, err := s.Engine.Passenger(c.Params("id"))
	if err != nil {
		return sendError(c, err)
	}

	return reduce(c, passenger)
}

func (s *Services) getPassengerTickets(c *fiber.Ctx) error {
	if _, err := s.Engine.Passenger(c.Params("id")); err != nil {
		return sendError(c, err)
	}

	return reduce(c, s.Engine.PassengerTickets(c.Params("id")))
}

func (s *Services) getPassengerHistory(c *fiber.Ctx) error {
	history, err := s.Engine.TravelHistory(c.Params("id"))
	if err != nil {
		return sendError(c, err)
	}

	return reduce(c, history)
}
