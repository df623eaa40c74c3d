package routes

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Services) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"fleet":    s.Engine.FleetStatistics(),
		"bookings": s.Engine.BookingStatistics(),
		"network": fiber.Map{
			"stops":     len(s.Engine.Stops()),
			"has_cycle": s.Engine.HasCycle(),
		},
	})
}
