package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/travigo/transitops/pkg/events"
)

func NetworkRouter(router fiber.Router, services *Services) {
	router.Get("/stops", services.listStops)
	router.Get("/routes/:identifier", services.getRoute)
	router.Get("/cycle", services.getCycle)
	router.Get("/transfers/:first/:second", services.getTransferPoints)
	router.Post("/reload", services.reloadNetwork)
}

func (s *Services) listStops(c *fiber.Ctx) error {
	return reduce(c, s.Engine.Stops())
}

func (s *Services) getRoute(c *fiber.Ctx) error {
	route, err := s.Engine.Route(c.Params("identifier"))
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(route)
}

func (s *Services) getCycle(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"has_cycle": s.Engine.HasCycle(),
	})
}

func (s *Services) getTransferPoints(c *fiber.Ctx) error {
	stops, err := s.Engine.TransferPoints(c.Params("first"), c.Params("second"))
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(fiber.Map{
		"transfer_points": stops,
	})
}

func (s *Services) reloadNetwork(c *fiber.Ctx) error {
	if s.Store == nil {
		c.SendStatus(fiber.StatusServiceUnavailable)
		return c.JSON(fiber.Map{
			"error": "No data store configured",
		})
	}

	catalogue, err := s.Store.Catalogue(c.UserContext())
	if err != nil {
		return sendError(c, err)
	}

	if err := s.Engine.ReplaceCatalogue(catalogue); err != nil {
		return sendError(c, err)
	}

	if invalidator, ok := s.Planner.(Invalidator); ok {
		if _, err := invalidator.Invalidate(c.UserContext()); err != nil {
			log.Error().Err(err).Msg("Failed to invalidate cached plans")
		}
	}

	s.publish(events.Event{Type: events.EventTypeNetworkReloaded, Timestamp: s.Engine.Now()})

	return c.JSON(fiber.Map{
		"routes": len(catalogue.Routes),
		"stops":  len(s.Engine.Stops()),
	})
}
