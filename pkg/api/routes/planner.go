package routes

import (
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/transitops/pkg/networkgraph"
)

func PlannerRouter(router fiber.Router, services *Services) {
	router.Get("/nearest", services.getNearestStop)
	router.Get("/closest", services.getClosestStop)
	router.Get("/paths/:origin", services.getPathsFromStop)
	router.Get("/:origin/:destination", services.getPlanBetweenStops)
}

func (s *Services) getPlanBetweenStops(c *fiber.Ctx) error {
	criteria, err := networkgraph.ParseCriteria(c.Query("criteria"))
	if err != nil {
		return sendError(c, err)
	}

	plan, err := s.Planner.ShortestPath(c.UserContext(), c.Params("origin"), c.Params("destination"), criteria)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(plan)
}

func (s *Services) getNearestStop(c *fiber.Ctx) error {
	location := c.Query("location")
	if location == "" {
		return badRequest(c, "A location must be given")
	}

	return c.JSON(s.Engine.NearestStop(location))
}

func (s *Services) getClosestStop(c *fiber.Ctx) error {
	latitude := c.QueryFloat("lat", math.NaN())
	longitude := c.QueryFloat("lng", math.NaN())
	if math.IsNaN(latitude) || math.IsNaN(longitude) {
		return badRequest(c, "Parameters lat and lng should be numbers")
	}

	stop, distance, found := s.Engine.ClosestStop(latitude, longitude)
	if !found {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "No stop has coordinates",
		})
	}

	return c.JSON(fiber.Map{
		"stop":        stop,
		"distance_km": math.Round(distance*1000) / 1000,
	})
}

func (s *Services) getPathsFromStop(c *fiber.Ctx) error {
	depth := c.QueryInt("depth", 0)
	if depth < 0 {
		return badRequest(c, "Parameter depth should be a positive integer")
	}

	paths, err := s.Engine.EnumeratePaths(c.Params("origin"), depth)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(fiber.Map{
		"origin": c.Params("origin"),
		"count":  len(paths),
		"paths":  paths,
	})
}
