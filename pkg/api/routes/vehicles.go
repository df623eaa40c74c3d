package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/events"
)

func VehiclesRouter(router fiber.Router, services *Services) {
	router.Get("/", services.listVehicles)
	router.Post("/", services.createVehicle)

	router.Get("/next_arrival", services.getNextArrival)
	router.Get("/priority", services.getHighestPriority)
	router.Get("/by_arrival", services.listVehiclesByArrival)
	router.Get("/by_priority", services.listVehiclesByPriority)
	router.Get("/statistics", services.getFleetStatistics)

	router.Get("/:id", services.getVehicle)
	router.Put("/:id", services.updateVehicle)
	router.Delete("/:id", services.deleteVehicle)
	router.Post("/:id/allocate", services.allocateVehicle)
	router.Post("/:id/arrival", services.updateVehicleArrival)
	router.Post("/:id/position", services.updateVehiclePosition)
}

func vehicleID(c *fiber.Ctx) (int, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

func (s *Services) listVehicles(c *fiber.Ctx) error {
	var vehicles []ctdf.Vehicle

	switch {
	case c.Query("query") != "":
		var err error
		vehicles, err = s.Engine.QueryVehicles(c.Query("query"))
		if err != nil {
			return sendError(c, err)
		}
	case c.Query("status") != "":
		status := ctdf.VehicleStatus(c.Query("status"))
		if !status.Valid() {
			return badRequest(c, "Status must be one of active, inactive or maintenance")
		}
		vehicles = s.Engine.VehiclesByStatus(status)
	case c.Query("route") != "":
		vehicles = s.Engine.VehiclesByRoute(c.Query("route"))
	default:
		vehicles = s.Engine.Vehicles()
	}

	return reduce(c, vehicles)
}

func (s *Services) createVehicle(c *fiber.Ctx) error {
	var vehicle ctdf.Vehicle
	if err := c.BodyParser(&vehicle); err != nil {
		return badRequest(c, "Could not parse vehicle")
	}

	created, err := s.Engine.AddVehicle(vehicle)
	if err != nil {
		return sendError(c, err)
	}

	s.persist()
	s.publish(events.VehicleEvent(created, s.Engine.Now()))

	c.Status(fiber.StatusCreated)
	return reduce(c, created)
}

func (s *Services) getVehicle(c *fiber.Ctx) error {
	id, ok := vehicleID(c)
	if !ok {
		return badRequest(c, "Vehicle id should be a positive integer")
	}

	vehicle, err := s.Engine.Vehicle(id)
	if err != nil {
		return sendError(c, err)
	}

	return reduce(c, vehicle)
}

func (s *Services) updateVehicle(c *fiber.Ctx) error {
	id, ok := vehicleID(c)
	if !ok {
		return badRequest(c, "Vehicle id should be a positive integer")
	}

	var patch ctdf.VehiclePatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Could not parse vehicle update")
	}

	vehicle, err := s.Engine.UpdateVehicle(id, patch)
	if err != nil {
		return sendError(c, err)
	}

	s.persist()
	s.publish(events.VehicleEvent(vehicle, s.Engine.Now()))

	return reduce(c, vehicle)
}

func (s *Services) deleteVehicle(c *fiber.Ctx) error {
	id, ok := vehicleID(c)
	if !ok {
		return badRequest(c, "Vehicle id should be a positive integer")
	}

	if err := s.Engine.RemoveVehicle(id); err != nil {
		return sendError(c, err)
	}

	s.persist()

	return c.SendStatus(fiber.StatusNoContent)
}

type allocateRequest struct {
	RouteID   string `json:"route_id" validate:"required_without=RouteName"`
	RouteName string `json:"route_name"`
}

func (s *Services) allocateVehicle(c *fiber.Ctx) error {
	id, ok := vehicleID(c)
	if !ok {
		return badRequest(c, "Vehicle id should be a positive integer")
	}

	var request allocateRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "Could not parse allocation")
	}
	if err := validate.Struct(request); err != nil {
		return badRequest(c, "A route_id or route_name is required")
	}

	vehicle, err := s.Engine.AllocateVehicle(id, request.RouteID, request.RouteName)
	if err != nil {
		return sendError(c, err)
	}

	s.persist()
	s.publish(events.VehicleEvent(vehicle, s.Engine.Now()))

	return reduce(c, vehicle)
}

type arrivalRequest struct {
	NextArrival string `json:"next_arrival" validate:"required"`
}

func (s *Services) updateVehicleArrival(c *fiber.Ctx) error {
	id, ok := vehicleID(c)
	if !ok {
		return badRequest(c, "Vehicle id should be a positive integer")
	}

	var request arrivalRequest
	if err := c.BodyParser(&request); err != nil || validate.Struct(request) != nil {
		return badRequest(c, "A next_arrival time (HH:MM or auto) is required")
	}

	vehicle, err := s.Engine.UpdateArrival(id, request.NextArrival)
	if err != nil {
		return sendError(c, err)
	}

	s.persist()

	return reduce(c, vehicle)
}

type positionRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	StopIndex *int     `json:"stop_index" validate:"omitempty,gte=0"`
}

func (s *Services) updateVehiclePosition(c *fiber.Ctx) error {
	id, ok := vehicleID(c)
	if !ok {
		return badRequest(c, "Vehicle id should be a positive integer")
	}

	var request positionRequest
	if err := c.BodyParser(&request); err != nil || validate.Struct(request) != nil {
		return badRequest(c, "A valid latitude and longitude are required")
	}

	vehicle, err := s.Engine.UpdatePosition(id, *request.Latitude, *request.Longitude, request.StopIndex)
	if err != nil {
		return sendError(c, err)
	}

	s.persist()

	return reduce(c, vehicle)
}

func (s *Services) getNextArrival(c *fiber.Ctx) error {
	vehicle, ok := s.Engine.NextArrival()
	if !ok {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "The fleet is empty",
		})
	}

	return reduce(c, vehicle)
}

func (s *Services) getHighestPriority(c *fiber.Ctx) error {
	vehicle, ok := s.Engine.HighestPriority()
	if !ok {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "The fleet is empty",
		})
	}

	return reduce(c, vehicle)
}

func (s *Services) listVehiclesByArrival(c *fiber.Ctx) error {
	return reduce(c, s.Engine.SortedByArrival())
}

func (s *Services) listVehiclesByPriority(c *fiber.Ctx) error {
	return reduce(c, s.Engine.PriorityOrder())
}

func (s *Services) getFleetStatistics(c *fiber.Ctx) error {
	return c.JSON(s.Engine.FleetStatistics())
}
