package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/transitops/pkg/api/routes"
)

func NewApp(services *routes.Services) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)
	group.Get("stats", services.Stats)

	routes.VehiclesRouter(group.Group("/vehicles"), services)
	routes.PassengersRouter(group.Group("/passengers"), services)
	routes.PlannerRouter(group.Group("/planner"), services)
	routes.NetworkRouter(group.Group("/network"), services)
	routes.BookingsRouter(group.Group("/bookings"), services)

	return webApp
}

func SetupServer(listen string, services *routes.Services) error {
	return NewApp(services).Listen(listen)
}
