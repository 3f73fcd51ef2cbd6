package setup

import (
	"user-directory/app"
	"user-directory/handlers"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App) {
	fiberApp.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	api := fiberApp.Group("/api")

	api.Get("/status", handlers.GetStatus(application))
	api.Get("/users", handlers.ListUsers(application))
	api.Post("/users", handlers.CreateUser(application))
	api.Delete("/users/:email", handlers.DeleteUser(application))

	// Sync calls the remote service and has its own limit
	api.Post("/users/sync", ipLimiter("sync:", 10, "Sync rate limit exceeded"), handlers.SyncUsers(application))
}
