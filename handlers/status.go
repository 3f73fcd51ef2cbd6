package handlers

import (
	"user-directory/app"

	"github.com/gofiber/fiber/v2"
)

// GetStatus reports connectivity, the stored user count and recent errors
func GetStatus(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		count, err := a.Repo.Count(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to count users", err)
		}

		return success(c, fiber.Map{
			"network_available": a.Monitor.Available(),
			"user_count":        count,
			"sync_interval":     a.SyncWorker.Interval().String(),
			"recent_errors":     a.Errors.Recent(),
		})
	}
}
