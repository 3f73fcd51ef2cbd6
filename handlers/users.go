package handlers

import (
	"errors"
	"net/url"

	"user-directory/app"
	"user-directory/models"

	"github.com/gofiber/fiber/v2"
)

// ListUsers returns the current user snapshot
func ListUsers(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return success(c, fiber.Map{"users": a.UserService.Snapshot()})
	}
}

// CreateUser adds a locally created user
func CreateUser(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.AddUserRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		user, err := a.UserService.AddUser(c.UserContext(), req)
		if err != nil {
			if errors.Is(err, models.ErrValidation) {
				return badRequest(c, errorMessage(err))
			}
			return serverErrorWithDetails(c, "Failed to add user", err)
		}

		return created(c, fiber.Map{"user": user})
	}
}

// DeleteUser removes the user with the email in the path
func DeleteUser(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email, err := url.PathUnescape(c.Params("email"))
		if err != nil || email == "" {
			return badRequest(c, "email is required")
		}

		if err := a.UserService.DeleteUser(c.UserContext(), models.User{Email: email}); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return notFound(c, errorMessage(err))
			}
			return serverErrorWithDetails(c, "Failed to delete user", err)
		}

		return success(c, fiber.Map{"message": "User deleted successfully"})
	}
}

// SyncUsers fetches the remote list and merges it into local storage
func SyncUsers(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := a.UserService.FetchUsers(c.UserContext())
		if err != nil {
			status := fiber.StatusInternalServerError
			if errors.Is(err, models.ErrTransport) {
				status = fiber.StatusBadGateway
			}
			return c.Status(status).JSON(fiber.Map{
				"error": errorMessage(err),
				"users": a.UserService.Snapshot(),
			})
		}

		return success(c, fiber.Map{
			"users":    result.Users,
			"imported": result.Imported,
		})
	}
}
