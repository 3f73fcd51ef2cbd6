package setup

import (
	"errors"
	"log/slog"
	"time"

	"user-directory/app"
	"user-directory/config"
	"user-directory/models"

	"github.com/gofiber/fiber/v2"
)

// NewServer builds the Fiber app with middleware and routes in place
func NewServer(application *app.App, cfg *config.Config, logger *slog.Logger) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName:               "user-directory",
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.FetchTimeout + 10*time.Second,
		IdleTimeout:           30 * time.Second,
		DisableStartupMessage: cfg.IsProduction(),
		ErrorHandler:          ErrorHandler(logger),
	})

	ApplyMiddleware(fiberApp, cfg, logger)
	RegisterRoutes(fiberApp, application)
	return fiberApp
}

// errorStatus maps an error returned by a handler to a status and a client message
func errorStatus(err error) (int, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	var appErr *models.Error
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, models.ErrValidation):
			return fiber.StatusBadRequest, appErr.Message
		case errors.Is(err, models.ErrNotFound):
			return fiber.StatusNotFound, appErr.Message
		case errors.Is(err, models.ErrTransport):
			return fiber.StatusBadGateway, appErr.Message
		}
	}

	return fiber.StatusInternalServerError, "Internal server error"
}

// ErrorHandler renders errors that reach Fiber as JSON tagged with the request id
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, message := errorStatus(err)

		requestID, _ := c.Locals("requestID").(string)

		level := slog.LevelWarn
		if code >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.UserContext(), level, "request failed",
			"request_id", requestID,
			"method", c.Method(),
			"path", c.Path(),
			"status", code,
			"kind", models.KindName(err),
			"error", err,
		)

		return c.Status(code).JSON(fiber.Map{
			"error":      message,
			"request_id": requestID,
		})
	}
}
