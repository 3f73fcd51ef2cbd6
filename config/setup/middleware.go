package setup

import (
	"log/slog"
	"time"

	"user-directory/config"
	"user-directory/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// ApplyMiddleware installs the global chain: panic recovery, request logging,
// security headers, CORS and a per-IP rate limit
func ApplyMiddleware(app *fiber.App, cfg *config.Config, logger *slog.Logger) {
	app.Use(
		recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}),
		middleware.StructuredLogger(logger),
		middleware.Security(),
		cors.New(corsConfig(cfg)),
		ipLimiter("", 200, "Rate limit exceeded"),
	)
}

func corsConfig(cfg *config.Config) cors.Config {
	return cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  "GET,POST,DELETE,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept," + middleware.RequestIDHeader,
		ExposeHeaders: middleware.RequestIDHeader,
		MaxAge:        86400,
	}
}

// ipLimiter allows max requests per minute per client IP within one bucket
func ipLimiter(bucket string, max int, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return bucket + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": message})
		},
	})
}
