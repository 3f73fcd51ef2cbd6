package middleware

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(StructuredLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), Security())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("requestID").(string))
	})
	return app
}

func TestStructuredLogger_AssignsRequestID(t *testing.T) {
	resp, err := newTestApp().Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)

	id := resp.Header.Get(RequestIDHeader)
	_, parseErr := uuid.Parse(id)
	assert.NoError(t, parseErr)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, id, string(body))
}

func TestStructuredLogger_KeepsIncomingRequestID(t *testing.T) {
	incoming := uuid.New().String()
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, incoming)

	resp, err := newTestApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, incoming, resp.Header.Get(RequestIDHeader))
}

func TestSecurityHeaders(t *testing.T) {
	resp, err := newTestApp().Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}
