package setup

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"user-directory/config"
	"user-directory/middleware"
	"user-directory/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestErrorHandler_MapsErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", models.NewValidationError(models.MsgEmailInvalid), fiber.StatusBadRequest, models.MsgEmailInvalid},
		{"not found", models.NewNotFoundError(models.MsgUserNotFound), fiber.StatusNotFound, models.MsgUserNotFound},
		{"transport", models.NewTransportError("failed to fetch users", errors.New("timeout")), fiber.StatusBadGateway, "failed to fetch users"},
		{"persistence", models.NewPersistenceError("failed to save user", errors.New("disk full")), fiber.StatusInternalServerError, "Internal server error"},
		{"fiber error", fiber.NewError(fiber.StatusTeapot, "short and stout"), fiber.StatusTeapot, "short and stout"},
		{"plain error", errors.New("boom"), fiber.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fiberApp := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(discardLogger())})
			fiberApp.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := fiberApp.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.message, body["error"])
		})
	}
}

func TestNewServer_WiresMiddlewareAndRoutes(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer remote.Close()

	cfg := &config.Config{
		DBPath:        filepath.Join(t.TempDir(), "server.db"),
		UsersURL:      remote.URL,
		FetchTimeout:  time.Second,
		ProbeInterval: time.Second,
		Locale:        "en",
		CORSOrigins:   "*",
	}
	logger := discardLogger()

	db, err := InitDatabase(cfg.DBPath, logger)
	require.NoError(t, err)
	application, err := InitApp(db, cfg, logger)
	require.NoError(t, err)
	defer Shutdown(application, db, logger)

	fiberApp := NewServer(application, cfg, logger)

	resp, err := fiberApp.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	resp, err = fiberApp.Test(httptest.NewRequest(http.MethodDelete, "/api/users/ghost@x.com", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = fiberApp.Test(httptest.NewRequest(http.MethodGet, "/nope", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	assert.Eventually(t, func() bool {
		return len(application.Errors.Recent()) == 1
	}, time.Second, 5*time.Millisecond)
}
