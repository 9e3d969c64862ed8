package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"

	"craftfolio/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := logger.Log
	logger.Log = slog.New(slog.NewJSONHandler(buf, nil))
	t.Cleanup(func() { logger.Log = prev })
	return buf
}

func TestUseSetsRequestIDAndKeepsErrorStatus(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	Use(app)
	app.Get("/boom", func(c *fiber.Ctx) error { panic("boom") })
	NewHandler(nil).Register(app)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/portfolios/bad-id", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRequestLoggerRecordsRecoveredPanic(t *testing.T) {
	buf := captureLog(t)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	Use(app)
	app.Get("/boom", func(c *fiber.Ctx) error { panic("boom") })

	req := httptest.NewRequest(fiber.MethodGet, "/boom", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-panic-1")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "req-panic-1", resp.Header.Get(fiber.HeaderXRequestID))

	var line map[string]any
	for _, raw := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal(raw, &entry), string(raw))
		if entry["msg"] == "http request" {
			line = entry
		}
	}
	require.NotNil(t, line, buf.String())
	assert.Equal(t, "/boom", line["path"])
	assert.Equal(t, float64(fiber.StatusInternalServerError), line["status"])
	assert.Equal(t, "req-panic-1", line["request_id"])
}
