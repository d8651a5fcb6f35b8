package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rastreiaserra/atendimento-backend/internal/conversation"
)

func TestHealthSnapshot(t *testing.T) {
	sessions := conversation.NewMemoryStore()
	sessions.Set("555", conversation.Session{Step: conversation.StepSupportMenu})

	handler := NewHealthHandler(sessions, true, false, "In-Memory (Testing)")
	app := fiber.New()
	app.Get("/health", handler.Handle)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, "healthy", out["status"])
	assert.Equal(t, "In-Memory (Testing)", out["storage"])
	assert.Equal(t, float64(1), out["sessions"])
	assert.Equal(t, true, out["whatsapp"].(map[string]interface{})["configured"])
	assert.Equal(t, false, out["billing"].(map[string]interface{})["configured"])
}
