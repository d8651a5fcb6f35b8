package handlers

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rastreiaserra/atendimento-backend/internal/conversation"
	"github.com/rastreiaserra/atendimento-backend/internal/services"
	"github.com/rastreiaserra/atendimento-backend/internal/storage"
)

type sentTemplate struct {
	To     string
	Name   string
	Params []string
}

type fakeGateway struct {
	mu        sync.Mutex
	texts     []string
	templates []sentTemplate
}

func (f *fakeGateway) SendText(to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, body)
	return nil
}

func (f *fakeGateway) SendTemplate(to, name string, params []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templates = append(f.templates, sentTemplate{To: to, Name: name, Params: params})
	return nil
}

func newTestWebhookApp(gateway *fakeGateway) *fiber.App {
	sessions := conversation.NewMemoryStore()
	menus := &conversation.Catalog{CompanyName: "RS"}
	interp := conversation.NewInterpreter(menus, false)
	exec := services.NewExecutor(gateway, nil, nil, nil, storage.NewMemoryStore(), sessions, menus)
	engine := services.NewEngine(sessions, interp, exec)
	handler := NewWebhookHandler(engine, "token-secreto")

	app := fiber.New()
	app.Get("/webhook", handler.HandleVerify)
	app.Post("/webhook", handler.HandleEvent)
	return app
}

func TestHandleVerify(t *testing.T) {
	app := newTestWebhookApp(&fakeGateway{})

	t.Run("valid handshake echoes challenge", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/webhook?hub.mode=subscribe&hub.verify_token=token-secreto&hub.challenge=12345", nil)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "12345", string(body))
	})

	t.Run("wrong token forbidden", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/webhook?hub.mode=subscribe&hub.verify_token=errado&hub.challenge=12345", nil)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("wrong mode forbidden", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/webhook?hub.mode=unsubscribe&hub.verify_token=token-secreto", nil)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}

func TestHandleEventAlwaysAcks(t *testing.T) {
	app := newTestWebhookApp(&fakeGateway{})

	t.Run("valid envelope", func(t *testing.T) {
		payload := `{"entry":[{"changes":[{"value":{
			"contacts":[{"wa_id":"5554984011516","profile":{"name":"Ana"}}],
			"messages":[{"from":"5554984011516","type":"text","text":{"body":"oi"}}]
		}}]}]}`
		req := httptest.NewRequest("POST", "/webhook", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("garbage body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/webhook", strings.NewReader("not json"))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, "provider must never see an error")
	})

	t.Run("status-only event", func(t *testing.T) {
		payload := `{"entry":[{"changes":[{"value":{"statuses":[{"status":"delivered"}]}}]}]}`
		req := httptest.NewRequest("POST", "/webhook", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
