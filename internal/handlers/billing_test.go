package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rastreiaserra/atendimento-backend/internal/models"
	"github.com/rastreiaserra/atendimento-backend/internal/services"
	"github.com/rastreiaserra/atendimento-backend/internal/storage"
)

type fakeBilling struct {
	customer    *services.Customer
	customerErr error
	chargeErr   error
}

func (f *fakeBilling) FindCustomer(cpfCnpj, email string) (*services.Customer, error) {
	return f.customer, f.customerErr
}

func (f *fakeBilling) GetCustomer(customerID string) (*services.Customer, error) {
	return f.customer, f.customerErr
}

func (f *fakeBilling) CreateCustomer(name, cpfCnpj, email, mobilePhone string) (*services.Customer, error) {
	if f.customerErr != nil {
		return nil, f.customerErr
	}
	return &services.Customer{ID: "cus_1", Name: name, MobilePhone: mobilePhone}, nil
}

func (f *fakeBilling) ListOpenCharges(customerID string) ([]services.Charge, error) {
	return nil, nil
}

func (f *fakeBilling) GetCharge(chargeID string) (*services.Charge, error) {
	return nil, nil
}

func (f *fakeBilling) CreateCharge(customerID, billingType, description, dueDate string, value float64) (*services.Charge, error) {
	if f.chargeErr != nil {
		return nil, f.chargeErr
	}
	return &services.Charge{
		ID:         "pay_1",
		Customer:   customerID,
		Value:      value,
		DueDate:    dueDate,
		InvoiceURL: "https://inv.example/1",
	}, nil
}

func (f *fakeBilling) PixPayload(chargeID string) (string, error) {
	return "", nil
}

func newBillingFixture(billing services.BillingProvider) (*BillingHandler, *fakeGateway, *storage.MemoryStore) {
	gateway := &fakeGateway{}
	store := storage.NewMemoryStore()
	handler := NewBillingHandler(billing, services.NewTemplateService(gateway), store)
	return handler, gateway, store
}

func TestHandleCreateCharge(t *testing.T) {
	handler, _, store := newBillingFixture(&fakeBilling{})
	app := fiber.New()
	app.Post("/api/charges", handler.HandleCreateCharge)

	t.Run("created", func(t *testing.T) {
		body := `{"contactId":"+55 54 98401-1516","name":"Ana","description":"Mensalidade","amount":79.9,"dueDate":"2026-09-10"}`
		req := httptest.NewRequest("POST", "/api/charges", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var out map[string]interface{}
		raw, _ := io.ReadAll(resp.Body)
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.Equal(t, "pay_1", out["chargeId"])
		assert.Equal(t, "https://inv.example/1", out["paymentLink"])

		ref, err := store.GetChargeRef("pay_1")
		require.NoError(t, err)
		assert.Equal(t, "5554984011516", ref.ContactID, "contact id normalized to digits")
		assert.Equal(t, "Ana", ref.ContactName)
	})

	t.Run("missing fields", func(t *testing.T) {
		for name, body := range map[string]string{
			"no contact": `{"name":"Ana","description":"x","amount":1,"dueDate":"2026-09-10"}`,
			"no name":    `{"contactId":"555","description":"x","amount":1,"dueDate":"2026-09-10"}`,
			"no amount":  `{"contactId":"555","name":"Ana","description":"x","dueDate":"2026-09-10"}`,
			"no dueDate": `{"contactId":"555","name":"Ana","description":"x","amount":1}`,
		} {
			req := httptest.NewRequest("POST", "/api/charges", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)

			require.NoError(t, err, name)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, name)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/charges", strings.NewReader("not json"))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleCreateChargeProviderError(t *testing.T) {
	handler, _, _ := newBillingFixture(&fakeBilling{chargeErr: errors.New("boom")})
	app := fiber.New()
	app.Post("/api/charges", handler.HandleCreateCharge)

	body := `{"contactId":"555","name":"Ana","description":"x","amount":1,"dueDate":"2026-09-10"}`
	req := httptest.NewRequest("POST", "/api/charges", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestHandleCreateChargeWithoutBilling(t *testing.T) {
	handler, _, _ := newBillingFixture(nil)
	app := fiber.New()
	app.Post("/api/charges", handler.HandleCreateCharge)

	req := httptest.NewRequest("POST", "/api/charges", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestDispatchStatus(t *testing.T) {
	t.Run("overdue via stored ref", func(t *testing.T) {
		handler, gateway, store := newBillingFixture(&fakeBilling{})
		_, err := store.CreateChargeRef(&models.ChargeRef{
			ChargeID: "pay_1", ContactID: "5554984011516", ContactName: "Ana",
		})
		require.NoError(t, err)

		handler.DispatchStatus(&StatusWebhookPayload{
			Event: "PAYMENT_OVERDUE",
			Payment: StatusWebhookCharge{
				ID: "pay_1", Value: 79.9, DueDate: "2026-09-10", InvoiceURL: "https://inv/1",
			},
		})

		require.Len(t, gateway.templates, 1)
		sent := gateway.templates[0]
		assert.Equal(t, "cobranca_vencida", sent.Name)
		assert.Equal(t, "5554984011516", sent.To)
		assert.Equal(t, []string{"Ana", "pay_1", "2026-09-10", "79,90", "https://inv/1"}, sent.Params)
	})

	t.Run("confirmed payment", func(t *testing.T) {
		handler, gateway, store := newBillingFixture(&fakeBilling{})
		_, err := store.CreateChargeRef(&models.ChargeRef{ChargeID: "pay_2", ContactID: "555", ContactName: "Ana"})
		require.NoError(t, err)

		handler.DispatchStatus(&StatusWebhookPayload{
			Event:   "PAYMENT_RECEIVED",
			Payment: StatusWebhookCharge{ID: "pay_2", Value: 159.8},
		})

		require.Len(t, gateway.templates, 1)
		assert.Equal(t, "pagamento_confirmado", gateway.templates[0].Name)
		assert.Equal(t, []string{"Ana", "pay_2", "159,80"}, gateway.templates[0].Params)
	})

	t.Run("contact via billing customer lookup", func(t *testing.T) {
		handler, gateway, _ := newBillingFixture(&fakeBilling{
			customer: &services.Customer{ID: "cus_9", Name: "Beto", MobilePhone: "+55 54 9111-2222"},
		})

		handler.DispatchStatus(&StatusWebhookPayload{
			Event:   "PAYMENT_CREATED",
			Payment: StatusWebhookCharge{ID: "pay_X", Customer: "cus_9", Value: 10, DueDate: "2026-09-01", InvoiceURL: "u"},
		})

		require.Len(t, gateway.templates, 1)
		assert.Equal(t, "cobranca_gerada", gateway.templates[0].Name)
		assert.Equal(t, "555491112222", gateway.templates[0].To)
	})

	t.Run("unknown contact skipped", func(t *testing.T) {
		handler, gateway, _ := newBillingFixture(&fakeBilling{})

		handler.DispatchStatus(&StatusWebhookPayload{
			Event:   "PAYMENT_OVERDUE",
			Payment: StatusWebhookCharge{ID: "pay_Z"},
		})

		assert.Empty(t, gateway.templates)
	})

	t.Run("unhandled event ignored", func(t *testing.T) {
		handler, gateway, _ := newBillingFixture(&fakeBilling{})

		handler.DispatchStatus(&StatusWebhookPayload{Event: "PAYMENT_DELETED"})

		assert.Empty(t, gateway.templates)
	})
}

func TestTemplateForStatus(t *testing.T) {
	assert.Equal(t, "cobranca_vencida", templateForStatus("PAYMENT_OVERDUE", ""))
	assert.Equal(t, "cobranca_vencida", templateForStatus("", "OVERDUE"))
	assert.Equal(t, "pagamento_confirmado", templateForStatus("PAYMENT_RECEIVED", ""))
	assert.Equal(t, "pagamento_confirmado", templateForStatus("", "CONFIRMED"))
	assert.Equal(t, "cobranca_gerada", templateForStatus("PAYMENT_CREATED", ""))
	assert.Empty(t, templateForStatus("PAYMENT_DELETED", ""))
}
