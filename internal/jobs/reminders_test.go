package jobs

import (
	"testing"

	"github.com/rastreiaserra/atendimento-backend/internal/models"
	"github.com/rastreiaserra/atendimento-backend/internal/services"
	"github.com/rastreiaserra/atendimento-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentTemplate struct {
	To     string
	Name   string
	Params []string
}

type fakeGateway struct {
	templates []sentTemplate
}

func (f *fakeGateway) SendText(to, body string) error { return nil }

func (f *fakeGateway) SendTemplate(to, name string, params []string) error {
	f.templates = append(f.templates, sentTemplate{To: to, Name: name, Params: params})
	return nil
}

type fakeBilling struct {
	charges map[string]*services.Charge
}

func (f *fakeBilling) FindCustomer(cpfCnpj, email string) (*services.Customer, error) {
	return nil, nil
}
func (f *fakeBilling) GetCustomer(customerID string) (*services.Customer, error) { return nil, nil }
func (f *fakeBilling) CreateCustomer(name, cpfCnpj, email, mobilePhone string) (*services.Customer, error) {
	return nil, nil
}
func (f *fakeBilling) ListOpenCharges(customerID string) ([]services.Charge, error) {
	return nil, nil
}
func (f *fakeBilling) GetCharge(chargeID string) (*services.Charge, error) {
	return f.charges[chargeID], nil
}
func (f *fakeBilling) CreateCharge(customerID, billingType, description, dueDate string, value float64) (*services.Charge, error) {
	return nil, nil
}
func (f *fakeBilling) PixPayload(chargeID string) (string, error) { return "", nil }

func TestSendOverdueReminders(t *testing.T) {
	store := storage.NewMemoryStore()
	gateway := &fakeGateway{}
	billing := &fakeBilling{charges: map[string]*services.Charge{
		"pay_overdue": {ID: "pay_overdue", Status: "OVERDUE", Value: 79.9, DueDate: "2026-08-01", InvoiceURL: "https://inv/1"},
		"pay_pending": {ID: "pay_pending", Status: "PENDING", Value: 79.9},
	}}

	_, err := store.CreateChargeRef(&models.ChargeRef{ChargeID: "pay_overdue", ContactID: "5554984011516", ContactName: "Ana"})
	require.NoError(t, err)
	_, err = store.CreateChargeRef(&models.ChargeRef{ChargeID: "pay_pending", ContactID: "5554984011517"})
	require.NoError(t, err)
	_, err = store.CreateChargeRef(&models.ChargeRef{ChargeID: "pay_orphan"})
	require.NoError(t, err)

	job := NewReminderJob(store, billing, services.NewTemplateService(gateway))
	job.sendOverdueReminders()

	require.Len(t, gateway.templates, 1, "only overdue charges with a contact get a reminder")
	sent := gateway.templates[0]
	assert.Equal(t, "cobranca_vencida", sent.Name)
	assert.Equal(t, "5554984011516", sent.To)
	assert.Equal(t, []string{"Ana", "pay_overdue", "01/08/2026", "79,90", "https://inv/1"}, sent.Params)
}

func TestFormatDueDate(t *testing.T) {
	assert.Equal(t, "01/08/2026", formatDueDate("2026-08-01"))
	assert.Equal(t, "amanhã", formatDueDate("amanhã"))
}
