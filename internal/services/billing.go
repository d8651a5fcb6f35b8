package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// BillingProvider is the slice of the Asaas API the bot depends on. The
// interface exists so the executor and handlers can be tested without the
// network.
type BillingProvider interface {
	FindCustomer(cpfCnpj, email string) (*Customer, error)
	GetCustomer(customerID string) (*Customer, error)
	CreateCustomer(name, cpfCnpj, email, mobilePhone string) (*Customer, error)
	ListOpenCharges(customerID string) ([]Charge, error)
	GetCharge(chargeID string) (*Charge, error)
	CreateCharge(customerID, billingType, description, dueDate string, value float64) (*Charge, error)
	PixPayload(chargeID string) (string, error)
}

// Customer is an Asaas customer record.
type Customer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	CpfCnpj     string `json:"cpfCnpj"`
	MobilePhone string `json:"mobilePhone"`
}

// Charge is an Asaas payment/charge record.
type Charge struct {
	ID          string  `json:"id"`
	Customer    string  `json:"customer"`
	Value       float64 `json:"value"`
	DueDate     string  `json:"dueDate"`
	Status      string  `json:"status"`
	BillingType string  `json:"billingType"`
	Description string  `json:"description"`
	BankSlipURL string  `json:"bankSlipUrl"`
	InvoiceURL  string  `json:"invoiceUrl"`
}

// PaymentLink returns the best available link for a charge (boleto first).
func (c Charge) PaymentLink() string {
	if c.BankSlipURL != "" {
		return c.BankSlipURL
	}
	return c.InvoiceURL
}

// AsaasClient is the HTTP client for the Asaas v3 API.
type AsaasClient struct {
	base   string
	apiKey string
	http   *http.Client
}

// NewAsaasClient creates a billing client. Returns nil when no API key is
// configured; callers treat a nil provider as "billing unavailable".
func NewAsaasClient(base, apiKey string) *AsaasClient {
	if apiKey == "" {
		return nil
	}
	return &AsaasClient{
		base:   base,
		apiKey: apiKey,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

type asaasList[T any] struct {
	Data []T `json:"data"`
}

// FindCustomer looks a customer up by tax id or e-mail; nil when none match.
func (a *AsaasClient) FindCustomer(cpfCnpj, email string) (*Customer, error) {
	params := url.Values{}
	if cpfCnpj != "" {
		params.Set("cpfCnpj", cpfCnpj)
	}
	if email != "" {
		params.Set("email", email)
	}

	var list asaasList[Customer]
	if err := a.get("/customers?"+params.Encode(), &list); err != nil {
		return nil, err
	}
	if len(list.Data) == 0 {
		return nil, nil
	}
	return &list.Data[0], nil
}

func (a *AsaasClient) GetCustomer(customerID string) (*Customer, error) {
	var customer Customer
	if err := a.get("/customers/"+customerID, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (a *AsaasClient) CreateCustomer(name, cpfCnpj, email, mobilePhone string) (*Customer, error) {
	payload := map[string]string{"name": name}
	if cpfCnpj != "" {
		payload["cpfCnpj"] = cpfCnpj
	}
	if email != "" {
		payload["email"] = email
	}
	if mobilePhone != "" {
		payload["mobilePhone"] = mobilePhone
	}

	var customer Customer
	if err := a.post("/customers", payload, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListOpenCharges returns the pending and overdue charges of a customer.
func (a *AsaasClient) ListOpenCharges(customerID string) ([]Charge, error) {
	params := url.Values{}
	params.Set("customer", customerID)
	params.Set("status", "PENDING,OVERDUE")

	var list asaasList[Charge]
	if err := a.get("/payments?"+params.Encode(), &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

func (a *AsaasClient) GetCharge(chargeID string) (*Charge, error) {
	var charge Charge
	if err := a.get("/payments/"+chargeID, &charge); err != nil {
		return nil, err
	}
	return &charge, nil
}

func (a *AsaasClient) CreateCharge(customerID, billingType, description, dueDate string, value float64) (*Charge, error) {
	if billingType == "" {
		billingType = "BOLETO"
	}
	payload := map[string]interface{}{
		"customer":    customerID,
		"billingType": billingType,
		"description": description,
		"dueDate":     dueDate,
		"value":       value,
	}

	var charge Charge
	if err := a.post("/payments", payload, &charge); err != nil {
		return nil, err
	}
	return &charge, nil
}

type asaasPix struct {
	Payload string `json:"payload"`
}

// PixPayload returns the copy-and-paste PIX code of a charge.
func (a *AsaasClient) PixPayload(chargeID string) (string, error) {
	var pix asaasPix
	if err := a.get("/payments/"+chargeID+"/pixQrCode", &pix); err != nil {
		return "", err
	}
	return pix.Payload, nil
}

func (a *AsaasClient) get(path string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, a.base+path, nil)
	if err != nil {
		return err
	}
	return a.do(req, out)
}

func (a *AsaasClient) post(path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, a.base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, out)
}

func (a *AsaasClient) do(req *http.Request, out interface{}) error {
	req.Header.Set("access_token", a.apiKey)

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("asaas request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("asaas returned status %d: %s", resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
