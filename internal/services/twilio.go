package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioGateway sends WhatsApp messages through Twilio instead of the Cloud
// API. Selected with GATEWAY=twilio; inbound webhooks still arrive in the
// Cloud API shape, only the outbound leg changes.
type TwilioGateway struct {
	client *twilio.RestClient
	from   string // Format: "whatsapp:+14155238886"
}

// twilioContentSIDs maps our template names to approved Twilio Content SIDs.
var twilioContentSIDs = map[string]string{
	"segunda_via_fatura":   "HX1f0c5e9a47d2b8e30a7c44b1d2f6a911",
	"cobranca_gerada":      "HX84b0d13c6a2f47e9b5d8013fe9c2ab47",
	"cobranca_vencida":     "HX3d92ab7f15c84a60b7e2f4d9a1c8e502",
	"pagamento_confirmado": "HXc7a2e84f90d14b3a8e6fb2d5071c9e36",
}

// NewTwilioGateway creates a Twilio-backed gateway.
func NewTwilioGateway(accountSID, authToken, from string) (*TwilioGateway, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioGateway{client: client, from: from}, nil
}

// SendText sends a plain WhatsApp message via Twilio.
func (t *TwilioGateway) SendText(to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:+%s", to))
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send WhatsApp message: %v", err)
		return err
	}

	log.Printf("✅ WhatsApp message sent! SID: %s", *resp.Sid)
	return nil
}

// SendTemplate sends a template message; positional params become the
// {{1}}, {{2}}, ... content variables Twilio expects.
func (t *TwilioGateway) SendTemplate(to, templateName string, templateParams []string) error {
	sid, ok := twilioContentSIDs[templateName]
	if !ok {
		return fmt.Errorf("no Twilio content SID registered for template '%s'", templateName)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:+%s", to))
	params.SetContentSid(sid)

	if len(templateParams) > 0 {
		contentVariables := make(map[string]string, len(templateParams))
		for i, p := range templateParams {
			contentVariables[fmt.Sprintf("%d", i+1)] = p
		}
		variablesJSON, err := json.Marshal(contentVariables)
		if err != nil {
			return fmt.Errorf("failed to marshal content variables: %w", err)
		}
		params.SetContentVariables(string(variablesJSON))
	}

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send WhatsApp template: %v", err)
		return err
	}

	log.Printf("✅ WhatsApp template sent! SID: %s, Template: %s", *resp.Sid, templateName)
	return nil
}
