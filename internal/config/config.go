package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every environment-sourced setting of the service.
// Defaults mirror the values the bot shipped with.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	// Meta webhook verification
	VerifyToken string `envconfig:"VERIFY_TOKEN" default:"meu_token_de_verificacao"`

	// WhatsApp Cloud API
	WhatsToken    string `envconfig:"WHATS_TOKEN"`
	PhoneNumberID string `envconfig:"PHONE_NUMBER_ID"`
	GraphBase     string `envconfig:"GRAPH_BASE" default:"https://graph.facebook.com/v20.0"`

	// Outbound gateway selection: "meta" (default) or "twilio"
	Gateway            string `envconfig:"GATEWAY" default:"meta"`
	TwilioAccountSID   string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken    string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioWhatsAppFrom string `envconfig:"TWILIO_WHATSAPP_FROM"`

	// Asaas (segunda via / cobranças)
	AsaasAPIKey string `envconfig:"ASAAS_API_KEY"`
	AsaasBase   string `envconfig:"ASAAS_BASE" default:"https://api.asaas.com/v3"`

	// E-mail relay for payment proofs
	SMTPHost string `envconfig:"SMTP_HOST"`
	SMTPPort int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser string `envconfig:"SMTP_USER"`
	SMTPPass string `envconfig:"SMTP_PASS"`
	MailTo   string `envconfig:"MAIL_TO" default:"financeiro@rastreiaserra.com.br"`

	// Webhook fallback for payment proofs
	ProofWebhookURL string `envconfig:"PROVAS_WEBHOOK_URL"`

	// Static token required by the Asaas status webhook
	BillingWebhookToken string `envconfig:"BILLING_WEBHOOK_TOKEN"`

	// Service hours
	AtendInicio string `envconfig:"ATENDINICIO" default:"08:30"`
	AtendFim    string `envconfig:"ATENDFIM" default:"18:00"`
	AtendDias   string `envconfig:"ATENDDIAS" default:"Seg a Sex"`

	// Company identity
	CompanyName    string `envconfig:"COMPANY_NAME" default:"RASTREIA SERRA RASTREAMENTO VEICULAR"`
	CompanyAddress string `envconfig:"COMPANY_ADDRESS" default:"Rua Maestro João Cosner, 376 – Cidade Nova – Caxias do Sul/RS"`
	PaymentMethods string `envconfig:"PAYMENT_METHODS" default:"Cartão de crédito/débito, Pix, boleto e dinheiro"`
	SupportWhats   string `envconfig:"SUPPORT_WHATS" default:"54 98401-1516"`
	SupportEmail   string `envconfig:"SUPPORT_EMAIL" default:"rastreiaserra@outlook.com"`

	// Plan pricing (per unit)
	PlanMonthlyFee float64 `envconfig:"PLAN_MONTHLY_FEE" default:"79.90"`
	PlanSetupFee   float64 `envconfig:"PLAN_SETUP_FEE" default:"150.00"`

	// Storage
	UseMemoryStore bool `envconfig:"USE_MEMORY_STORE"`
}

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return &cfg, nil
}

// BillingConfigured reports whether the Asaas integration can be used.
func (c *Config) BillingConfigured() bool {
	return c.AsaasAPIKey != ""
}

// MailConfigured reports whether the SMTP relay can be used.
func (c *Config) MailConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != ""
}
