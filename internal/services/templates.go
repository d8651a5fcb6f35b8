package services

import (
	"fmt"
)

// TemplateConfig describes an approved WhatsApp template.
type TemplateConfig struct {
	Description string
	Parameters  []string
}

// Templates maps template names to their configuration. All templates are
// approved in pt_BR with positional body parameters.
var Templates = map[string]TemplateConfig{
	"segunda_via_fatura": {
		Description: "Segunda via de fatura com link de pagamento",
		Parameters:  []string{"nome", "fatura_id", "vencimento", "valor", "url"},
	},
	"cobranca_gerada": {
		Description: "Nova cobrança gerada",
		Parameters:  []string{"nome", "fatura_id", "vencimento", "valor", "url"},
	},
	"cobranca_vencida": {
		Description: "Cobrança vencida",
		Parameters:  []string{"nome", "fatura_id", "vencimento", "valor", "url"},
	},
	"pagamento_confirmado": {
		Description: "Pagamento confirmado",
		Parameters:  []string{"nome", "fatura_id", "valor"},
	},
}

// TemplateService validates and dispatches template messages.
type TemplateService struct {
	gateway Gateway
}

// NewTemplateService creates a new template service.
func NewTemplateService(gateway Gateway) *TemplateService {
	return &TemplateService{gateway: gateway}
}

// SendTemplate sends a named template after validating its parameters.
func (ts *TemplateService) SendTemplate(to, templateName string, params map[string]string) error {
	template, exists := Templates[templateName]
	if !exists {
		return fmt.Errorf("template '%s' not found", templateName)
	}

	ordered := make([]string, 0, len(template.Parameters))
	for _, name := range template.Parameters {
		value, ok := params[name]
		if !ok {
			return fmt.Errorf("missing required parameter: %s", name)
		}
		ordered = append(ordered, value)
	}

	return ts.gateway.SendTemplate(to, templateName, ordered)
}
