package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/rastreiaserra/atendimento-backend/internal/conversation"
	"github.com/rastreiaserra/atendimento-backend/internal/models"
	"github.com/rastreiaserra/atendimento-backend/internal/storage"
)

// ProofDeliverer relays a payment proof; true means some channel accepted it.
type ProofDeliverer interface {
	Deliver(faturaID, contactID, filename, contentType string, data []byte) bool
}

// Executor performs the side effects the interpreter decides on. All
// collaborator failures end the same way: logged, the contact gets a generic
// message, and the session is cleared so nobody is left stuck mid-flow.
type Executor struct {
	gateway  Gateway
	tpl      *TemplateService
	billing  BillingProvider
	media    MediaFetcher
	relay    ProofDeliverer
	store    storage.Store
	sessions conversation.SessionStore
	menus    *conversation.Catalog
}

// NewExecutor creates the action executor. billing and media may be nil when
// the respective integration is not configured.
func NewExecutor(
	gateway Gateway,
	billing BillingProvider,
	media MediaFetcher,
	relay ProofDeliverer,
	store storage.Store,
	sessions conversation.SessionStore,
	menus *conversation.Catalog,
) *Executor {
	return &Executor{
		gateway:  gateway,
		tpl:      NewTemplateService(gateway),
		billing:  billing,
		media:    media,
		relay:    relay,
		store:    store,
		sessions: sessions,
		menus:    menus,
	}
}

// Run executes actions in order. Never returns an error: outbound actions are
// fire-and-forget.
func (x *Executor) Run(actions []conversation.Action) {
	for _, action := range actions {
		switch a := action.(type) {
		case conversation.SendText:
			x.sendText(a.To, a.Body)
		case conversation.SecondCopyLookup:
			x.runSecondCopy(a)
		case conversation.RelayProof:
			x.runProofRelay(a)
		case conversation.CreateTicket:
			x.createTicket(a)
		case conversation.RecordFeedback:
			x.recordFeedback(a)
		default:
			log.Printf("⚠️  Unknown action type %T", action)
		}
	}
}

func (x *Executor) sendText(to, body string) {
	if err := x.gateway.SendText(to, body); err != nil {
		log.Printf("❌ Failed to send message to %s: %v", to, err)
	}
}

// runSecondCopy resolves the billing customer and replies with the open
// charges. It owns the step transition: match → session cleared; no match →
// contact stays in the second-copy step; provider error → generic retry
// message and session cleared.
func (x *Executor) runSecondCopy(a conversation.SecondCopyLookup) {
	if x.billing == nil {
		x.sendText(a.To, x.menus.SecondCopyUnavailable())
		x.sessions.Clear(a.To)
		return
	}

	customer, err := x.billing.FindCustomer(a.CPFCNPJ, a.Email)
	if err != nil {
		log.Printf("❌ Asaas customer lookup failed: %v", err)
		x.sendText(a.To, x.menus.GenericRetry())
		x.sessions.Clear(a.To)
		return
	}
	if customer == nil {
		x.sendText(a.To, x.menus.SecondCopyNotFound())
		return
	}

	charges, err := x.billing.ListOpenCharges(customer.ID)
	if err != nil {
		log.Printf("❌ Asaas charge listing failed: %v", err)
		x.sendText(a.To, x.menus.GenericRetry())
		x.sessions.Clear(a.To)
		return
	}

	x.sendText(a.To, x.buildSecondCopyMessage(charges))

	name := customer.Name
	if name == "" {
		name = a.Name
	}
	if name == "" {
		name = "Cliente"
	}
	for _, charge := range charges {
		link := charge.PaymentLink()
		if link == "" && charge.BillingType == "PIX" {
			if payload, err := x.billing.PixPayload(charge.ID); err == nil {
				link = payload
			}
		}
		if link == "" {
			continue
		}
		params := map[string]string{
			"nome":       name,
			"fatura_id":  charge.ID,
			"vencimento": formatDueDateBR(charge.DueDate),
			"valor":      conversation.FormatBRL(charge.Value),
			"url":        link,
		}
		if err := x.tpl.SendTemplate(a.To, "segunda_via_fatura", params); err != nil {
			log.Printf("❌ Failed to send segunda via template: %v", err)
		}
	}

	x.sessions.Clear(a.To)
}

func (x *Executor) buildSecondCopyMessage(charges []Charge) string {
	if len(charges) == 0 {
		return "✅ Nenhuma cobrança pendente encontrada no seu cadastro."
	}

	lines := []string{"📄 *Faturas/2ª via encontradas:*"}
	for _, charge := range charges {
		link := charge.PaymentLink()
		if link == "" && charge.BillingType == "PIX" {
			if payload, err := x.billing.PixPayload(charge.ID); err == nil && payload != "" {
				link = "PIX copia-e-cola:\n" + payload
			} else {
				link = "PIX disponível (erro ao gerar QR Code)."
			}
		}
		if link == "" {
			link = "Link indisponível"
		}
		lines = append(lines, fmt.Sprintf("• #%s | Venc.: %s | Valor: R$ %s\n%s",
			charge.ID, formatDueDateBR(charge.DueDate), conversation.FormatBRL(charge.Value), link))
	}
	lines = append(lines, "\nTambém enviamos a *segunda via* como mensagem estruturada. Se precisar de ajuda, responda com *4* para atendente.")
	return strings.Join(lines, "\n")
}

// runProofRelay downloads the attachment and forwards it. The session is
// cleared whatever the outcome; the contact learns whether the proof was
// registered automatically.
func (x *Executor) runProofRelay(a conversation.RelayProof) {
	if x.media == nil {
		x.sendText(a.To, x.menus.ProofProcessingError())
		x.sessions.Clear(a.To)
		return
	}

	url, mimeType, err := x.media.ResolveMediaURL(a.MediaID)
	if err != nil {
		log.Printf("❌ Failed to resolve media %s: %v", a.MediaID, err)
		x.sendText(a.To, x.menus.ProofProcessingError())
		x.sessions.Clear(a.To)
		return
	}

	data, contentType, err := x.media.DownloadBinary(url)
	if err != nil {
		log.Printf("❌ Failed to download media %s: %v", a.MediaID, err)
		x.sendText(a.To, x.menus.ProofProcessingError())
		x.sessions.Clear(a.To)
		return
	}
	if contentType == "" {
		contentType = mimeType
	}

	if x.relay.Deliver(a.FaturaID, a.To, a.Filename, contentType, data) {
		x.sendText(a.To, x.menus.ProofReceived(a.FaturaID))
	} else {
		x.sendText(a.To, x.menus.ProofRelayFailed())
	}
	x.sessions.Clear(a.To)
}

func (x *Executor) createTicket(a conversation.CreateTicket) {
	ticket := &models.SupportTicket{
		Protocol:    a.Protocol,
		ContactID:   a.ContactID,
		ContactName: a.Name,
		IssueType:   models.IssueTypeRecovery,
		Description: a.Description,
	}
	if _, err := x.store.CreateSupportTicket(ticket); err != nil {
		log.Printf("❌ Failed to persist support ticket %s: %v", a.Protocol, err)
	}
}

func (x *Executor) recordFeedback(a conversation.RecordFeedback) {
	fb := &models.Feedback{
		ContactID: a.ContactID,
		Score:     a.Score,
		Comment:   a.Comment,
	}
	if _, err := x.store.CreateFeedback(fb); err != nil {
		log.Printf("❌ Failed to persist feedback from %s: %v", a.ContactID, err)
	}
}

// formatDueDateBR renders an Asaas due date (YYYY-MM-DD) as DD/MM/YYYY.
func formatDueDateBR(dueDate string) string {
	if dueDate == "" {
		return "-"
	}
	t, err := time.Parse("2006-01-02", dueDate)
	if err != nil {
		return dueDate
	}
	return t.Format("02/01/2006")
}
