package jobs

import (
	"log"
	"time"

	"github.com/rastreiaserra/atendimento-backend/internal/conversation"
	"github.com/rastreiaserra/atendimento-backend/internal/services"
	"github.com/rastreiaserra/atendimento-backend/internal/storage"
)

// ReminderJob sends scheduled billing reminders over WhatsApp
type ReminderJob struct {
	store     storage.Store
	billing   services.BillingProvider
	templates *services.TemplateService
	isRunning bool
}

// NewReminderJob creates a new reminder job scheduler
func NewReminderJob(store storage.Store, billing services.BillingProvider, templates *services.TemplateService) *ReminderJob {
	return &ReminderJob{
		store:     store,
		billing:   billing,
		templates: templates,
	}
}

// Start begins all scheduled reminder jobs
func (r *ReminderJob) Start() {
	if r.isRunning {
		log.Println("Reminder jobs already running")
		return
	}
	if r.billing == nil {
		log.Println("⚠️  Billing not configured, reminder jobs disabled")
		return
	}

	r.isRunning = true
	log.Println("Starting scheduled reminder jobs...")

	go r.scheduleOverdueCheck()
}

// Stop halts all scheduled jobs
func (r *ReminderJob) Stop() {
	r.isRunning = false
	log.Println("Stopping scheduled reminder jobs...")
}

// OVERDUE REMINDER - Runs daily at 9 AM
func (r *ReminderJob) scheduleOverdueCheck() {
	for r.isRunning {
		now := time.Now()
		nextRun := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location())
		if now.After(nextRun) {
			nextRun = nextRun.Add(24 * time.Hour)
		}

		duration := nextRun.Sub(now)
		log.Printf("Next overdue charge check scheduled in %v", duration)
		time.Sleep(duration)

		if !r.isRunning {
			break
		}

		r.sendOverdueReminders()
	}
}

// sendOverdueReminders notifies contacts whose tracked charges went overdue
func (r *ReminderJob) sendOverdueReminders() {
	log.Println("Checking for overdue charges...")

	refs, err := r.store.GetChargeRefs()
	if err != nil {
		log.Printf("Error getting charge refs for overdue check: %v", err)
		return
	}

	sentCount := 0
	for _, ref := range refs {
		if ref.ContactID == "" {
			continue
		}

		charge, err := r.billing.GetCharge(ref.ChargeID)
		if err != nil {
			log.Printf("Error getting charge %s: %v", ref.ChargeID, err)
			continue
		}
		if charge == nil || charge.Status != "OVERDUE" {
			continue
		}

		params := map[string]string{
			"nome":       ref.ContactName,
			"fatura_id":  charge.ID,
			"vencimento": formatDueDate(charge.DueDate),
			"valor":      conversation.FormatBRL(charge.Value),
			"url":        charge.PaymentLink(),
		}
		if params["nome"] == "" {
			params["nome"] = "Cliente"
		}

		if err := r.templates.SendTemplate(ref.ContactID, "cobranca_vencida", params); err != nil {
			log.Printf("Failed to send overdue reminder to %s: %v", ref.ContactID, err)
			continue
		}

		sentCount++
	}

	log.Printf("Overdue reminders sent: %d", sentCount)
}

// formatDueDate converts an ISO date (2006-01-02) into the Brazilian format
func formatDueDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}
