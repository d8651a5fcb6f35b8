package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/rastreiaserra/atendimento-backend/database"
	"github.com/rastreiaserra/atendimento-backend/internal/config"
	"github.com/rastreiaserra/atendimento-backend/internal/conversation"
	"github.com/rastreiaserra/atendimento-backend/internal/handlers"
	"github.com/rastreiaserra/atendimento-backend/internal/jobs"
	"github.com/rastreiaserra/atendimento-backend/internal/models"
	"github.com/rastreiaserra/atendimento-backend/internal/routes"
	"github.com/rastreiaserra/atendimento-backend/internal/services"
	"github.com/rastreiaserra/atendimento-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found - checking environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize storage
	var store storage.Store
	if cfg.UseMemoryStore {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.SupportTicket{},
			&models.Feedback{},
			&models.ChargeRef{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}

	// Outbound WhatsApp gateway
	var gateway services.Gateway
	var media services.MediaFetcher
	switch cfg.Gateway {
	case "twilio":
		tw, err := services.NewTwilioGateway(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom)
		if err != nil {
			log.Fatal("Failed to initialize Twilio gateway:", err)
		}
		gateway = tw
		log.Println("✅ Twilio WhatsApp gateway initialized")
	default:
		meta, err := services.NewMetaClient(cfg.GraphBase, cfg.WhatsToken, cfg.PhoneNumberID)
		if err != nil {
			log.Fatal("Failed to initialize WhatsApp Cloud API client:", err)
		}
		gateway = meta
		media = meta
		log.Println("✅ WhatsApp Cloud API client initialized")
	}

	// Billing (Asaas) is optional: without an API key the finance menu
	// degrades gracefully
	var billing services.BillingProvider
	if asaas := services.NewAsaasClient(cfg.AsaasBase, cfg.AsaasAPIKey); asaas != nil {
		billing = asaas
		log.Println("✅ Asaas billing integration enabled")
	} else {
		log.Println("⚠️  ASAAS_API_KEY not set - second copy and charge creation disabled")
	}

	relay := services.NewProofRelay(
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass,
		cfg.MailTo, cfg.ProofWebhookURL, cfg.CompanyName,
	)
	if !cfg.MailConfigured() && cfg.ProofWebhookURL == "" {
		log.Println("⚠️  No SMTP nor PROVAS_WEBHOOK_URL configured - payment proofs cannot be relayed")
	}

	menus := &conversation.Catalog{
		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		PaymentMethods: cfg.PaymentMethods,
		SupportWhats:   cfg.SupportWhats,
		SupportEmail:   cfg.SupportEmail,
		AtendDias:      cfg.AtendDias,
		AtendInicio:    cfg.AtendInicio,
		AtendFim:       cfg.AtendFim,
		PlanMonthlyFee: cfg.PlanMonthlyFee,
		PlanSetupFee:   cfg.PlanSetupFee,
	}

	sessions := conversation.NewMemoryStore()
	interp := conversation.NewInterpreter(menus, cfg.BillingConfigured())
	executor := services.NewExecutor(gateway, billing, media, relay, store, sessions, menus)
	engine := services.NewEngine(sessions, interp, executor)
	templates := services.NewTemplateService(gateway)

	// Handlers
	webhookHandler := handlers.NewWebhookHandler(engine, cfg.VerifyToken)
	billingHandler := handlers.NewBillingHandler(billing, templates, store)
	healthHandler := handlers.NewHealthHandler(sessions, true, cfg.BillingConfigured(), storageType(cfg))

	// Scheduled reminders
	reminderJob := jobs.NewReminderJob(store, billing, templates)
	reminderJob.Start()

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Atendimento Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	routes.SetupRoutes(app, webhookHandler, billingHandler, healthHandler, cfg.BillingWebhookToken)

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		log.Println("⏹️  Stopping reminder jobs...")
		reminderJob.Stop()
		log.Println("⏹️  Shutting down server...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 Atendimento Backend starting on port %s", cfg.Port)
	log.Printf("📊 Storage: %s", storageType(cfg))
	log.Printf("📱 Gateway: %s", cfg.Gateway)
	log.Printf("💰 Billing: %s", enabledLabel(cfg.BillingConfigured()))
	log.Printf("📧 Proof relay: %s", proofRelayStatus(cfg))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + cfg.Port))
}

func storageType(cfg *config.Config) string {
	if cfg.UseMemoryStore {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func enabledLabel(on bool) string {
	if on {
		return "Enabled"
	}
	return "Disabled"
}

func proofRelayStatus(cfg *config.Config) string {
	switch {
	case cfg.MailConfigured() && cfg.ProofWebhookURL != "":
		return "E-mail + webhook fallback"
	case cfg.MailConfigured():
		return "E-mail"
	case cfg.ProofWebhookURL != "":
		return "Webhook"
	default:
		return "Not configured"
	}
}
