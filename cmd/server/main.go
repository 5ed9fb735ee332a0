package main

import (
	"log"
	"strings"

	"iss-backend/internal/audit"
	"iss-backend/internal/auth"
	"iss-backend/internal/billing"
	"iss-backend/internal/client"
	"iss-backend/internal/config"
	"iss-backend/internal/database"
	"iss-backend/internal/ecofin"
	"iss-backend/internal/worker"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	smartbill := billing.NewSmartBillClient(cfg.SmartBill)
	emails := billing.NewEmailService(cfg.SMTP)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Eroare neașteptată:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Eroare internă neașteptată",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Utilizatori (doar Admin)
	users := protected.Group("/users", auth.RequirePermission(auth.PermUsersManage))
	users.Post("/", auth.CreateUserHandler())
	users.Get("/", auth.ListUsersHandler())

	// Lucrători
	workers := protected.Group("/workers")
	workers.Get("/", auth.RequirePermission(auth.PermWorkersRead), worker.ListWorkersHandler())
	workers.Get("/:id", auth.RequirePermission(auth.PermWorkersRead), worker.GetWorkerHandler())
	workers.Post("/", auth.RequirePermission(auth.PermWorkersWrite), worker.CreateWorkerHandler())
	workers.Put("/:id", auth.RequirePermission(auth.PermWorkersWrite), worker.UpdateWorkerHandler())
	workers.Delete("/:id", auth.RequirePermission(auth.PermWorkersWrite), worker.DeleteWorkerHandler())

	// Clienți
	clients := protected.Group("/clients")
	clients.Get("/", auth.RequirePermission(auth.PermClientsRead), client.ListClientsHandler())
	clients.Get("/:id", auth.RequirePermission(auth.PermClientsRead), client.GetClientHandler())
	clients.Post("/", auth.RequirePermission(auth.PermClientsWrite), client.CreateClientHandler())
	clients.Put("/:id", auth.RequirePermission(auth.PermClientsWrite), client.UpdateClientHandler())
	clients.Delete("/:id", auth.RequirePermission(auth.PermClientsWrite), client.DeleteClientHandler())

	// Eco-Fin: citirea e condiția de bază, mutațiile cer în plus ecofin.write
	ecoFin := protected.Group("/eco-fin")
	ecoFin.Use(auth.RequirePermission(auth.PermEcoFinRead))

	ecoFin.Get("/settings", ecofin.ListSettingsHandler())
	ecoFin.Get("/settings/current/:year/:month", ecofin.GetCurrentSettingsHandler())
	ecoFin.Get("/import/batches", ecofin.ListImportBatchesHandler())
	ecoFin.Get("/records", ecofin.ListRecordsHandler())
	ecoFin.Get("/reports/summary", ecofin.SummaryReportHandler())
	ecoFin.Get("/reports/export", ecofin.ExportRecordsHandler())

	ecoFinWrite := auth.RequirePermission(auth.PermEcoFinWrite)
	ecoFin.Post("/settings", ecoFinWrite, ecofin.CreateSettingsHandler())
	ecoFin.Put("/settings/:id", ecoFinWrite, ecofin.UpdateSettingsHandler())
	ecoFin.Delete("/settings/:id", ecoFinWrite, ecofin.DeleteSettingsHandler())
	ecoFin.Post("/import/upload", ecoFinWrite, ecofin.UploadImportHandler())
	ecoFin.Post("/import/accept", ecoFinWrite, ecofin.AcceptImportHandler())
	ecoFin.Put("/records/:id", ecoFinWrite, ecofin.UpdateRecordHandler())
	ecoFin.Delete("/records/:id", ecoFinWrite, ecofin.DeleteRecordHandler())
	ecoFin.Post("/records/validate", ecoFinWrite, ecofin.ValidatePeriodHandler())

	// redeschiderea unei luni validate este rezervată Adminului
	ecoFin.Post("/records/reopen",
		auth.RequirePermission(auth.PermEcoFinReopen), ecofin.ReopenPeriodHandler())

	// Facturare
	billingRoutes := protected.Group("/billing")
	billingRoutes.Use(auth.RequirePermission(auth.PermBillingRead))

	billingRoutes.Get("/check-config", billing.CheckConfigHandler(smartbill))
	billingRoutes.Get("/invoices", billing.ListInvoicesHandler())
	billingRoutes.Get("/invoices/:id", billing.GetInvoiceHandler())
	billingRoutes.Get("/invoices/:id/pdf", billing.DownloadInvoicePDFHandler(smartbill))
	billingRoutes.Get("/sync-logs", billing.ListSyncLogsHandler())
	billingRoutes.Get("/reports/summary", billing.BillingSummaryHandler())
	billingRoutes.Get("/reports/export", billing.BillingExportHandler())

	billingWrite := auth.RequirePermission(auth.PermBillingWrite)
	billingRoutes.Post("/invoices/preview", billingWrite, billing.PreviewInvoiceHandler(cfg))
	billingRoutes.Post("/invoices/issue", billingWrite, billing.IssueInvoiceHandler(smartbill, cfg))
	billingRoutes.Post("/invoices/:id/send-email", billingWrite, billing.SendInvoiceEmailHandler(smartbill, emails))
	billingRoutes.Post("/sync-payments", billingWrite, billing.SyncPaymentsHandler(smartbill))

	// Audit
	protected.Get("/audit-logs",
		auth.RequirePermission(auth.PermAuditRead), audit.ListAuditLogsHandler())

	log.Printf("Serverul pornește pe portul %s", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal("Serverul nu a putut porni:", err)
	}
}
