package database

import (
	"log"

	"iss-backend/internal/config"
	"iss-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Nu s-a putut realiza conexiunea la baza de date: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Worker{},
		// Eco-Fin
		&models.MonthlySettings{},
		&models.ImportBatch{},
		&models.ImportedRow{},
		&models.ProfitabilityRecord{},
		// Facturare
		&models.Invoice{},
		&models.InvoiceLine{},
		&models.SyncLog{},
		&models.EmailLog{},
		// Audit
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("Eroare la AutoMigrate: %v", err)
	}

	log.Println("Conexiune la baza de date reușită. Migrare completă.")
}
