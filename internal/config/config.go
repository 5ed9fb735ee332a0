package config

import (
	"log"
	"os"
	"strconv"
)

type SmartBillConfig struct {
	Username   string
	Token      string
	CompanyCIF string
	Series     string
	VATRate    string // cota TVA implicită, procent (ex: "21")
}

// Configured - facturarea este dezactivată complet fără credențiale.
func (s SmartBillConfig) Configured() bool {
	return s.Username != "" && s.Token != "" && s.CompanyCIF != ""
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// Folderul în care se arhivează PDF-urile facturilor emise
	InvoicePDFPath string

	SmartBill SmartBillConfig
	SMTP      SMTPConfig
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=iss port=5432 sslmode=disable"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		CORSOrigins:    getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		InvoicePDFPath: getEnv("INVOICE_PDF_PATH", "./invoice-pdfs"),
		SmartBill: SmartBillConfig{
			Username:   getEnv("SMARTBILL_USERNAME", ""),
			Token:      getEnv("SMARTBILL_TOKEN", ""),
			CompanyCIF: getEnv("SMARTBILL_COMPANY_CIF", ""),
			Series:     getEnv("SMARTBILL_SERIES", ""),
			VATRate:    getEnv("SMARTBILL_VAT_RATE_DEFAULT", "21"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
	}

	// Verificări de siguranță pentru producție
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] Variabila JWT_SECRET nu este definită! Obligatorie pentru producție.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET trebuie să aibă minim 32 de caractere!")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=iss port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN folosește valoarea implicită, definește conexiunea proprie pentru producție.")
	}
	if !cfg.SmartBill.Configured() {
		log.Println("[WARN] SmartBill neconfigurat (SMARTBILL_USERNAME/TOKEN/COMPANY_CIF). Facturarea va fi dezactivată.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[WARN] %s are o valoare numerică invalidă, se folosește %d", key, def)
	}
	return def
}
