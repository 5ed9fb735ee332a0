package billing

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"iss-backend/internal/audit"
	"iss-backend/internal/auth"
	"iss-backend/internal/config"
	"iss-backend/internal/database"
	"iss-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gopkg.in/gomail.v2"
)

// EmailService - trimite facturile pe email prin SMTP.
type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

// NewEmailService - nil dacă SMTP nu este configurat.
func NewEmailService(cfg config.SMTPConfig) *EmailService {
	if cfg.Host == "" || cfg.From == "" {
		return nil
	}
	return &EmailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// SendInvoice - compune și trimite email-ul cu PDF-ul atașat.
func (e *EmailService) SendInvoice(to, subject, body string, pdfName string, pdf []byte) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	m.Attach(pdfName, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(pdf))
		return err
	}))
	return e.dialer.DialAndSend(m)
}

func invoiceEmailBody(invoice *models.Invoice) string {
	return fmt.Sprintf(`Bună ziua,

Vă trimitem atașat factura %s pentru serviciile prestate în luna %s %d.

Detalii factură:
- Valoare fără TVA: %s RON
- TVA: %s RON
- Total: %s RON

Cu respect,
International Staff Sourcing SRL
`,
		invoice.NumberDisplay(), monthName(invoice.Month), invoice.Year,
		invoice.Subtotal.StringFixed(2), invoice.VatTotal.StringFixed(2),
		invoice.Total.StringFixed(2))
}

type SendEmailRequest struct {
	EmailTo string `json:"email_to"`
}

// POST /api/billing/invoices/:id/send-email
// Trimiterea se loghează indiferent de rezultat, cu contor per factură.
func SendInvoiceEmailHandler(sb *SmartBillClient, emails *EmailService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if emails == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable,
				"Serverul SMTP nu este configurat. Contactați administratorul.")
		}

		id, _ := c.ParamsInt("id")
		var invoice models.Invoice
		if err := database.DB.Preload("Client").First(&invoice, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Factura nu a fost găsită")
		}

		var body SendEmailRequest
		_ = c.BodyParser(&body)

		emailTo := body.EmailTo
		if emailTo == "" && invoice.Client != nil {
			emailTo = invoice.Client.Email
		}
		if emailTo == "" {
			return fiber.NewError(fiber.StatusBadRequest,
				"Nu există adresă de email. Specificați email_to sau configurați email-ul clientului.")
		}

		pdf, err := invoicePDFBytes(sb, &invoice)
		if err != nil {
			return err
		}

		clientNume := ""
		if invoice.Client != nil {
			clientNume = invoice.Client.Denumire
		}
		subject := fmt.Sprintf("Factura %s – %s – %s/%d",
			invoice.NumberDisplay(), clientNume, monthName(invoice.Month), invoice.Year)

		userID, _ := auth.CurrentUserID(c)
		entry := models.EmailLog{
			InvoiceID: invoice.ID,
			SentByID:  &userID,
			SentTo:    emailTo,
			Subject:   subject,
		}

		sendErr := emails.SendInvoice(emailTo, subject,
			invoiceEmailBody(&invoice),
			invoice.NumberDisplay()+".pdf", pdf)

		if sendErr != nil {
			entry.Status = "failed"
			entry.ErrorMessage = sendErr.Error()
			_ = database.DB.Create(&entry).Error
			return fiber.NewError(fiber.StatusInternalServerError,
				"Eroare la trimiterea email-ului: "+sendErr.Error())
		}

		entry.Status = "sent"
		if err := database.DB.Create(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Jurnalul de email nu a putut fi salvat")
		}

		now := time.Now()
		invoice.LastEmailSentAt = &now
		invoice.EmailSentTo = emailTo
		invoice.EmailSentCount++
		if err := database.DB.Save(&invoice).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Factura nu a putut fi actualizată")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    audit.UserName(userID),
			EntityType:  "invoice",
			EntityID:    invoice.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Factura %s trimisă pe email la %s", invoice.NumberDisplay(), emailTo),
		})

		return c.JSON(fiber.Map{
			"message": fmt.Sprintf("Email trimis cu succes la %s", emailTo),
		})
	}
}
