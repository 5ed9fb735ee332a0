package billing

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"iss-backend/internal/audit"
	"iss-backend/internal/auth"
	"iss-backend/internal/config"
	"iss-backend/internal/database"
	"iss-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func defaultVATRate(cfg *config.Config) decimal.Decimal {
	if rate, err := decimal.NewFromString(cfg.SmartBill.VATRate); err == nil && rate.IsPositive() {
		return rate
	}
	return decimal.NewFromInt(21)
}

// periodHours - suma orelor lucrate de lucrătorii clientului în lună.
func periodHours(clientID uint, year, month int) (decimal.Decimal, error) {
	var records []models.ProfitabilityRecord
	err := database.DB.
		Where("client_id = ? AND year = ? AND month = ?", clientID, year, month).
		Find(&records).Error
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.OreLucrate)
	}
	return total, nil
}

// issuedInvoices - facturile deja emise pentru client/lună și suma lor.
func issuedInvoices(clientID uint, year, month int) ([]models.Invoice, decimal.Decimal, error) {
	var invoices []models.Invoice
	err := database.DB.
		Where("client_id = ? AND year = ? AND month = ? AND status = ?",
			clientID, year, month, models.InvoiceStatusIssued).
		Order("issue_date").
		Find(&invoices).Error
	if err != nil {
		return nil, decimal.Zero, err
	}

	billed := decimal.Zero
	for _, inv := range invoices {
		billed = billed.Add(inv.Subtotal)
	}
	return invoices, billed, nil
}

// GET /api/billing/check-config
func CheckConfigHandler(sb *SmartBillClient) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sb == nil {
			return c.JSON(fiber.Map{
				"configured": false,
				"message":    "SmartBill nu este configurat. Definiți SMARTBILL_USERNAME, SMARTBILL_TOKEN și SMARTBILL_COMPANY_CIF.",
			})
		}

		series, err := sb.TestConnection()
		if err != nil {
			return c.JSON(fiber.Map{
				"configured": true,
				"connected":  false,
				"message":    "Conexiune eșuată la SmartBill: " + err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"configured":       true,
			"connected":        true,
			"series_available": series,
			"message":          "Conexiune reușită la SmartBill",
		})
	}
}

type PreviewInvoiceRequest struct {
	ClientID uint `json:"client_id"`
	Year     int  `json:"year"`
	Month    int  `json:"month"`
}

// POST /api/billing/invoices/preview
// Calculează valoarea de facturat și avertismentele, fără a emite nimic.
func PreviewInvoiceHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PreviewInvoiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpul cererii este invalid")
		}
		if body.ClientID == 0 || body.Year < 2000 || body.Month < 1 || body.Month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "client_id, year și month sunt obligatorii")
		}

		var client models.Client
		if err := database.DB.First(&client, "id = ?", body.ClientID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Clientul nu a fost găsit")
		}

		totalHours, err := periodHours(client.ID, body.Year, body.Month)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Orele perioadei nu au putut fi citite")
		}

		vatRate := defaultVATRate(cfg)
		subtotal := totalHours.Mul(client.TarifOrar)
		vatTotal, total := ComputeVAT(subtotal, vatRate)

		existing, alreadyBilled, err := issuedInvoices(client.ID, body.Year, body.Month)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Facturile existente nu au putut fi citite")
		}

		warnings := []string{}
		if len(existing) > 0 {
			if alreadyBilled.GreaterThanOrEqual(subtotal) {
				warnings = append(warnings, fmt.Sprintf(
					"Există deja facturi pentru %s %d cu valoare totală %s RON (≥ %s RON calculat). Doriți să facturați alte servicii?",
					monthName(body.Month), body.Year, alreadyBilled.StringFixed(2), subtotal.StringFixed(2)))
			} else {
				warnings = append(warnings, fmt.Sprintf(
					"Există facturi pentru %s %d cu valoare %s RON. Diferență de facturat: %s RON.",
					monthName(body.Month), body.Year, alreadyBilled.StringFixed(2),
					subtotal.Sub(alreadyBilled).StringFixed(2)))
			}
		}
		if totalHours.IsZero() {
			warnings = append(warnings, "Nu există ore înregistrate pentru această perioadă!")
		}
		if client.TarifOrar.IsZero() {
			warnings = append(warnings, "Tariful orar pentru client este 0!")
		}

		existingList := make([]fiber.Map, 0, len(existing))
		for _, inv := range existing {
			existingList = append(existingList, fiber.Map{
				"id":            inv.ID,
				"series_number": inv.NumberDisplay(),
				"subtotal":      inv.Subtotal,
				"total":         inv.Total,
				"issue_date":    inv.IssueDate,
			})
		}

		return c.JSON(fiber.Map{
			"client_id":             client.ID,
			"client_nume":           client.Denumire,
			"year":                  body.Year,
			"month":                 body.Month,
			"month_name":            monthName(body.Month),
			"total_hours":           totalHours,
			"hourly_rate":           client.TarifOrar,
			"subtotal":              subtotal,
			"vat_rate":              vatRate,
			"vat_total":             vatTotal,
			"total":                 total,
			"existing_invoices":     existingList,
			"already_billed_amount": alreadyBilled,
			"warnings":              warnings,
		})
	}
}

type IssueInvoiceRequest struct {
	ClientID           uint        `json:"client_id"`
	Year               int         `json:"year"`
	Month              int         `json:"month"`
	ConfirmHoursAgreed bool        `json:"confirm_hours_agreed"`
	Mode               InvoiceMode `json:"mode"`
	ExtraLines         []ExtraLine `json:"extra_lines"`
}

// POST /api/billing/invoices/issue
// Emite factura în SmartBill și o persistă local, cu PDF-ul arhivat
// pe disc dacă descărcarea reușește.
func IssueInvoiceHandler(sb *SmartBillClient, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body IssueInvoiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpul cererii este invalid")
		}
		if body.ClientID == 0 || body.Year < 2000 || body.Month < 1 || body.Month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "client_id, year și month sunt obligatorii")
		}
		if !body.ConfirmHoursAgreed {
			return fiber.NewError(fiber.StatusBadRequest,
				"Trebuie să confirmați că numărul de ore este agreat cu clientul")
		}
		if sb == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable,
				"SmartBill nu este configurat. Contactați administratorul.")
		}
		if body.Mode == "" {
			body.Mode = ModeStandard
		}

		var client models.Client
		if err := database.DB.First(&client, "id = ?", body.ClientID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Clientul nu a fost găsit")
		}

		totalHours, err := periodHours(client.ID, body.Year, body.Month)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Orele perioadei nu au putut fi citite")
		}

		_, alreadyBilled, err := issuedInvoices(client.ID, body.Year, body.Month)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Facturile existente nu au putut fi citite")
		}

		vatRate := sb.DefaultVATRate()
		monthSubtotal := totalHours.Mul(client.TarifOrar)

		lines, subtotal, err := BuildInvoiceLines(body.Mode, body.Year, body.Month,
			monthSubtotal, alreadyBilled, vatRate, body.ExtraLines)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		vatTotal, total := ComputeVAT(subtotal, vatRate)

		products := make([]InvoiceProduct, 0, len(lines))
		for _, line := range lines {
			products = append(products, InvoiceProduct{
				Name:        line.Description,
				Quantity:    line.Quantity.InexactFloat64(),
				Price:       line.UnitPrice.InexactFloat64(),
				VatPercent:  line.VatRate.InexactFloat64(),
				MeasureUnit: "buc",
				IsService:   true,
			})
		}

		now := time.Now()
		result, err := sb.IssueInvoice(InvoiceClient{
			Name:       client.Denumire,
			VatCode:    client.CodFiscal,
			Address:    client.Adresa,
			City:       client.Oras,
			County:     client.Judet,
			Country:    client.Tara,
			Email:      client.Email,
			IsTaxPayer: true,
		}, products, now, "RON", 30)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "Eroare SmartBill: "+err.Error())
		}

		userID, _ := auth.CurrentUserID(c)

		hoursBilled := decimal.Zero
		if body.Mode == ModeStandard {
			hoursBilled = totalHours
		}

		invoice := models.Invoice{
			ClientID:        client.ID,
			Year:            body.Year,
			Month:           body.Month,
			SmartbillSeries: result.Series,
			SmartbillNumber: result.Number,
			IssueDate:       &now,
			Subtotal:        subtotal,
			VatTotal:        vatTotal,
			Total:           total,
			Currency:        "RON",
			HoursBilled:     hoursBilled,
			HourlyRate:      client.TarifOrar,
			Status:          models.InvoiceStatusIssued,
			PaymentStatus:   models.PaymentStatusUnpaid,
			DueAmount:       total,
			CreatedByID:     &userID,
		}

		tx := database.DB.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		if err := tx.Create(&invoice).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Factura nu a putut fi salvată")
		}
		for i := range lines {
			lines[i].InvoiceID = invoice.ID
			if err := tx.Create(&lines[i]).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Liniile facturii nu au putut fi salvate")
			}
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Factura nu a putut fi finalizată")
		}

		// PDF-ul e best effort: factura există în SmartBill chiar dacă
		// descărcarea eșuează acum
		if pdf, err := sb.GetInvoicePDF(result.Series, result.Number); err == nil {
			dir := filepath.Join(cfg.InvoicePDFPath,
				fmt.Sprintf("%d", client.ID), fmt.Sprintf("%d", body.Year))
			if err := os.MkdirAll(dir, 0o755); err == nil {
				path := filepath.Join(dir, invoice.NumberDisplay()+".pdf")
				if err := os.WriteFile(path, pdf, 0o644); err == nil {
					invoice.PDFPath = path
					_ = database.DB.Model(&invoice).Update("pdf_path", path).Error
				}
			}
		}

		invoice.Lines = lines
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    audit.UserName(userID),
			EntityType:  "invoice",
			EntityID:    invoice.ID,
			Action:      models.AuditActionIssue,
			Description: fmt.Sprintf("Factura %s emisă pentru %s (%02d/%d)", invoice.NumberDisplay(), client.Denumire, body.Month, body.Year),
			After:       invoice,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": fmt.Sprintf("Factura %s a fost emisă cu succes", invoice.NumberDisplay()),
			"invoice": invoice,
		})
	}
}

// GET /api/billing/invoices
func ListInvoicesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Preload("Client").Order("issue_date DESC, id DESC")

		if year := c.QueryInt("year"); year > 0 {
			query = query.Where("year = ?", year)
		}
		if month := c.QueryInt("month"); month > 0 {
			query = query.Where("month = ?", month)
		}
		if clientID := c.QueryInt("client_id"); clientID > 0 {
			query = query.Where("client_id = ?", clientID)
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if ps := c.Query("payment_status"); ps != "" {
			query = query.Where("payment_status = ?", ps)
		}
		if lastMonths := c.QueryInt("last_months"); lastMonths > 0 {
			since := time.Now().AddDate(0, -lastMonths, 0)
			query = query.Where("issue_date >= ?", since)
		}

		var invoices []models.Invoice
		if err := query.Find(&invoices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Facturile nu au putut fi listate")
		}
		return c.JSON(invoices)
	}
}

// GET /api/billing/invoices/:id
func GetInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := c.ParamsInt("id")

		var invoice models.Invoice
		err := database.DB.Preload("Client").Preload("Lines").First(&invoice, "id = ?", id).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Factura nu a fost găsită")
		}
		return c.JSON(invoice)
	}
}

// GET /api/billing/invoices/:id/pdf
// Servește PDF-ul arhivat; dacă lipsește de pe disc, îl recuperează
// din SmartBill.
func DownloadInvoicePDFHandler(sb *SmartBillClient) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := c.ParamsInt("id")

		var invoice models.Invoice
		if err := database.DB.First(&invoice, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Factura nu a fost găsită")
		}

		pdf, err := invoicePDFBytes(sb, &invoice)
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="%s.pdf"`, invoice.NumberDisplay()))
		return c.Send(pdf)
	}
}

func invoicePDFBytes(sb *SmartBillClient, invoice *models.Invoice) ([]byte, error) {
	if invoice.PDFPath != "" {
		if pdf, err := os.ReadFile(invoice.PDFPath); err == nil {
			return pdf, nil
		}
	}

	if sb == nil || invoice.SmartbillNumber == "" {
		return nil, fiber.NewError(fiber.StatusNotFound, "PDF-ul facturii nu este disponibil")
	}
	pdf, err := sb.GetInvoicePDF(invoice.SmartbillSeries, invoice.SmartbillNumber)
	if err != nil {
		var sbErr *SmartBillError
		if errors.As(err, &sbErr) && sbErr.StatusCode > 0 {
			return nil, fiber.NewError(fiber.StatusBadGateway, "PDF-ul nu a putut fi descărcat din SmartBill")
		}
		return nil, fiber.NewError(fiber.StatusBadGateway, "Eroare de rețea la descărcarea PDF-ului")
	}
	return pdf, nil
}
