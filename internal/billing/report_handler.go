package billing

import (
	"bytes"
	"fmt"
	"time"

	"iss-backend/internal/database"
	"iss-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func invoiceReportQuery(c *fiber.Ctx) *gorm.DB {
	query := database.DB.Preload("Client").
		Where("status = ?", models.InvoiceStatusIssued)

	if year := c.QueryInt("year"); year > 0 {
		query = query.Where("year = ?", year)
	}
	if month := c.QueryInt("month"); month > 0 {
		query = query.Where("month = ?", month)
	}
	if clientID := c.QueryInt("client_id"); clientID > 0 {
		query = query.Where("client_id = ?", clientID)
	}
	if ps := c.Query("payment_status"); ps != "" && ps != "all" {
		query = query.Where("payment_status = ?", ps)
	}
	if lastMonths := c.QueryInt("last_months"); lastMonths > 0 {
		since := time.Now().AddDate(0, -lastMonths, 0)
		query = query.Where("issue_date >= ?", since)
	}
	return query
}

type ClientBillingSummary struct {
	ClientID     uint            `json:"client_id"`
	ClientNume   string          `json:"client_nume"`
	InvoiceCount int             `json:"invoice_count"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Total        decimal.Decimal `json:"total"`
	Paid         decimal.Decimal `json:"paid"`
	Due          decimal.Decimal `json:"due"`
}

// GET /api/billing/reports/summary
func BillingSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var invoices []models.Invoice
		if err := invoiceReportQuery(c).Find(&invoices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Facturile nu au putut fi citite")
		}

		var subtotal, vat, total, paid, due decimal.Decimal
		statusBreakdown := map[models.PaymentStatus]int{
			models.PaymentStatusPaid:    0,
			models.PaymentStatusPartial: 0,
			models.PaymentStatusUnpaid:  0,
		}

		perClient := make(map[uint]*ClientBillingSummary)
		order := make([]*ClientBillingSummary, 0)

		for i := range invoices {
			inv := &invoices[i]
			subtotal = subtotal.Add(inv.Subtotal)
			vat = vat.Add(inv.VatTotal)
			total = total.Add(inv.Total)
			paid = paid.Add(inv.PaidAmount)
			due = due.Add(inv.DueAmount)
			statusBreakdown[inv.PaymentStatus]++

			entry := perClient[inv.ClientID]
			if entry == nil {
				entry = &ClientBillingSummary{ClientID: inv.ClientID}
				if inv.Client != nil {
					entry.ClientNume = inv.Client.Denumire
				}
				perClient[inv.ClientID] = entry
				order = append(order, entry)
			}
			entry.InvoiceCount++
			entry.Subtotal = entry.Subtotal.Add(inv.Subtotal)
			entry.Total = entry.Total.Add(inv.Total)
			entry.Paid = entry.Paid.Add(inv.PaidAmount)
			entry.Due = entry.Due.Add(inv.DueAmount)
		}

		byClient := make([]ClientBillingSummary, 0, len(order))
		for _, entry := range order {
			byClient = append(byClient, *entry)
		}

		return c.JSON(fiber.Map{
			"invoice_count": len(invoices),
			"totals": fiber.Map{
				"subtotal": subtotal,
				"vat":      vat,
				"total":    total,
				"paid":     paid,
				"due":      due,
			},
			"status_breakdown": statusBreakdown,
			"by_client":        byClient,
		})
	}
}

var invoiceExportHeaders = []string{
	"Nr.", "Client", "Serie/Număr", "Data emiterii", "Luna", "An",
	"Valoare fără TVA", "TVA", "Total", "Încasat", "Sold", "Status",
}

var paymentStatusLabels = map[models.PaymentStatus]string{
	models.PaymentStatusPaid:    "Încasată",
	models.PaymentStatusPartial: "Parțial",
	models.PaymentStatusUnpaid:  "Neîncasată",
}

// GET /api/billing/reports/export
func BillingExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var invoices []models.Invoice
		err := invoiceReportQuery(c).
			Order("year DESC, month DESC, issue_date DESC").
			Find(&invoices).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Facturile nu au putut fi citite")
		}

		f := excelize.NewFile()
		sheet := "Raport Facturare"
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fișierul Excel nu a putut fi generat")
		}

		style, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1E40AF"}},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fișierul Excel nu a putut fi generat")
		}
		for col, header := range invoiceExportHeaders {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			_ = f.SetCellValue(sheet, cell, header)
			_ = f.SetCellStyle(sheet, cell, cell, style)
		}

		for i, inv := range invoices {
			clientNume := ""
			if inv.Client != nil {
				clientNume = inv.Client.Denumire
			}
			issueDate := "-"
			if inv.IssueDate != nil {
				issueDate = inv.IssueDate.Format("02.01.2006")
			}
			statusText := paymentStatusLabels[inv.PaymentStatus]
			if statusText == "" {
				statusText = string(inv.PaymentStatus)
			}

			values := []interface{}{
				i + 1, clientNume, inv.NumberDisplay(), issueDate,
				inv.Month, inv.Year,
				inv.Subtotal.InexactFloat64(),
				inv.VatTotal.InexactFloat64(),
				inv.Total.InexactFloat64(),
				inv.PaidAmount.InexactFloat64(),
				inv.DueAmount.InexactFloat64(),
				statusText,
			}
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Fișierul Excel nu a putut fi scris")
			}
		}

		for col := range invoiceExportHeaders {
			name, _ := excelize.ColumnNumberToName(col + 1)
			_ = f.SetColWidth(sheet, name, name, 16)
		}

		var buf bytes.Buffer
		if err := f.Write(&buf); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fișierul Excel nu a putut fi scris")
		}

		filename := fmt.Sprintf("raport_facturare_%s.xlsx", time.Now().Format("20060102"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(buf.Bytes())
	}
}
