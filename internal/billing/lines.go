package billing

import (
	"fmt"

	"iss-backend/internal/models"

	"github.com/shopspring/decimal"
)

type InvoiceMode string

const (
	ModeStandard      InvoiceMode = "standard"
	ModeDifference    InvoiceMode = "difference"
	ModeExtraServices InvoiceMode = "extra_services"
)

var monthNamesRO = map[int]string{
	1: "Ianuarie", 2: "Februarie", 3: "Martie", 4: "Aprilie",
	5: "Mai", 6: "Iunie", 7: "Iulie", 8: "August",
	9: "Septembrie", 10: "Octombrie", 11: "Noiembrie", 12: "Decembrie",
}

func monthName(month int) string {
	if name, ok := monthNamesRO[month]; ok {
		return name
	}
	return fmt.Sprintf("%d", month)
}

// ExtraLine - o linie liberă pentru modul extra_services.
type ExtraLine struct {
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	VatRate     *decimal.Decimal `json:"vat_rate"`
}

// ComputeVAT - TVA și total pentru un subtotal dat.
func ComputeVAT(subtotal, vatRate decimal.Decimal) (vatTotal, total decimal.Decimal) {
	vatTotal = subtotal.Mul(vatRate).Div(decimal.NewFromInt(100)).Round(2)
	total = subtotal.Add(vatTotal)
	return vatTotal, total
}

// BuildInvoiceLines - construiește liniile facturii după mod și întoarce
// subtotalul efectiv de facturat:
//   - standard: o linie cu întreaga valoare a lunii;
//   - difference: o linie doar cu ce depășește facturile deja emise;
//   - extra_services: liniile libere furnizate de utilizator.
func BuildInvoiceLines(mode InvoiceMode, year, month int, subtotal, alreadyBilled, vatRate decimal.Decimal, extras []ExtraLine) ([]models.InvoiceLine, decimal.Decimal, error) {
	label := fmt.Sprintf("PRESTARI SERVICII %s %d", monthName(month), year)
	one := decimal.NewFromInt(1)

	switch mode {
	case ModeStandard:
		vat, _ := ComputeVAT(subtotal, vatRate)
		return []models.InvoiceLine{{
			Description: label,
			Quantity:    one,
			UnitPrice:   subtotal,
			VatRate:     vatRate,
			LineTotal:   subtotal,
			LineVat:     vat,
			LineType:    models.LineTypeStandard,
		}}, subtotal, nil

	case ModeDifference:
		if subtotal.LessThanOrEqual(alreadyBilled) {
			return nil, decimal.Zero, fmt.Errorf(
				"nu există diferență de facturat: valoarea calculată nu depășește facturile existente")
		}
		difference := subtotal.Sub(alreadyBilled)
		vat, _ := ComputeVAT(difference, vatRate)
		return []models.InvoiceLine{{
			Description: label + " – DIFERENȚĂ",
			Quantity:    one,
			UnitPrice:   difference,
			VatRate:     vatRate,
			LineTotal:   difference,
			LineVat:     vat,
			LineType:    models.LineTypeDifference,
		}}, difference, nil

	case ModeExtraServices:
		if len(extras) == 0 {
			return nil, decimal.Zero, fmt.Errorf("modul extra_services cere cel puțin o linie în extra_lines")
		}
		lines := make([]models.InvoiceLine, 0, len(extras))
		sum := decimal.Zero
		for _, extra := range extras {
			qty := extra.Quantity
			if qty.IsZero() {
				qty = one
			}
			rate := vatRate
			if extra.VatRate != nil {
				rate = *extra.VatRate
			}
			description := extra.Description
			if description == "" {
				description = "Serviciu suplimentar"
			}

			lineTotal := qty.Mul(extra.UnitPrice)
			vat, _ := ComputeVAT(lineTotal, rate)
			lines = append(lines, models.InvoiceLine{
				Description: description,
				Quantity:    qty,
				UnitPrice:   extra.UnitPrice,
				VatRate:     rate,
				LineTotal:   lineTotal,
				LineVat:     vat,
				LineType:    models.LineTypeExtra,
			})
			sum = sum.Add(lineTotal)
		}
		return lines, sum, nil
	}

	return nil, decimal.Zero, fmt.Errorf("mod de facturare necunoscut: %s", mode)
}
