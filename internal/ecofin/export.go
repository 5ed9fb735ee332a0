package ecofin

import (
	"bytes"
	"fmt"
	"time"

	"iss-backend/internal/database"
	"iss-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

var recordExportHeaders = []string{
	"Nr.", "Nume", "Prenume", "Nr. CIM", "Client",
	"Ore lucrate", "Salariu brut", "CAM", "Cost salarial complet",
	"Cazare", "Masă", "Transport", "Cotă indirecte", "Cost concediu",
	"Cost total", "Venit generat", "Profitabilitate", "Validat",
}

// headerStyle - antet alb pe albastru, la fel ca rapoartele existente.
func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1E40AF"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
}

func buildRecordsWorkbook(records []models.ProfitabilityRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Profitabilitate"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	style, err := headerStyle(f)
	if err != nil {
		return nil, err
	}
	for col, header := range recordExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return nil, err
		}
	}

	for i, r := range records {
		nume, prenume := "", ""
		if r.Worker != nil {
			nume, prenume = r.Worker.Nume, r.Worker.Prenume
		}
		clientNume := ""
		if r.Client != nil {
			clientNume = r.Client.Denumire
		}
		validat := "Nu"
		if r.IsValidated {
			validat = "Da"
		}

		values := []interface{}{
			i + 1, nume, prenume, r.NrCIM, clientNume,
			r.OreLucrate.InexactFloat64(),
			r.SalariuBrut.InexactFloat64(),
			r.CAM.InexactFloat64(),
			r.CostSalarialComplet.InexactFloat64(),
			r.CostCazare.InexactFloat64(),
			r.CostMasa.InexactFloat64(),
			r.CostTransport.InexactFloat64(),
			r.CotaIndirecte.InexactFloat64(),
			r.CostConcediu.InexactFloat64(),
			r.CostSalariatTotal.InexactFloat64(),
			r.VenitGenerat.InexactFloat64(),
			r.Profitabilitate.InexactFloat64(),
			validat,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	for col := range recordExportHeaders {
		name, _ := excelize.ColumnNumberToName(col + 1)
		_ = f.SetColWidth(sheet, name, name, 16)
	}

	return f, nil
}

// GET /api/eco-fin/reports/export
func ExportRecordsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year := c.QueryInt("year")
		if year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "Parametrul year este obligatoriu")
		}

		query := database.DB.Preload("Worker").Preload("Client").
			Where("year = ?", year).
			Order("month, id")
		if month := c.QueryInt("month"); month > 0 {
			query = query.Where("month = ?", month)
		}
		if clientID := c.QueryInt("client_id"); clientID > 0 {
			query = query.Where("client_id = ?", clientID)
		}

		var records []models.ProfitabilityRecord
		if err := query.Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Înregistrările nu au putut fi citite")
		}

		f, err := buildRecordsWorkbook(records)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fișierul Excel nu a putut fi generat")
		}

		var buf bytes.Buffer
		if err := f.Write(&buf); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fișierul Excel nu a putut fi scris")
		}

		filename := fmt.Sprintf("profitabilitate_%s.xlsx", time.Now().Format("20060102"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(buf.Bytes())
	}
}
