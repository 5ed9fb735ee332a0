package ecofin

import (
	"encoding/json"
	"fmt"
	"strings"

	"iss-backend/internal/audit"
	"iss-backend/internal/auth"
	"iss-backend/internal/database"
	"iss-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// RowPreview - un rând din răspunsul de preview, cu rezultatul
// identificării și profitul calculat provizoriu.
type RowPreview struct {
	ID        uint   `json:"id"`
	RowNumber int    `json:"row_number"`
	NrCIM     string `json:"nr_cim"`
	Nume      string `json:"nume"`
	Prenume   string `json:"prenume"`

	OreLucrate  decimal.Decimal `json:"ore_lucrate"`
	SalariuBrut decimal.Decimal `json:"salariu_brut"`
	CAM         decimal.Decimal `json:"cam"`

	Status   models.RowStatus `json:"status"`
	Errors   []string         `json:"errors,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`

	WorkerID   *uint  `json:"worker_id,omitempty"`
	WorkerNume string `json:"worker_nume,omitempty"`
	ClientID   *uint  `json:"client_id,omitempty"`
	ClientNume string `json:"client_nume,omitempty"`

	TarifOrar     decimal.Decimal `json:"tarif_orar"`
	CotaIndirecte decimal.Decimal `json:"cota_indirecte"`

	CostSalariatTotal decimal.Decimal `json:"cost_salariat_total"`
	VenitGenerat      decimal.Decimal `json:"venit_generat"`
	Profitabilitate   decimal.Decimal `json:"profitabilitate"`
}

type ImportPreviewResponse struct {
	Batch    models.ImportBatch     `json:"batch"`
	Settings models.MonthlySettings `json:"settings"`
	Rows     []RowPreview           `json:"rows"`
}

// POST /api/eco-fin/import/upload
// Parsează fișierul Excel, identifică lucrătorii și întoarce un preview.
// Nimic nu devine înregistrare de profitabilitate până la accept.
func UploadImportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year := parseFormInt(c, "year")
		month := parseFormInt(c, "month")
		if year < 2000 || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "An sau lună invalidă")
		}

		settings, err := loadSettings(year, month)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Definiți întâi setările lunii %02d/%d", month, year))
		}
		if settings.IsLocked {
			return periodLockedError(year, month)
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Fișierul Excel lipsește")
		}
		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Fișierul nu a putut fi deschis")
		}
		defer file.Close()

		parsed, err := ParseWorkbook(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		batch := models.ImportBatch{
			Year:         year,
			Month:        month,
			Filename:     fileHeader.Filename,
			TotalRows:    len(parsed),
			Status:       models.BatchStatusPreview,
			ImportedByID: &userID,
		}
		if err := database.DB.Create(&batch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Batch-ul de import nu a putut fi creat")
		}

		// întâi identificăm toate rândurile, ca să știm peste câți
		// lucrători se împart cheltuielile indirecte
		matches := make([]MatchResult, len(parsed))
		matchedCount := 0
		for i := range parsed {
			if parsed[i].Valid() {
				matches[i] = MatchRow(database.DB, &parsed[i])
				if matches[i].Matched() {
					matchedCount++
				}
			}
		}

		shares := AllocateIndirect(settings.CheltuieliIndirecte, matchedCount)

		previews := make([]RowPreview, 0, len(parsed))
		errorDetails := make([]string, 0)
		shareIdx := 0
		errorRows := 0

		for i := range parsed {
			row := &parsed[i]
			match := &matches[i]

			imported := models.ImportedRow{
				BatchID:     batch.ID,
				RowNumber:   row.RowNumber,
				NrCIM:       row.NrCIM,
				Nume:        row.Nume,
				Prenume:     row.Prenume,
				OreLucrate:  row.OreLucrate,
				SalariuBrut: row.SalariuBrut,
				CAM:         row.CAM,
				Net:         row.Net,
				Retineri:    row.Retineri,
				RestPlata:   row.RestPlata,
				Year:        year,
				Month:       month,
				Status:      models.RowStatusRaw,
			}

			preview := RowPreview{
				RowNumber:   row.RowNumber,
				NrCIM:       row.NrCIM,
				Nume:        row.Nume,
				Prenume:     row.Prenume,
				OreLucrate:  row.OreLucrate,
				SalariuBrut: row.SalariuBrut,
				CAM:         row.CAM,
				Errors:      append([]string{}, row.Errors...),
				Warnings:    match.Warnings,
			}

			if row.Valid() && match.Matched() {
				imported.Status = models.RowStatusMatched
				imported.WorkerID = &match.Worker.ID
				preview.WorkerID = &match.Worker.ID
				preview.WorkerNume = match.Worker.Nume + " " + match.Worker.Prenume

				input := CalcInput{
					OreLucrate:    row.OreLucrate,
					SalariuBrut:   row.SalariuBrut,
					CAM:           row.CAM,
					CotaIndirecte: shares[shareIdx],
					CostConcediu:  settings.CostConcediu,
				}
				preview.CotaIndirecte = shares[shareIdx]
				shareIdx++

				if match.Client != nil {
					imported.ClientID = &match.Client.ID
					preview.ClientID = &match.Client.ID
					preview.ClientNume = match.Client.Denumire
					input.TarifOrar = match.Client.TarifOrar
					input.CostCazare = match.Client.CazareCost
					input.CostMasa = match.Client.MasaCost
					input.CostTransport = match.Client.TransportCost
					preview.TarifOrar = match.Client.TarifOrar
				}

				result := Compute(input)
				preview.CostSalariatTotal = result.CostSalariatTotal
				preview.VenitGenerat = result.VenitGenerat
				preview.Profitabilitate = result.Profitabilitate
			} else {
				imported.Status = models.RowStatusError
				preview.Errors = append(preview.Errors, match.Errors...)
				imported.ErrorMessage = strings.Join(preview.Errors, "; ")
				errorDetails = append(errorDetails,
					fmt.Sprintf("Rând %d: %s", row.RowNumber, imported.ErrorMessage))
				errorRows++
			}

			if err := database.DB.Create(&imported).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Rândurile importate nu au putut fi salvate")
			}
			preview.ID = imported.ID
			preview.Status = imported.Status
			previews = append(previews, preview)
		}

		batch.MatchedRows = matchedCount
		batch.ErrorRows = errorRows
		if len(errorDetails) > 0 {
			if b, err := json.Marshal(errorDetails); err == nil {
				batch.ErrorDetails = string(b)
			}
		}
		if err := database.DB.Save(&batch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Batch-ul de import nu a putut fi actualizat")
		}

		return c.JSON(ImportPreviewResponse{
			Batch:    batch,
			Settings: *settings,
			Rows:     previews,
		})
	}
}

type AcceptImportRequest struct {
	BatchID uint   `json:"batch_id"`
	RowIDs  []uint `json:"row_ids"` // opțional: doar rândurile selectate
}

// POST /api/eco-fin/import/accept
// Transformă rândurile identificate în înregistrări de profitabilitate,
// într-o singură tranzacție. Cota de indirecte se recalculează peste
// numărul de rânduri acceptate, cu restul de rotunjire pe ultimul rând.
func AcceptImportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AcceptImportRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpul cererii este invalid")
		}

		var batch models.ImportBatch
		if err := database.DB.First(&batch, "id = ?", body.BatchID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Batch-ul de import nu a fost găsit")
		}
		if batch.Status != models.BatchStatusPreview {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Batch-ul are statusul '%s' și nu mai poate fi acceptat", batch.Status))
		}

		settings, err := loadSettings(batch.Year, batch.Month)
		if err != nil {
			return err
		}
		if settings.IsLocked {
			return periodLockedError(batch.Year, batch.Month)
		}

		rowQuery := database.DB.
			Where("batch_id = ? AND status = ?", batch.ID, models.RowStatusMatched)
		if len(body.RowIDs) > 0 {
			rowQuery = rowQuery.Where("id IN ?", body.RowIDs)
		}

		var rows []models.ImportedRow
		if err := rowQuery.Order("row_number").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rândurile importate nu au putut fi citite")
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Niciun rând identificat de acceptat")
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		shares := AllocateIndirect(settings.CheltuieliIndirecte, len(rows))

		tx := database.DB.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		// o validare concurentă poate bloca luna între citirea setărilor
		// și începerea tranzacției; verificarea se repetă sub tranzacție
		if err := assertPeriodUnlocked(tx, settings); err != nil {
			tx.Rollback()
			return err
		}

		// înregistrările nevalidate ale lunii se înlocuiesc cu noul import
		if err := tx.Where("year = ? AND month = ? AND is_validated = false", batch.Year, batch.Month).
			Delete(&models.ProfitabilityRecord{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Înregistrările vechi nu au putut fi înlocuite")
		}

		created := 0
		for i := range rows {
			row := &rows[i]

			var worker models.Worker
			if err := tx.Preload("Client").First(&worker, "id = ?", row.WorkerID).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError,
					fmt.Sprintf("Lucrătorul rândului %d nu a putut fi citit", row.RowNumber))
			}

			input := CalcInput{
				OreLucrate:    row.OreLucrate,
				SalariuBrut:   row.SalariuBrut,
				CAM:           row.CAM,
				CotaIndirecte: shares[i],
				CostConcediu:  settings.CostConcediu,
			}

			record := models.ProfitabilityRecord{
				ImportedRowID: &row.ID,
				WorkerID:      worker.ID,
				Year:          batch.Year,
				Month:         batch.Month,
				NrCIM:         row.NrCIM,
				OreLucrate:    row.OreLucrate,
				SalariuBrut:   row.SalariuBrut,
				CAM:           row.CAM,
				Net:           row.Net,
				Retineri:      row.Retineri,
				RestPlata:     row.RestPlata,
				CotaIndirecte: shares[i],
				CostConcediu:  settings.CostConcediu,
				CreatedByID:   &userID,
			}

			// datele clientului se copiază la momentul procesării
			if worker.Client != nil {
				record.ClientID = &worker.Client.ID
				record.TarifOrar = worker.Client.TarifOrar
				record.CostCazare = worker.Client.CazareCost
				record.CostMasa = worker.Client.MasaCost
				record.CostTransport = worker.Client.TransportCost
				input.TarifOrar = worker.Client.TarifOrar
				input.CostCazare = worker.Client.CazareCost
				input.CostMasa = worker.Client.MasaCost
				input.CostTransport = worker.Client.TransportCost
			}

			result := Compute(input)
			record.CostSalarialComplet = result.CostSalarialComplet
			record.CostSalariatTotal = result.CostSalariatTotal
			record.VenitGenerat = result.VenitGenerat
			record.Profitabilitate = result.Profitabilitate

			if err := tx.Create(&record).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError,
					fmt.Sprintf("Înregistrarea rândului %d nu a putut fi creată", row.RowNumber))
			}

			if err := tx.Model(row).Update("status", models.RowStatusProcessed).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Statusul rândului nu a putut fi actualizat")
			}
			created++
		}

		// alte batch-uri rămase în preview pentru aceeași lună devin anulate
		if err := tx.Model(&models.ImportBatch{}).
			Where("year = ? AND month = ? AND status = ? AND id <> ?",
				batch.Year, batch.Month, models.BatchStatusPreview, batch.ID).
			Update("status", models.BatchStatusCancelled).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Batch-urile anterioare nu au putut fi anulate")
		}

		batch.Status = models.BatchStatusAccepted
		batch.ProcessedRows = created
		if err := tx.Save(&batch).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Batch-ul nu a putut fi marcat ca acceptat")
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Importul nu a putut fi finalizat")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    audit.UserName(userID),
			EntityType:  "import_batch",
			EntityID:    batch.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Import acceptat pentru %02d/%d: %d înregistrări", batch.Month, batch.Year, created),
			After:       batch,
		})

		return c.JSON(fiber.Map{
			"batch":           batch,
			"records_created": created,
		})
	}
}

// GET /api/eco-fin/import/batches
func ListImportBatchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Order("created_at DESC").Limit(20)
		if year := c.QueryInt("year"); year > 0 {
			query = query.Where("year = ?", year)
		}
		if month := c.QueryInt("month"); month > 0 {
			query = query.Where("month = ?", month)
		}

		var batches []models.ImportBatch
		if err := query.Find(&batches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Batch-urile nu au putut fi listate")
		}
		return c.JSON(batches)
	}
}

func parseFormInt(c *fiber.Ctx, key string) int {
	var v int
	if _, err := fmt.Sscan(c.FormValue(key), &v); err != nil {
		return 0
	}
	return v
}
