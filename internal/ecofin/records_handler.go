package ecofin

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"iss-backend/internal/audit"
	"iss-backend/internal/auth"
	"iss-backend/internal/database"
	"iss-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// parseBoolQuery acceptă valorile uzuale de query ("true", "TRUE", "1", "false"...)
// indiferent de majuscule; a doua valoare spune dacă filtrul se aplică.
func parseBoolQuery(v string) (bool, bool) {
	if v == "" {
		return false, false
	}
	parsed, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return false, false
	}
	return parsed, true
}

// GET /api/eco-fin/records
func ListRecordsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Preload("Worker").Preload("Client").
			Order("year DESC, month DESC, id")

		if year := c.QueryInt("year"); year > 0 {
			query = query.Where("year = ?", year)
		}
		if month := c.QueryInt("month"); month > 0 {
			query = query.Where("month = ?", month)
		}
		if clientID := c.QueryInt("client_id"); clientID > 0 {
			query = query.Where("client_id = ?", clientID)
		}
		if workerID := c.QueryInt("worker_id"); workerID > 0 {
			query = query.Where("worker_id = ?", workerID)
		}
		if validated, ok := parseBoolQuery(c.Query("is_validated")); ok {
			query = query.Where("is_validated = ?", validated)
		}

		var records []models.ProfitabilityRecord
		if err := query.Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Înregistrările nu au putut fi listate")
		}
		return c.JSON(records)
	}
}

type UpdateRecordRequest struct {
	OreLucrate  *decimal.Decimal `json:"ore_lucrate"`
	SalariuBrut *decimal.Decimal `json:"salariu_brut"`
	CAM         *decimal.Decimal `json:"cam"`
	TarifOrar   *decimal.Decimal `json:"tarif_orar"`
	Notes       *string          `json:"notes"`
}

// PUT /api/eco-fin/records/:id
// Corecții manuale înainte de validare; valorile derivate se recalculează.
func UpdateRecordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := c.ParamsInt("id")

		var record models.ProfitabilityRecord
		if err := database.DB.First(&record, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Înregistrarea nu a fost găsită")
		}
		if record.IsValidated {
			return periodLockedError(record.Year, record.Month)
		}

		var body UpdateRecordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpul cererii este invalid")
		}

		before := record

		if body.OreLucrate != nil {
			if body.OreLucrate.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "Orele lucrate nu pot fi negative")
			}
			record.OreLucrate = *body.OreLucrate
		}
		if body.SalariuBrut != nil {
			if body.SalariuBrut.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "Salariul brut nu poate fi negativ")
			}
			record.SalariuBrut = *body.SalariuBrut
		}
		if body.CAM != nil {
			if body.CAM.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "CAM nu poate fi negativ")
			}
			record.CAM = *body.CAM
		}
		if body.TarifOrar != nil {
			if body.TarifOrar.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "Tariful orar nu poate fi negativ")
			}
			record.TarifOrar = *body.TarifOrar
		}
		if body.Notes != nil {
			record.Notes = *body.Notes
		}

		result := Compute(CalcInput{
			OreLucrate:    record.OreLucrate,
			SalariuBrut:   record.SalariuBrut,
			CAM:           record.CAM,
			TarifOrar:     record.TarifOrar,
			CostCazare:    record.CostCazare,
			CostMasa:      record.CostMasa,
			CostTransport: record.CostTransport,
			CotaIndirecte: record.CotaIndirecte,
			CostConcediu:  record.CostConcediu,
		})
		record.CostSalarialComplet = result.CostSalarialComplet
		record.CostSalariatTotal = result.CostSalariatTotal
		record.VenitGenerat = result.VenitGenerat
		record.Profitabilitate = result.Profitabilitate

		if err := database.DB.Save(&record).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Înregistrarea nu a putut fi actualizată")
		}

		userID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    audit.UserName(userID),
			EntityType:  "profitability_record",
			EntityID:    record.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Înregistrare corectată manual (CIM %s, %02d/%d)", record.NrCIM, record.Month, record.Year),
			Before:      before,
			After:       record,
		})

		return c.JSON(record)
	}
}

// DELETE /api/eco-fin/records/:id
func DeleteRecordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := c.ParamsInt("id")

		var record models.ProfitabilityRecord
		if err := database.DB.First(&record, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Înregistrarea nu a fost găsită")
		}
		if record.IsValidated {
			return periodLockedError(record.Year, record.Month)
		}

		if err := database.DB.Delete(&record).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Înregistrarea nu a putut fi ștearsă")
		}

		userID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    audit.UserName(userID),
			EntityType:  "profitability_record",
			EntityID:    record.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Înregistrare ștearsă (CIM %s, %02d/%d)", record.NrCIM, record.Month, record.Year),
			Before:      record,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

type PeriodRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// POST /api/eco-fin/records/validate
// Închide luna: setările devin imutabile, înregistrările read-only.
// Blocarea se face prin update condiționat, pentru ca două cereri
// concurente să nu valideze amândouă.
func ValidatePeriodHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PeriodRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpul cererii este invalid")
		}
		if body.Year < 2000 || body.Month < 1 || body.Month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "An sau lună invalidă")
		}

		settings, err := loadSettings(body.Year, body.Month)
		if err != nil {
			return err
		}
		if settings.IsLocked {
			return periodLockedError(body.Year, body.Month)
		}

		var count int64
		database.DB.Model(&models.ProfitabilityRecord{}).
			Where("year = ? AND month = ?", body.Year, body.Month).
			Count(&count)
		if count == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Nu există înregistrări de validat pentru această lună")
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		now := time.Now()

		tx := database.DB.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		res := tx.Model(&models.MonthlySettings{}).
			Where("id = ? AND is_locked = false", settings.ID).
			Update("is_locked", true)
		if res.Error != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Luna nu a putut fi blocată")
		}
		if res.RowsAffected == 0 {
			// altă cerere a validat între timp
			tx.Rollback()
			return periodLockedError(body.Year, body.Month)
		}

		if err := tx.Model(&models.ProfitabilityRecord{}).
			Where("year = ? AND month = ? AND is_validated = false", body.Year, body.Month).
			Updates(map[string]interface{}{
				"is_validated":    true,
				"validated_at":    now,
				"validated_by_id": userID,
			}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Înregistrările nu au putut fi validate")
		}

		if err := tx.Model(&models.ImportBatch{}).
			Where("year = ? AND month = ? AND status = ?", body.Year, body.Month, models.BatchStatusAccepted).
			Updates(map[string]interface{}{
				"validated_by_id": userID,
				"validated_at":    now,
			}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Batch-ul nu a putut fi actualizat")
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Validarea nu a putut fi finalizată")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    audit.UserName(userID),
			EntityType:  "monthly_settings",
			EntityID:    settings.ID,
			Action:      models.AuditActionValidate,
			Description: fmt.Sprintf("Luna %02d/%d validată: %d înregistrări", body.Month, body.Year, count),
		})

		return c.JSON(fiber.Map{
			"year":              body.Year,
			"month":             body.Month,
			"validated_records": count,
			"validated_at":      now.Format("2006-01-02 15:04:05"),
		})
	}
}

// POST /api/eco-fin/records/reopen
// Redeschide o lună validată. Doar Admin (prin middleware-ul de rută).
func ReopenPeriodHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PeriodRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpul cererii este invalid")
		}
		if body.Year < 2000 || body.Month < 1 || body.Month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "An sau lună invalidă")
		}

		settings, err := loadSettings(body.Year, body.Month)
		if err != nil {
			return err
		}
		if !settings.IsLocked {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Luna %02d/%d nu este validată", body.Month, body.Year))
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		tx := database.DB.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		if err := tx.Model(&models.MonthlySettings{}).
			Where("id = ?", settings.ID).
			Update("is_locked", false).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Luna nu a putut fi deblocată")
		}

		if err := tx.Model(&models.ProfitabilityRecord{}).
			Where("year = ? AND month = ?", body.Year, body.Month).
			Updates(map[string]interface{}{
				"is_validated":    false,
				"validated_at":    nil,
				"validated_by_id": nil,
			}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Înregistrările nu au putut fi deblocate")
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Redeschiderea nu a putut fi finalizată")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    audit.UserName(userID),
			EntityType:  "monthly_settings",
			EntityID:    settings.ID,
			Action:      models.AuditActionReopen,
			Description: fmt.Sprintf("Luna %02d/%d redeschisă pentru corecții", body.Month, body.Year),
		})

		return c.JSON(fiber.Map{
			"year":   body.Year,
			"month":  body.Month,
			"status": "redeschisă",
		})
	}
}
