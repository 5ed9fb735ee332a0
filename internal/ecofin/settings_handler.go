package ecofin

import (
	"errors"
	"fmt"
	"time"

	"iss-backend/internal/audit"
	"iss-backend/internal/auth"
	"iss-backend/internal/database"
	"iss-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SettingsRequest struct {
	Year                int             `json:"year"`
	Month               int             `json:"month"`
	CheltuieliIndirecte decimal.Decimal `json:"cheltuieli_indirecte"`
	CostConcediu        decimal.Decimal `json:"cost_concediu"`
}

func (r *SettingsRequest) validate() error {
	if r.Year < 2000 || r.Year > 2100 {
		return fiber.NewError(fiber.StatusBadRequest, "Anul este invalid")
	}
	if r.Month < 1 || r.Month > 12 {
		return fiber.NewError(fiber.StatusBadRequest, "Luna trebuie să fie între 1 și 12")
	}
	if r.CheltuieliIndirecte.IsNegative() || r.CostConcediu.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "Costurile nu pot fi negative")
	}
	return nil
}

// periodLockedError - răspunsul standard pentru mutații pe o lună validată.
func periodLockedError(year, month int) error {
	return fiber.NewError(fiber.StatusConflict,
		fmt.Sprintf("Luna %02d/%d este validată și nu mai poate fi modificată", month, year))
}

// assertPeriodUnlocked - repetă verificarea de blocare în interiorul unei
// tranzacții, printr-un update condiționat pe rândul de setări. Zero rânduri
// afectate înseamnă că o validare concurentă a blocat luna între timp.
func assertPeriodUnlocked(tx *gorm.DB, settings *models.MonthlySettings) error {
	res := tx.Model(&models.MonthlySettings{}).
		Where("id = ? AND is_locked = false", settings.ID).
		Update("updated_at", time.Now())
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Setările lunii nu au putut fi verificate")
	}
	if res.RowsAffected == 0 {
		return periodLockedError(settings.Year, settings.Month)
	}
	return nil
}

// loadSettings - setările lunii; eroare 404 dacă nu există.
func loadSettings(year, month int) (*models.MonthlySettings, error) {
	var settings models.MonthlySettings
	err := database.DB.Where("year = ? AND month = ?", year, month).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound,
			fmt.Sprintf("Nu există setări pentru luna %02d/%d", month, year))
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Setările nu au putut fi citite")
	}
	return &settings, nil
}

// POST /api/eco-fin/settings
func CreateSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SettingsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpul cererii este invalid")
		}
		if err := body.validate(); err != nil {
			return err
		}

		var existing models.MonthlySettings
		err := database.DB.Where("year = ? AND month = ?", body.Year, body.Month).First(&existing).Error
		if err == nil {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Există deja setări pentru luna %02d/%d", body.Month, body.Year))
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "Setările nu au putut fi verificate")
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		settings := models.MonthlySettings{
			Year:                body.Year,
			Month:               body.Month,
			CheltuieliIndirecte: body.CheltuieliIndirecte,
			CostConcediu:        body.CostConcediu,
			CreatedByID:         &userID,
		}
		if err := database.DB.Create(&settings).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Setările nu au putut fi salvate")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    audit.UserName(userID),
			EntityType:  "monthly_settings",
			EntityID:    settings.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Setări create pentru luna %02d/%d", body.Month, body.Year),
			After:       settings,
		})

		return c.Status(fiber.StatusCreated).JSON(settings)
	}
}

// GET /api/eco-fin/settings
func ListSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Order("year DESC, month DESC")
		if year := c.QueryInt("year"); year > 0 {
			query = query.Where("year = ?", year)
		}

		var settings []models.MonthlySettings
		if err := query.Find(&settings).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Setările nu au putut fi listate")
		}
		return c.JSON(settings)
	}
}

// GET /api/eco-fin/settings/current/:year/:month
func GetCurrentSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, _ := c.ParamsInt("year")
		month, _ := c.ParamsInt("month")
		if year < 2000 || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "An sau lună invalidă")
		}

		settings, err := loadSettings(year, month)
		if err != nil {
			return err
		}
		return c.JSON(settings)
	}
}

// PUT /api/eco-fin/settings/:id
func UpdateSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := c.ParamsInt("id")

		var settings models.MonthlySettings
		if err := database.DB.First(&settings, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Setările nu au fost găsite")
		}
		if settings.IsLocked {
			return periodLockedError(settings.Year, settings.Month)
		}

		var body SettingsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpul cererii este invalid")
		}
		if body.CheltuieliIndirecte.IsNegative() || body.CostConcediu.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Costurile nu pot fi negative")
		}

		before := settings
		settings.CheltuieliIndirecte = body.CheltuieliIndirecte
		settings.CostConcediu = body.CostConcediu

		if err := database.DB.Save(&settings).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Setările nu au putut fi actualizate")
		}

		userID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    audit.UserName(userID),
			EntityType:  "monthly_settings",
			EntityID:    settings.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Setări actualizate pentru luna %02d/%d", settings.Month, settings.Year),
			Before:      before,
			After:       settings,
		})

		return c.JSON(settings)
	}
}

// DELETE /api/eco-fin/settings/:id
func DeleteSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := c.ParamsInt("id")

		var settings models.MonthlySettings
		if err := database.DB.First(&settings, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Setările nu au fost găsite")
		}
		if settings.IsLocked {
			return periodLockedError(settings.Year, settings.Month)
		}

		// nu ștergem setări sub care există deja înregistrări
		var count int64
		database.DB.Model(&models.ProfitabilityRecord{}).
			Where("year = ? AND month = ?", settings.Year, settings.Month).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict,
				"Există înregistrări de profitabilitate pentru această lună; ștergeți-le mai întâi")
		}

		if err := database.DB.Delete(&settings).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Setările nu au putut fi șterse")
		}

		userID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    audit.UserName(userID),
			EntityType:  "monthly_settings",
			EntityID:    settings.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Setări șterse pentru luna %02d/%d", settings.Month, settings.Year),
			Before:      settings,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
