package worker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"iss-backend/internal/audit"
	"iss-backend/internal/auth"
	"iss-backend/internal/database"
	"iss-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type WorkerRequest struct {
	Nume      string `json:"nume"`
	Prenume   string `json:"prenume"`
	Cetatenie string `json:"cetatenie"`

	PasaportNr string `json:"pasaport_nr"`
	CNP        string `json:"cnp"`
	CodCOR     string `json:"cod_cor"`

	CIMNr          string     `json:"cim_nr"`
	DataEmitereCIM *time.Time `json:"data_emitere_cim"`

	Status   models.WorkerStatus `json:"status"`
	ClientID *uint               `json:"client_id"`
	ExpertID *uint               `json:"expert_id"`

	Observatii string `json:"observatii"`
}

func (r *WorkerRequest) validate() error {
	if strings.TrimSpace(r.Nume) == "" || strings.TrimSpace(r.Prenume) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Numele și prenumele sunt obligatorii")
	}
	if strings.TrimSpace(r.PasaportNr) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Numărul de pașaport este obligatoriu")
	}
	if r.Status != "" && !r.Status.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Status necunoscut: %s", r.Status))
	}
	return nil
}

// POST /api/workers
func CreateWorkerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body WorkerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpul cererii este invalid")
		}
		if err := body.validate(); err != nil {
			return err
		}

		var existing models.Worker
		err := database.DB.Where("pasaport_nr = ?", body.PasaportNr).First(&existing).Error
		if err == nil {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Există deja un lucrător cu pașaportul %s", body.PasaportNr))
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "Lucrătorul nu a putut fi verificat")
		}

		if body.ClientID != nil {
			var client models.Client
			if err := database.DB.First(&client, "id = ?", *body.ClientID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Clientul indicat nu există")
			}
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		worker := models.Worker{
			Nume:           strings.TrimSpace(body.Nume),
			Prenume:        strings.TrimSpace(body.Prenume),
			Cetatenie:      body.Cetatenie,
			PasaportNr:     strings.TrimSpace(body.PasaportNr),
			CNP:            body.CNP,
			CodCOR:         body.CodCOR,
			CIMNr:          strings.TrimSpace(body.CIMNr),
			DataEmitereCIM: body.DataEmitereCIM,
			ClientID:       body.ClientID,
			ExpertID:       body.ExpertID,
			AgentID:        &userID,
			Observatii:     body.Observatii,
		}
		if body.Status != "" {
			worker.Status = body.Status
		}

		if err := database.DB.Create(&worker).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lucrătorul nu a putut fi creat")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    audit.UserName(userID),
			EntityType:  "worker",
			EntityID:    worker.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Lucrător creat: %s %s (%s)", worker.Nume, worker.Prenume, worker.PasaportNr),
			After:       worker,
		})

		return c.Status(fiber.StatusCreated).JSON(worker)
	}
}

// GET /api/workers
func ListWorkersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Preload("Client").Order("nume, prenume")

		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if clientID := c.QueryInt("client_id"); clientID > 0 {
			query = query.Where("client_id = ?", clientID)
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			query = query.Where(
				"LOWER(nume) LIKE ? OR LOWER(prenume) LIKE ? OR LOWER(pasaport_nr) LIKE ? OR LOWER(cim_nr) LIKE ?",
				like, like, like, like)
		}

		var workers []models.Worker
		if err := query.Find(&workers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lucrătorii nu au putut fi listați")
		}
		return c.JSON(workers)
	}
}

// GET /api/workers/:id
func GetWorkerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := c.ParamsInt("id")

		var worker models.Worker
		if err := database.DB.Preload("Client").First(&worker, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lucrătorul nu a fost găsit")
		}
		return c.JSON(worker)
	}
}

// PUT /api/workers/:id
func UpdateWorkerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := c.ParamsInt("id")

		var worker models.Worker
		if err := database.DB.First(&worker, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lucrătorul nu a fost găsit")
		}

		var body WorkerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpul cererii este invalid")
		}
		if err := body.validate(); err != nil {
			return err
		}

		if body.PasaportNr != worker.PasaportNr {
			var existing models.Worker
			err := database.DB.Where("pasaport_nr = ? AND id <> ?", body.PasaportNr, worker.ID).
				First(&existing).Error
			if err == nil {
				return fiber.NewError(fiber.StatusConflict,
					fmt.Sprintf("Există deja un lucrător cu pașaportul %s", body.PasaportNr))
			}
		}
		if body.ClientID != nil {
			var client models.Client
			if err := database.DB.First(&client, "id = ?", *body.ClientID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Clientul indicat nu există")
			}
		}

		before := worker

		worker.Nume = strings.TrimSpace(body.Nume)
		worker.Prenume = strings.TrimSpace(body.Prenume)
		worker.Cetatenie = body.Cetatenie
		worker.PasaportNr = strings.TrimSpace(body.PasaportNr)
		worker.CNP = body.CNP
		worker.CodCOR = body.CodCOR
		worker.CIMNr = strings.TrimSpace(body.CIMNr)
		worker.DataEmitereCIM = body.DataEmitereCIM
		worker.ClientID = body.ClientID
		worker.ExpertID = body.ExpertID
		worker.Observatii = body.Observatii
		if body.Status != "" {
			worker.Status = body.Status
		}

		if err := database.DB.Save(&worker).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lucrătorul nu a putut fi actualizat")
		}

		userID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    audit.UserName(userID),
			EntityType:  "worker",
			EntityID:    worker.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Lucrător actualizat: %s %s", worker.Nume, worker.Prenume),
			Before:      before,
			After:       worker,
		})

		return c.JSON(worker)
	}
}

// DELETE /api/workers/:id
func DeleteWorkerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := c.ParamsInt("id")

		var worker models.Worker
		if err := database.DB.First(&worker, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lucrătorul nu a fost găsit")
		}

		// lucrătorii cu istoric de profitabilitate nu se șterg
		var count int64
		database.DB.Model(&models.ProfitabilityRecord{}).
			Where("worker_id = ?", worker.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict,
				"Lucrătorul are înregistrări de profitabilitate și nu poate fi șters")
		}

		if err := database.DB.Delete(&worker).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lucrătorul nu a putut fi șters")
		}

		userID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    audit.UserName(userID),
			EntityType:  "worker",
			EntityID:    worker.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Lucrător șters: %s %s (%s)", worker.Nume, worker.Prenume, worker.PasaportNr),
			Before:      worker,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
