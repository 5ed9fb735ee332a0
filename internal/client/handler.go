package client

import (
	"errors"
	"fmt"
	"strings"

	"iss-backend/internal/audit"
	"iss-backend/internal/auth"
	"iss-backend/internal/database"
	"iss-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ClientRequest struct {
	Denumire  string `json:"denumire"`
	Tara      string `json:"tara"`
	Oras      string `json:"oras"`
	Judet     string `json:"judet"`
	Adresa    string `json:"adresa"`
	CodFiscal string `json:"cod_fiscal"`
	Email     string `json:"email"`

	TarifOrar  decimal.Decimal `json:"tarif_orar"`
	NrOreMinim int             `json:"nr_ore_minim"`

	CazareCost    decimal.Decimal `json:"cazare_cost"`
	MasaCost      decimal.Decimal `json:"masa_cost"`
	TransportCost decimal.Decimal `json:"transport_cost"`
}

func (r *ClientRequest) validate() error {
	if strings.TrimSpace(r.Denumire) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Denumirea clientului este obligatorie")
	}
	if r.TarifOrar.IsNegative() || r.CazareCost.IsNegative() ||
		r.MasaCost.IsNegative() || r.TransportCost.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "Tarifele și costurile nu pot fi negative")
	}
	return nil
}

func (r *ClientRequest) apply(client *models.Client) {
	client.Denumire = strings.TrimSpace(r.Denumire)
	client.Tara = r.Tara
	client.Oras = r.Oras
	client.Judet = r.Judet
	client.Adresa = r.Adresa
	client.CodFiscal = r.CodFiscal
	client.Email = r.Email
	client.TarifOrar = r.TarifOrar
	client.NrOreMinim = r.NrOreMinim
	client.CazareCost = r.CazareCost
	client.MasaCost = r.MasaCost
	client.TransportCost = r.TransportCost
}

// POST /api/clients
func CreateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpul cererii este invalid")
		}
		if err := body.validate(); err != nil {
			return err
		}

		var existing models.Client
		err := database.DB.Where("LOWER(denumire) = LOWER(?)", strings.TrimSpace(body.Denumire)).
			First(&existing).Error
		if err == nil {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Există deja un client cu denumirea %s", body.Denumire))
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "Clientul nu a putut fi verificat")
		}

		var client models.Client
		body.apply(&client)
		if err := database.DB.Create(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Clientul nu a putut fi creat")
		}

		userID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    audit.UserName(userID),
			EntityType:  "client",
			EntityID:    client.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Client creat: %s", client.Denumire),
			After:       client,
		})

		return c.Status(fiber.StatusCreated).JSON(client)
	}
}

// GET /api/clients
func ListClientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Order("denumire")
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(denumire) LIKE ? OR LOWER(cod_fiscal) LIKE ?", like, like)
		}

		var clients []models.Client
		if err := query.Find(&clients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Clienții nu au putut fi listați")
		}
		return c.JSON(clients)
	}
}

// GET /api/clients/:id
func GetClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := c.ParamsInt("id")

		var client models.Client
		if err := database.DB.First(&client, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Clientul nu a fost găsit")
		}
		return c.JSON(client)
	}
}

// PUT /api/clients/:id
func UpdateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := c.ParamsInt("id")

		var client models.Client
		if err := database.DB.First(&client, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Clientul nu a fost găsit")
		}

		var body ClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpul cererii este invalid")
		}
		if err := body.validate(); err != nil {
			return err
		}

		before := client
		body.apply(&client)

		if err := database.DB.Save(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Clientul nu a putut fi actualizat")
		}

		userID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    audit.UserName(userID),
			EntityType:  "client",
			EntityID:    client.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Client actualizat: %s", client.Denumire),
			Before:      before,
			After:       client,
		})

		return c.JSON(client)
	}
}

// DELETE /api/clients/:id
func DeleteClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := c.ParamsInt("id")

		var client models.Client
		if err := database.DB.First(&client, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Clientul nu a fost găsit")
		}

		var workers int64
		database.DB.Model(&models.Worker{}).Where("client_id = ?", client.ID).Count(&workers)
		if workers > 0 {
			return fiber.NewError(fiber.StatusConflict,
				"Clientul are lucrători asignați și nu poate fi șters")
		}

		var invoices int64
		database.DB.Model(&models.Invoice{}).Where("client_id = ?", client.ID).Count(&invoices)
		if invoices > 0 {
			return fiber.NewError(fiber.StatusConflict,
				"Clientul are facturi emise și nu poate fi șters")
		}

		if err := database.DB.Delete(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Clientul nu a putut fi șters")
		}

		userID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    audit.UserName(userID),
			EntityType:  "client",
			EntityID:    client.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Client șters: %s", client.Denumire),
			Before:      client,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
