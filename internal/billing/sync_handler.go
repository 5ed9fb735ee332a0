package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"iss-backend/internal/auth"
	"iss-backend/internal/database"
	"iss-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// prima sincronizare acoperă ultimele 90 de zile
const firstSyncWindowDays = 90

// syncWindow - intervalul de sincronizat: de la ultima sincronizare
// reușită, sau fereastra inițială dacă nu există una.
func syncWindow(now time.Time) (time.Time, time.Time) {
	var last models.SyncLog
	err := database.DB.
		Where("status = ? AND finished_at IS NOT NULL", models.SyncStatusSuccess).
		Order("finished_at DESC").
		First(&last).Error
	if err == nil && last.FinishedAt != nil {
		return *last.FinishedAt, now
	}
	return now.AddDate(0, 0, -firstSyncWindowDays), now
}

// POST /api/billing/sync-payments
// Preia încasările din SmartBill și actualizează statusul de plată al
// facturilor locale. Nu creează și nu șterge facturi.
func SyncPaymentsHandler(sb *SmartBillClient) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sb == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "SmartBill nu este configurat")
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		now := time.Now()
		from, to := syncWindow(now)

		syncLog := models.SyncLog{
			RequestedFrom: from,
			RequestedTo:   to,
			UserID:        &userID,
			Status:        models.SyncStatusInProgress,
		}
		if err := database.DB.Create(&syncLog).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Jurnalul de sincronizare nu a putut fi creat")
		}

		finish := func(status models.SyncStatus, counts map[string]int, errMsg string) {
			finished := time.Now()
			syncLog.FinishedAt = &finished
			syncLog.Status = status
			syncLog.ErrorMessage = errMsg
			if counts != nil {
				if b, err := json.Marshal(counts); err == nil {
					syncLog.ResultCounts = string(b)
				}
			}
			_ = database.DB.Save(&syncLog).Error
		}

		payments, err := sb.GetPayments(from, to)
		if err != nil {
			finish(models.SyncStatusFailure, nil, err.Error())
			return fiber.NewError(fiber.StatusBadGateway, "Eroare SmartBill: "+err.Error())
		}

		updated := 0
		syncErrors := []string{}

		for _, payment := range payments {
			var invoice models.Invoice
			err := database.DB.
				Where("smartbill_series = ? AND smartbill_number = ?",
					payment.InvoiceSeries, payment.InvoiceNumber).
				First(&invoice).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// încasare pentru o factură emisă în afara aplicației
				continue
			}
			if err != nil {
				syncErrors = append(syncErrors,
					fmt.Sprintf("Factura %s%s nu a putut fi citită", payment.InvoiceSeries, payment.InvoiceNumber))
				continue
			}

			invoice.ApplyPayment(decimal.NewFromFloat(payment.PaidAmount))
			invoice.LastPaymentSyncAt = &now
			if err := database.DB.Save(&invoice).Error; err != nil {
				syncErrors = append(syncErrors,
					fmt.Sprintf("Factura %s nu a putut fi actualizată", invoice.NumberDisplay()))
				continue
			}
			updated++
		}

		errMsg := ""
		if len(syncErrors) > 0 {
			shown := syncErrors
			if len(shown) > 10 {
				shown = shown[:10]
			}
			for i, e := range shown {
				if i > 0 {
					errMsg += "\n"
				}
				errMsg += e
			}
		}

		finish(models.SyncStatusSuccess, map[string]int{
			"payments_found":   len(payments),
			"invoices_updated": updated,
			"errors_count":     len(syncErrors),
		}, errMsg)

		return c.JSON(fiber.Map{
			"sync_log_id":      syncLog.ID,
			"payments_found":   len(payments),
			"invoices_updated": updated,
			"errors":           syncErrors,
			"message":          fmt.Sprintf("Sincronizare completă. %d facturi actualizate.", updated),
		})
	}
}

// GET /api/billing/sync-logs
func ListSyncLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var logs []models.SyncLog
		err := database.DB.Order("started_at DESC").Limit(50).Find(&logs).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Istoricul de sincronizare nu a putut fi citit")
		}
		return c.JSON(logs)
	}
}
