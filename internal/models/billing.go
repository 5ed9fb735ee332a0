package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusIssued    InvoiceStatus = "issued"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Invoice - factură emisă prin SmartBill pentru un client și o perioadă.
// paid_amount/due_amount sunt actualizate de sincronizarea încasărilor.
type Invoice struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	ClientID uint    `gorm:"index;not null" json:"client_id"`
	Client   *Client `json:"client,omitempty"`

	Year  int `gorm:"index;not null" json:"year"`
	Month int `gorm:"index;not null" json:"month"`

	SmartbillSeries string     `gorm:"size:20" json:"smartbill_series"`
	SmartbillNumber string     `gorm:"size:20" json:"smartbill_number"`
	IssueDate       *time.Time `json:"issue_date"`

	Subtotal decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"subtotal"`
	VatTotal decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"vat_total"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total"`
	Currency string          `gorm:"size:3;default:'RON'" json:"currency"`

	HoursBilled decimal.Decimal `gorm:"type:decimal(8,2);default:0" json:"hours_billed"`
	HourlyRate  decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"hourly_rate"`

	Status        InvoiceStatus `gorm:"size:20;default:'draft'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"size:20;default:'unpaid'" json:"payment_status"`

	PaidAmount decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"paid_amount"`
	DueAmount  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"due_amount"`

	PDFPath string `gorm:"size:255" json:"pdf_path"`

	LastEmailSentAt   *time.Time `json:"last_email_sent_at"`
	EmailSentTo       string     `gorm:"size:100" json:"email_sent_to"`
	EmailSentCount    int        `gorm:"default:0" json:"email_sent_count"`
	LastPaymentSyncAt *time.Time `json:"last_payment_sync_at"`

	Lines []InvoiceLine `json:"lines,omitempty"`

	CreatedByID *uint     `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NumberDisplay - "serie + număr" pentru afișare (ex: ISS0042).
func (i *Invoice) NumberDisplay() string {
	return i.SmartbillSeries + i.SmartbillNumber
}

// ApplyPayment - setează suma încasată și derivă soldul și statusul.
func (i *Invoice) ApplyPayment(paid decimal.Decimal) {
	i.PaidAmount = paid
	i.DueAmount = i.Total.Sub(paid)
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		i.PaymentStatus = PaymentStatusUnpaid
	case paid.GreaterThanOrEqual(i.Total):
		i.PaymentStatus = PaymentStatusPaid
	default:
		i.PaymentStatus = PaymentStatusPartial
	}
}

type LineType string

const (
	LineTypeStandard   LineType = "standard"
	LineTypeDifference LineType = "difference"
	LineTypeExtra      LineType = "extra"
)

type InvoiceLine struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	InvoiceID uint `gorm:"index;not null" json:"invoice_id"`

	Description string          `gorm:"size:255" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(10,2);default:1" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"unit_price"`
	VatRate     decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"vat_rate"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"line_total"`
	LineVat     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"line_vat"`
	LineType    LineType        `gorm:"size:20;default:'standard'" json:"line_type"`
}

type SyncStatus string

const (
	SyncStatusInProgress SyncStatus = "in_progress"
	SyncStatusSuccess    SyncStatus = "success"
	SyncStatusFailure    SyncStatus = "failure"
)

// SyncLog - istoric al sincronizărilor de încasări din SmartBill.
type SyncLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	StartedAt  time.Time  `gorm:"autoCreateTime" json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`

	RequestedFrom time.Time `json:"requested_from"`
	RequestedTo   time.Time `json:"requested_to"`

	UserID *uint `json:"user_id"`

	Status       SyncStatus `gorm:"size:20;default:'in_progress'" json:"status"`
	ResultCounts string     `gorm:"type:jsonb" json:"result_counts"`
	ErrorMessage string     `gorm:"type:text" json:"error_message"`
}

// EmailLog - istoric al trimiterilor de facturi pe email.
type EmailLog struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	InvoiceID uint `gorm:"index;not null" json:"invoice_id"`

	SentByID *uint  `json:"sent_by_id"`
	SentTo   string `gorm:"size:100" json:"sent_to"`
	Subject  string `gorm:"size:255" json:"subject"`

	Status       string    `gorm:"size:20" json:"status"` // sent / failed
	ErrorMessage string    `gorm:"type:text" json:"error_message"`
	SentAt       time.Time `gorm:"autoCreateTime" json:"sent_at"`
}
