package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySettings - setările globale Eco-Fin pentru o lună.
// Cheltuielile indirecte se împart egal la lucrătorii din importul lunii,
// costul de concediu este fix per lucrător. După validarea lunii setările
// devin imutabile (is_locked).
type MonthlySettings struct {
	ID    uint `gorm:"primaryKey" json:"id"`
	Year  int  `gorm:"not null;uniqueIndex:idx_settings_period" json:"year"`
	Month int  `gorm:"not null;uniqueIndex:idx_settings_period" json:"month"`

	CheltuieliIndirecte decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"cheltuieli_indirecte"`
	CostConcediu        decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"cost_concediu"`

	IsLocked bool `gorm:"default:false" json:"is_locked"`

	CreatedByID *uint     `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BatchStatus string

const (
	BatchStatusPreview   BatchStatus = "preview"
	BatchStatusAccepted  BatchStatus = "accepted"
	BatchStatusCancelled BatchStatus = "cancelled"
	BatchStatusFailed    BatchStatus = "failed"
)

// ImportBatch - o încercare de import Excel, cu statistici per rând.
type ImportBatch struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Year     int    `gorm:"index;not null" json:"year"`
	Month    int    `gorm:"index;not null" json:"month"`
	Filename string `gorm:"size:255" json:"filename"`

	TotalRows     int `gorm:"default:0" json:"total_rows"`
	MatchedRows   int `gorm:"default:0" json:"matched_rows"`
	ErrorRows     int `gorm:"default:0" json:"error_rows"`
	ProcessedRows int `gorm:"default:0" json:"processed_rows"`

	Status       BatchStatus `gorm:"size:20;default:'preview'" json:"status"`
	ErrorDetails string      `gorm:"type:jsonb" json:"error_details"`

	ImportedByID  *uint      `json:"imported_by_id"`
	ValidatedByID *uint      `json:"validated_by_id"`
	ValidatedAt   *time.Time `json:"validated_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

type RowStatus string

const (
	RowStatusRaw       RowStatus = "raw"
	RowStatusMatched   RowStatus = "matched"
	RowStatusError     RowStatus = "error"
	RowStatusProcessed RowStatus = "processed"
)

// ImportedRow - datele brute ale unui rând din Excel, exact cum au venit,
// plus rezultatul identificării lucrătorului după nr. CIM.
type ImportedRow struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BatchID   uint `gorm:"index;not null" json:"batch_id"`
	RowNumber int  `gorm:"not null" json:"row_number"`

	NrCIM   string `gorm:"size:50;not null" json:"nr_cim"`
	Nume    string `gorm:"size:100" json:"nume"`
	Prenume string `gorm:"size:100" json:"prenume"`

	OreLucrate  decimal.Decimal `gorm:"type:decimal(8,2);default:0" json:"ore_lucrate"`
	SalariuBrut decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"salariu_brut"`
	CAM         decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"cam"`
	Net         decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"net"`
	Retineri    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"retineri"`
	RestPlata   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"rest_plata"`

	Status       RowStatus `gorm:"size:20;default:'raw'" json:"status"`
	WorkerID     *uint     `json:"worker_id"`
	ClientID     *uint     `json:"client_id"`
	ErrorMessage string    `gorm:"type:text" json:"error_message"`

	Year  int `gorm:"not null" json:"year"`
	Month int `gorm:"not null" json:"month"`

	CreatedAt time.Time `json:"created_at"`
}

// ProfitabilityRecord - înregistrarea procesată per (lucrător, an, lună).
// Datele din client și din setări sunt copiate la momentul procesării
// pentru istoric. După validare devine read-only.
//
// Formula:
//  1. cost_salarial_complet = salariu_brut + cam
//  2. cost_salariat_total = cost_salarial_complet + cazare + masa +
//     transport + cota_indirecte + cost_concediu
//  3. venit_generat = ore_lucrate × tarif_orar
//  4. profitabilitate = venit_generat − cost_salariat_total
type ProfitabilityRecord struct {
	ID            uint  `gorm:"primaryKey" json:"id"`
	ImportedRowID *uint `json:"imported_row_id"`

	WorkerID uint    `gorm:"not null;uniqueIndex:idx_record_period" json:"worker_id"`
	Worker   *Worker `json:"worker,omitempty"`
	// Lipsa clientului este un avertisment, nu o eroare: tarif zero.
	ClientID *uint   `gorm:"index" json:"client_id"`
	Client   *Client `json:"client,omitempty"`

	Year  int `gorm:"not null;uniqueIndex:idx_record_period" json:"year"`
	Month int `gorm:"not null;uniqueIndex:idx_record_period" json:"month"`

	NrCIM string `gorm:"size:50" json:"nr_cim"`

	OreLucrate  decimal.Decimal `gorm:"type:decimal(8,2);default:0" json:"ore_lucrate"`
	SalariuBrut decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"salariu_brut"`
	CAM         decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"cam"`
	Net         decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"net"`
	Retineri    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"retineri"`
	RestPlata   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"rest_plata"`

	CostSalarialComplet decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"cost_salarial_complet"`

	TarifOrar     decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"tarif_orar"`
	CostCazare    decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"cost_cazare"`
	CostMasa      decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"cost_masa"`
	CostTransport decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"cost_transport"`

	CotaIndirecte decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"cota_indirecte"`
	CostConcediu  decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"cost_concediu"`

	CostSalariatTotal decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"cost_salariat_total"`
	VenitGenerat      decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"venit_generat"`
	Profitabilitate   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"profitabilitate"`

	IsValidated   bool       `gorm:"default:false;index" json:"is_validated"`
	ValidatedAt   *time.Time `json:"validated_at"`
	ValidatedByID *uint      `json:"validated_by_id"`

	CreatedByID *uint     `json:"created_by_id"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
