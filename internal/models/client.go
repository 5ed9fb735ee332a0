package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client - firma beneficiară la care sunt detașați lucrătorii.
// Tariful orar și costurile lunare (cazare/masă/transport) intră
// direct în calculul de profitabilitate.
type Client struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Denumire  string `gorm:"size:255;not null" json:"denumire"`
	Tara      string `gorm:"size:50" json:"tara"`
	Oras      string `gorm:"size:50" json:"oras"`
	Judet     string `gorm:"size:50" json:"judet"`
	Adresa    string `gorm:"size:255" json:"adresa"`
	CodFiscal string `gorm:"size:50" json:"cod_fiscal"`
	Email     string `gorm:"size:100" json:"email"`

	TarifOrar decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"tarif_orar"`
	NrOreMinim int            `gorm:"default:0" json:"nr_ore_minim"`

	CazareCost    decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"cazare_cost"`
	MasaCost      decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"masa_cost"`
	TransportCost decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"transport_cost"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
