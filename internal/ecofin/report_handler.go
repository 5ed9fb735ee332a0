package ecofin

import (
	"iss-backend/internal/database"
	"iss-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ClientSummary struct {
	ClientID   *uint           `json:"client_id"`
	ClientNume string          `json:"client_nume"`
	Workers    int             `json:"workers"`
	OreLucrate decimal.Decimal `json:"ore_lucrate"`
	Venit      decimal.Decimal `json:"venit"`
	Cost       decimal.Decimal `json:"cost"`
	Profit     decimal.Decimal `json:"profit"`
	// procent din profitul pozitiv total; clienții pe pierdere au 0
	ProfitShare decimal.Decimal `json:"profit_share"`
}

type SummaryResponse struct {
	Year  int `json:"year"`
	Month int `json:"month,omitempty"`

	Workers      int             `json:"workers"`
	OreLucrate   decimal.Decimal `json:"ore_lucrate"`
	VenitTotal   decimal.Decimal `json:"venit_total"`
	CostTotal    decimal.Decimal `json:"cost_total"`
	ProfitTotal  decimal.Decimal `json:"profit_total"`
	MarjaProcent decimal.Decimal `json:"marja_procent"`

	Clients []ClientSummary `json:"clients"`
}

// ProfitShares - procentul fiecărui profit pozitiv din totalul pozitiv.
// Intrările nepozitive primesc 0. Procentele sunt trunchiate la 2 zecimale,
// cu restul adăugat ultimei intrări pozitive, deci suma lor este exact 100
// când există cel puțin un profit pozitiv.
func ProfitShares(profits []decimal.Decimal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(profits))

	total := decimal.Zero
	for _, p := range profits {
		if p.IsPositive() {
			total = total.Add(p)
		}
	}
	if total.IsZero() {
		return shares
	}

	hundred := decimal.NewFromInt(100)
	sum := decimal.Zero
	lastPositive := -1
	for i, p := range profits {
		if !p.IsPositive() {
			continue
		}
		shares[i] = p.Mul(hundred).Div(total).Truncate(2)
		sum = sum.Add(shares[i])
		lastPositive = i
	}
	shares[lastPositive] = shares[lastPositive].Add(hundred.Sub(sum))

	return shares
}

// GET /api/eco-fin/reports/summary
func SummaryReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year := c.QueryInt("year")
		if year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "Parametrul year este obligatoriu")
		}
		month := c.QueryInt("month")

		query := database.DB.Preload("Client").Where("year = ?", year)
		if month > 0 {
			query = query.Where("month = ?", month)
		}
		if clientID := c.QueryInt("client_id"); clientID > 0 {
			query = query.Where("client_id = ?", clientID)
		}

		var records []models.ProfitabilityRecord
		if err := query.Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Înregistrările nu au putut fi citite")
		}

		resp := SummaryResponse{
			Year:    year,
			Month:   month,
			Workers: len(records),
			Clients: []ClientSummary{},
		}

		perClient := make(map[uint]*ClientSummary)
		var unassigned *ClientSummary
		order := make([]*ClientSummary, 0)

		for i := range records {
			r := &records[i]
			resp.OreLucrate = resp.OreLucrate.Add(r.OreLucrate)
			resp.VenitTotal = resp.VenitTotal.Add(r.VenitGenerat)
			resp.CostTotal = resp.CostTotal.Add(r.CostSalariatTotal)
			resp.ProfitTotal = resp.ProfitTotal.Add(r.Profitabilitate)

			var entry *ClientSummary
			if r.ClientID == nil {
				if unassigned == nil {
					unassigned = &ClientSummary{ClientNume: "Fără client"}
					order = append(order, unassigned)
				}
				entry = unassigned
			} else {
				entry = perClient[*r.ClientID]
				if entry == nil {
					entry = &ClientSummary{ClientID: r.ClientID}
					if r.Client != nil {
						entry.ClientNume = r.Client.Denumire
					}
					perClient[*r.ClientID] = entry
					order = append(order, entry)
				}
			}

			entry.Workers++
			entry.OreLucrate = entry.OreLucrate.Add(r.OreLucrate)
			entry.Venit = entry.Venit.Add(r.VenitGenerat)
			entry.Cost = entry.Cost.Add(r.CostSalariatTotal)
			entry.Profit = entry.Profit.Add(r.Profitabilitate)
		}

		// marja = profit / venit × 100; fără venit nu există marjă
		if !resp.VenitTotal.IsZero() {
			resp.MarjaProcent = resp.ProfitTotal.
				Mul(decimal.NewFromInt(100)).
				Div(resp.VenitTotal).
				Round(2)
		}

		profits := make([]decimal.Decimal, len(order))
		for i, entry := range order {
			profits[i] = entry.Profit
		}
		shares := ProfitShares(profits)
		for i, entry := range order {
			entry.ProfitShare = shares[i]
			resp.Clients = append(resp.Clients, *entry)
		}

		return c.JSON(resp)
	}
}
