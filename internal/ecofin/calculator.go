package ecofin

import "github.com/shopspring/decimal"

// CalcInput - componentele de cost/venit ale unui lucrător-lună.
type CalcInput struct {
	OreLucrate  decimal.Decimal
	SalariuBrut decimal.Decimal
	CAM         decimal.Decimal

	TarifOrar     decimal.Decimal
	CostCazare    decimal.Decimal
	CostMasa      decimal.Decimal
	CostTransport decimal.Decimal

	CotaIndirecte decimal.Decimal
	CostConcediu  decimal.Decimal
}

type CalcResult struct {
	CostSalarialComplet decimal.Decimal
	CostSalariatTotal   decimal.Decimal
	VenitGenerat        decimal.Decimal
	Profitabilitate     decimal.Decimal
}

// Compute - formula de profitabilitate:
//  1. cost_salarial_complet = salariu_brut + cam
//  2. cost_salariat_total = cost_salarial_complet + cazare + masa +
//     transport + cota_indirecte + cost_concediu
//  3. venit_generat = ore_lucrate × tarif_orar
//  4. profitabilitate = venit_generat − cost_salariat_total
//
// Toate operațiile rămân în zecimal fix; nu se rotunjește la pași
// intermediari. Profitul poate fi negativ.
func Compute(in CalcInput) CalcResult {
	costSalarial := in.SalariuBrut.Add(in.CAM)

	costTotal := costSalarial.
		Add(in.CostCazare).
		Add(in.CostMasa).
		Add(in.CostTransport).
		Add(in.CotaIndirecte).
		Add(in.CostConcediu)

	venit := in.OreLucrate.Mul(in.TarifOrar)

	return CalcResult{
		CostSalarialComplet: costSalarial,
		CostSalariatTotal:   costTotal,
		VenitGenerat:        venit,
		Profitabilitate:     venit.Sub(costTotal),
	}
}

// AllocateIndirect - împarte fondul de cheltuieli indirecte la n lucrători.
// Cotele sunt trunchiate la 2 zecimale, iar restul de rotunjire se adaugă
// ultimei cote, astfel încât suma cotelor să fie exact egală cu fondul.
func AllocateIndirect(pool decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}

	count := decimal.NewFromInt(int64(n))
	share := pool.Div(count).Truncate(2)

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		shares[i] = share
	}

	residue := pool.Sub(share.Mul(count))
	shares[n-1] = shares[n-1].Add(residue)

	return shares
}
