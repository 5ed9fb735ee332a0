package ecofin

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCompute(t *testing.T) {
	// Scenariul de referință: setări 6000.00 indirecte / 3 lucrători,
	// concediu 200.00, tarif 20, 160 ore.
	in := CalcInput{
		OreLucrate:    dec("160"),
		SalariuBrut:   dec("2500.00"),
		CAM:           dec("56.25"),
		TarifOrar:     dec("20"),
		CostCazare:    dec("300.00"),
		CostMasa:      dec("150.00"),
		CostTransport: dec("50.00"),
		CotaIndirecte: dec("2000.00"),
		CostConcediu:  dec("200.00"),
	}

	res := Compute(in)

	assert.True(t, res.CostSalarialComplet.Equal(dec("2556.25")))
	assert.True(t, res.VenitGenerat.Equal(dec("3200.00")), "venit = 160 × 20")
	assert.True(t, res.CostSalariatTotal.Equal(dec("5256.25")))
	assert.True(t, res.Profitabilitate.Equal(dec("-2056.25")))

	// profit = venit − suma tuturor componentelor de cost, exact
	expected := res.VenitGenerat.Sub(
		in.SalariuBrut.Add(in.CAM).
			Add(in.CotaIndirecte).Add(in.CostConcediu).
			Add(in.CostCazare).Add(in.CostMasa).Add(in.CostTransport))
	assert.True(t, res.Profitabilitate.Equal(expected))
}

func TestComputeNegativeProfitAllowed(t *testing.T) {
	res := Compute(CalcInput{
		OreLucrate:  dec("10"),
		TarifOrar:   dec("1"),
		SalariuBrut: dec("5000"),
	})
	assert.True(t, res.Profitabilitate.IsNegative())
}

func TestComputeZeroRateUnassignedClient(t *testing.T) {
	// Lucrător fără client: tarif 0, venit 0, profit negativ = costurile.
	res := Compute(CalcInput{
		OreLucrate:  dec("168"),
		SalariuBrut: dec("3000.00"),
		CAM:         dec("67.50"),
	})
	assert.True(t, res.VenitGenerat.IsZero())
	assert.True(t, res.Profitabilitate.Equal(dec("-3067.50")))
}

func TestAllocateIndirectExactDivision(t *testing.T) {
	shares := AllocateIndirect(dec("6000.00"), 3)
	require.Len(t, shares, 3)
	for _, s := range shares {
		assert.True(t, s.Equal(dec("2000.00")))
	}
}

func TestAllocateIndirectResidueGoesToLast(t *testing.T) {
	// 1000 / 3 = 333.33(3): primele cote 333.33, ultima preia restul.
	shares := AllocateIndirect(dec("1000.00"), 3)
	require.Len(t, shares, 3)

	assert.True(t, shares[0].Equal(dec("333.33")))
	assert.True(t, shares[1].Equal(dec("333.33")))
	assert.True(t, shares[2].Equal(dec("333.34")))

	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s)
	}
	assert.True(t, sum.Equal(dec("1000.00")), "suma cotelor trebuie să fie exact fondul")
}

func TestAllocateIndirectSumsExactly(t *testing.T) {
	pools := []string{"6000.00", "1000.00", "999.99", "0.01", "12345.67"}
	for _, p := range pools {
		for n := 1; n <= 23; n++ {
			shares := AllocateIndirect(dec(p), n)
			require.Len(t, shares, n)

			sum := decimal.Zero
			for _, s := range shares {
				sum = sum.Add(s)
			}
			assert.True(t, sum.Equal(dec(p)), "fond %s, %d lucrători", p, n)
		}
	}
}

func TestAllocateIndirectNoWorkers(t *testing.T) {
	assert.Nil(t, AllocateIndirect(dec("1000.00"), 0))
}
