package billing

import (
	"testing"

	"iss-backend/internal/models"

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

var vat21 = dec("21")

func TestComputeVAT(t *testing.T) {
	vat, total := ComputeVAT(dec("1000"), vat21)
	assert.True(t, vat.Equal(dec("210")), vat.String())
	assert.True(t, total.Equal(dec("1210")), total.String())

	// rotunjire la 2 zecimale
	vat, total = ComputeVAT(dec("33.33"), vat21)
	assert.True(t, vat.Equal(dec("7.00")), vat.String())
	assert.True(t, total.Equal(dec("40.33")), total.String())
}

func TestBuildInvoiceLinesStandard(t *testing.T) {
	lines, subtotal, err := BuildInvoiceLines(ModeStandard, 2026, 3, dec("4000"), decimal.Zero, vat21, nil)
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Equal(t, "PRESTARI SERVICII Martie 2026", lines[0].Description)
	assert.Equal(t, models.LineTypeStandard, lines[0].LineType)
	assert.True(t, lines[0].LineTotal.Equal(dec("4000")))
	assert.True(t, lines[0].LineVat.Equal(dec("840")))
	assert.True(t, subtotal.Equal(dec("4000")))
}

func TestBuildInvoiceLinesDifference(t *testing.T) {
	lines, subtotal, err := BuildInvoiceLines(ModeDifference, 2026, 3, dec("4000"), dec("2500"), vat21, nil)
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Equal(t, "PRESTARI SERVICII Martie 2026 – DIFERENȚĂ", lines[0].Description)
	assert.Equal(t, models.LineTypeDifference, lines[0].LineType)
	assert.True(t, subtotal.Equal(dec("1500")), subtotal.String())
}

func TestBuildInvoiceLinesDifferenceNothingLeft(t *testing.T) {
	// tot ce s-a calculat e deja facturat
	_, _, err := BuildInvoiceLines(ModeDifference, 2026, 3, dec("4000"), dec("4000"), vat21, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "diferență")

	_, _, err = BuildInvoiceLines(ModeDifference, 2026, 3, dec("4000"), dec("5000"), vat21, nil)
	require.Error(t, err)
}

func TestBuildInvoiceLinesExtraServices(t *testing.T) {
	customVat := dec("9")
	extras := []ExtraLine{
		{Description: "Transport suplimentar", Quantity: dec("2"), UnitPrice: dec("150")},
		{UnitPrice: dec("80"), VatRate: &customVat}, // descriere și cantitate implicite
	}

	lines, subtotal, err := BuildInvoiceLines(ModeExtraServices, 2026, 3, decimal.Zero, decimal.Zero, vat21, extras)
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, "Transport suplimentar", lines[0].Description)
	assert.True(t, lines[0].LineTotal.Equal(dec("300")))
	assert.Equal(t, models.LineTypeExtra, lines[0].LineType)

	assert.Equal(t, "Serviciu suplimentar", lines[1].Description)
	assert.True(t, lines[1].Quantity.Equal(dec("1")))
	assert.True(t, lines[1].VatRate.Equal(customVat))

	assert.True(t, subtotal.Equal(dec("380")), subtotal.String())
}

func TestBuildInvoiceLinesExtraServicesEmpty(t *testing.T) {
	_, _, err := BuildInvoiceLines(ModeExtraServices, 2026, 3, decimal.Zero, decimal.Zero, vat21, nil)
	require.Error(t, err)
}

func TestBuildInvoiceLinesUnknownMode(t *testing.T) {
	_, _, err := BuildInvoiceLines("proforma", 2026, 3, dec("100"), decimal.Zero, vat21, nil)
	require.Error(t, err)
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "Ianuarie", monthName(1))
	assert.Equal(t, "Decembrie", monthName(12))
	assert.Equal(t, "13", monthName(13))
}
