package ecofin

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfitSharesSumToHundred(t *testing.T) {
	profits := []decimal.Decimal{dec("1000"), dec("1000"), dec("1000")}

	shares := ProfitShares(profits)
	require.Len(t, shares, 3)

	// 100/3 nu se împarte exact; restul merge pe ultima intrare
	assert.True(t, shares[0].Equal(dec("33.33")), shares[0].String())
	assert.True(t, shares[1].Equal(dec("33.33")), shares[1].String())
	assert.True(t, shares[2].Equal(dec("33.34")), shares[2].String())

	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s)
	}
	assert.True(t, sum.Equal(dec("100")), sum.String())
}

func TestProfitSharesIgnoreLosses(t *testing.T) {
	profits := []decimal.Decimal{dec("600"), dec("-250"), dec("400"), decimal.Zero}

	shares := ProfitShares(profits)
	require.Len(t, shares, 4)

	assert.True(t, shares[0].Equal(dec("60")), shares[0].String())
	assert.True(t, shares[1].IsZero())
	assert.True(t, shares[2].Equal(dec("40")), shares[2].String())
	assert.True(t, shares[3].IsZero())
}

func TestProfitSharesAllNegative(t *testing.T) {
	shares := ProfitShares([]decimal.Decimal{dec("-10"), dec("-20")})
	require.Len(t, shares, 2)
	assert.True(t, shares[0].IsZero())
	assert.True(t, shares[1].IsZero())
}

func TestProfitSharesEmpty(t *testing.T) {
	assert.Empty(t, ProfitShares(nil))
}

func TestProfitSharesExactness(t *testing.T) {
	hundred := dec("100")
	cases := [][]string{
		{"1"},
		{"0.01", "0.01", "0.01"},
		{"123.45", "678.90", "0.01"},
		{"7", "11", "13", "17", "19", "23"},
		{"999999.99", "0.01"},
	}
	for _, tc := range cases {
		profits := make([]decimal.Decimal, len(tc))
		for i, s := range tc {
			profits[i] = dec(s)
		}
		shares := ProfitShares(profits)

		sum := decimal.Zero
		for _, s := range shares {
			sum = sum.Add(s)
		}
		assert.True(t, sum.Equal(hundred), "profituri %v: suma %s", tc, sum.String())
	}
}
