package ecofin

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestParseWorkbook(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Nr CIM", "Nume", "Prenume", "Ore lucrate", "Salariu brut", "CAM", "Net", "Retineri", "Rest plata"},
		{"123/2024", "Popescu", "Ion", "160", "2500.00", "56.25", "1490", "110", "1380"},
		{"124/2024", "Ionescu", "Maria", "150,5", "2600,00", "58.50", "", "", ""},
	})

	rows, err := ParseWorkbook(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.True(t, first.Valid())
	assert.Equal(t, 2, first.RowNumber)
	assert.Equal(t, "123/2024", first.NrCIM)
	assert.Equal(t, "Popescu", first.Nume)
	assert.True(t, first.OreLucrate.Equal(dec("160")))
	assert.True(t, first.SalariuBrut.Equal(dec("2500.00")))
	assert.True(t, first.CAM.Equal(dec("56.25")))
	assert.True(t, first.RestPlata.Equal(dec("1380")))

	// virgula ca separator zecimal
	second := rows[1]
	assert.True(t, second.Valid())
	assert.True(t, second.OreLucrate.Equal(dec("150.5")))
	assert.True(t, second.SalariuBrut.Equal(dec("2600.00")))
}

func TestParseWorkbookRowErrorsDoNotAbort(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Nr CIM", "Ore", "Brut", "CAM"},
		{"", "160", "2500", "56"},          // CIM lipsă
		{"200/2024", "abc", "2500", "56"},  // ore invalide
		{"201/2024", "-5", "2500", "56"},   // ore negative
		{"202/2024", "160", "2500", "56"},  // valid
	})

	rows, err := ParseWorkbook(buf)
	require.NoError(t, err, "erorile de rând nu opresc batch-ul")
	require.Len(t, rows, 4)

	assert.False(t, rows[0].Valid())
	assert.Contains(t, rows[0].Errors[0], "CIM")

	assert.False(t, rows[1].Valid())
	assert.Contains(t, rows[1].Errors[0], "invalid")

	assert.False(t, rows[2].Valid())
	assert.Contains(t, rows[2].Errors[0], "negativ")

	assert.True(t, rows[3].Valid())
}

func TestParseWorkbookMissingRequiredColumn(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Nr CIM", "Nume", "Salariu brut", "CAM"},
		{"123/2024", "Popescu", "2500", "56"},
	})

	_, err := ParseWorkbook(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ore_lucrate")
}

func TestParseWorkbookUnreadableFile(t *testing.T) {
	_, err := ParseWorkbook(bytes.NewBufferString("nu este xlsx"))
	require.Error(t, err)
}

func TestParseWorkbookSkipsEmptyRows(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Nr CIM", "Ore", "Brut", "CAM"},
		{"123/2024", "160", "2500", "56"},
		{"", "", "", ""},
		{"124/2024", "150", "2600", "58"},
	})

	rows, err := ParseWorkbook(buf)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
