package ecofin

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ParsedRow - un rând extras din Excel, cu erorile lui de validare.
// Erorile de rând nu opresc batch-ul: rândul e raportat în preview
// și exclus de la acceptare.
type ParsedRow struct {
	RowNumber int
	NrCIM     string
	Nume      string
	Prenume   string

	OreLucrate  decimal.Decimal
	SalariuBrut decimal.Decimal
	CAM         decimal.Decimal
	Net         decimal.Decimal
	Retineri    decimal.Decimal
	RestPlata   decimal.Decimal

	Errors []string
}

func (r *ParsedRow) Valid() bool {
	return len(r.Errors) == 0
}

// aliasurile acceptate pentru fiecare coloană (lowercase, fără spații în plus)
var columnAliases = map[string][]string{
	"nr_cim":       {"nr cim", "nr. cim", "cim", "numar cim", "număr cim", "contract", "nr contract"},
	"nume":         {"nume", "name"},
	"prenume":      {"prenume", "first name"},
	"ore_lucrate":  {"ore lucrate", "ore", "hours", "total ore"},
	"salariu_brut": {"salariu brut", "brut", "salariu", "salary", "gross"},
	"cam":          {"cam", "contributie", "contribuție", "contributie asiguratorie"},
	"net":          {"net", "salariu net"},
	"retineri":     {"retineri", "rețineri"},
	"rest_plata":   {"rest plata", "rest de plata", "rest de plată"},
}

var requiredColumns = []string{"nr_cim", "ore_lucrate", "salariu_brut", "cam"}

// ParseWorkbook - citește primul sheet al fișierului xlsx și extrage
// rândurile de salarizare. Eșuează doar pe fișier necitibil sau pe
// coloane obligatorii lipsă; erorile de rând se acumulează per rând.
func ParseWorkbook(r io.Reader) ([]ParsedRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("fișierul Excel nu a putut fi citit: %w", err)
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, fmt.Errorf("fișierul Excel nu conține niciun sheet")
	}

	rows, err := f.GetRows(sheetList[0])
	if err != nil {
		return nil, fmt.Errorf("sheet-ul nu a putut fi citit: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("fișierul Excel nu conține rânduri de date")
	}

	columns, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	parsed := make([]ParsedRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if rowEmpty(row) {
			continue
		}
		parsed = append(parsed, parseRow(i+1, row, columns))
	}

	return parsed, nil
}

// mapHeader - identifică indexul fiecărei coloane după aliasuri.
func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for idx, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		if name == "" {
			continue
		}
		for key, aliases := range columnAliases {
			if _, done := columns[key]; done {
				continue
			}
			for _, alias := range aliases {
				if name == alias {
					columns[key] = idx
					break
				}
			}
		}
	}

	for _, key := range requiredColumns {
		if _, ok := columns[key]; !ok {
			return nil, fmt.Errorf("coloana obligatorie '%s' nu a fost găsită în Excel", key)
		}
	}
	return columns, nil
}

func parseRow(rowNumber int, row []string, columns map[string]int) ParsedRow {
	p := ParsedRow{RowNumber: rowNumber}

	p.NrCIM = strings.TrimSpace(cellAt(row, columns, "nr_cim"))
	if p.NrCIM == "" {
		p.Errors = append(p.Errors, "Numărul CIM lipsește")
	}

	p.Nume = strings.TrimSpace(cellAt(row, columns, "nume"))
	p.Prenume = strings.TrimSpace(cellAt(row, columns, "prenume"))

	p.OreLucrate = parseAmount(&p, row, columns, "ore_lucrate", "Ore lucrate", true)
	p.SalariuBrut = parseAmount(&p, row, columns, "salariu_brut", "Salariu brut", true)
	p.CAM = parseAmount(&p, row, columns, "cam", "CAM", true)
	p.Net = parseAmount(&p, row, columns, "net", "Net", false)
	p.Retineri = parseAmount(&p, row, columns, "retineri", "Rețineri", false)
	p.RestPlata = parseAmount(&p, row, columns, "rest_plata", "Rest de plată", false)

	return p
}

// parseAmount - extrage o valoare numerică; acceptă virgulă ca separator
// zecimal. Câmpurile obligatorii lipsă sau negative generează eroare de rând.
func parseAmount(p *ParsedRow, row []string, columns map[string]int, key, label string, required bool) decimal.Decimal {
	raw := strings.TrimSpace(cellAt(row, columns, key))
	if raw == "" {
		if required {
			p.Errors = append(p.Errors, fmt.Sprintf("%s lipsește", label))
		}
		return decimal.Zero
	}

	raw = strings.ReplaceAll(raw, " ", "")
	// format românesc: 1.234,56
	if strings.Contains(raw, ",") {
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	}

	val, err := decimal.NewFromString(raw)
	if err != nil {
		p.Errors = append(p.Errors, fmt.Sprintf("%s are o valoare numerică invalidă", label))
		return decimal.Zero
	}
	if required && val.IsNegative() {
		p.Errors = append(p.Errors, fmt.Sprintf("%s nu poate fi negativ", label))
		return decimal.Zero
	}
	return val
}

func cellAt(row []string, columns map[string]int, key string) string {
	idx, ok := columns[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
