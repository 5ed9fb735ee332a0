package ecofin

import (
	"fmt"
	"strings"

	"iss-backend/internal/models"

	"gorm.io/gorm"
)

// MatchResult - rezultatul identificării unui rând importat.
// Lipsa lucrătorului e eroare fatală pentru rând; nepotrivirea de nume
// și lipsa clientului sunt doar avertismente.
type MatchResult struct {
	Worker   *models.Worker
	Client   *models.Client
	Errors   []string
	Warnings []string
}

func (m *MatchResult) Matched() bool {
	return m.Worker != nil && len(m.Errors) == 0
}

// MatchRow - caută lucrătorul după numărul CIM și verifică numele declarat.
func MatchRow(db *gorm.DB, row *ParsedRow) MatchResult {
	var result MatchResult

	var worker models.Worker
	err := db.Preload("Client").
		Where("LOWER(cim_nr) = LOWER(?)", strings.TrimSpace(row.NrCIM)).
		First(&worker).Error
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Lucrătorul cu CIM %s nu a fost găsit", row.NrCIM))
		return result
	}
	result.Worker = &worker

	// Verificare încrucișată a numelui - avertisment, nu eroare
	if warn := checkNameMatch(&worker, row.Nume, row.Prenume); warn != "" {
		result.Warnings = append(result.Warnings, warn)
	}

	if worker.Client == nil {
		result.Warnings = append(result.Warnings,
			"Lucrătorul nu are client asignat; venitul se calculează cu tarif 0")
	} else {
		result.Client = worker.Client
	}

	return result
}

// checkNameMatch - compară numele declarat în Excel cu cel din fișă.
// Folosim distanța Levenshtein pe numele normalizate; sub 80% similaritate
// semnalăm avertisment.
func checkNameMatch(worker *models.Worker, nume, prenume string) string {
	declared := normalizeName(nume + " " + prenume)
	if declared == "" {
		return ""
	}
	recorded := normalizeName(worker.Nume + " " + worker.Prenume)

	if nameSimilarity(declared, recorded) < 0.8 {
		return fmt.Sprintf("Numele din Excel (%s %s) nu corespunde cu fișa lucrătorului (%s %s)",
			nume, prenume, worker.Nume, worker.Prenume)
	}
	return ""
}

// normalizeName - elimină diacriticele românești și uniformizează spațiile.
func normalizeName(s string) string {
	replacements := map[rune]rune{
		'ă': 'a', 'Ă': 'a',
		'â': 'a', 'Â': 'a',
		'î': 'i', 'Î': 'i',
		'ș': 's', 'Ș': 's', 'ş': 's', 'Ş': 's',
		'ț': 't', 'Ț': 't', 'ţ': 't', 'Ţ': 't',
	}

	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if repl, ok := replacements[r]; ok {
			b.WriteRune(repl)
		} else {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// nameSimilarity - 1 − distanța_levenshtein / lungimea_maximă.
func nameSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	// numele pot veni inversate (Nume Prenume vs Prenume Nume)
	if sortedWords(a) == sortedWords(b) {
		return 1
	}

	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(maxLen)
}

func sortedWords(s string) string {
	words := strings.Fields(s)
	for i := 0; i < len(words); i++ {
		for j := i + 1; j < len(words); j++ {
			if words[j] < words[i] {
				words[i], words[j] = words[j], words[i]
			}
		}
	}
	return strings.Join(words, " ")
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
