package ecofin

import (
	"testing"

	"iss-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "stefan ionita", normalizeName("Ștefan  Ioniță"))
	assert.Equal(t, "paun brinzan", normalizeName("PĂUN BRÎNZAN"))
	assert.Equal(t, "", normalizeName("   "))
}

func TestNameSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, nameSimilarity("ion popescu", "ion popescu"))
	// nume inversate sunt considerate identice
	assert.Equal(t, 1.0, nameSimilarity("popescu ion", "ion popescu"))
	// o literă diferită la nume lungi rămâne peste prag
	assert.Greater(t, nameSimilarity("ion popescu", "ion popesku"), 0.8)
	assert.Less(t, nameSimilarity("ion popescu", "ion popesku"), 1.0)
	// nume complet diferite pică sub prag
	assert.Less(t, nameSimilarity("ion popescu", "vasile dumitrescu"), 0.8)
}

func TestCheckNameMatch(t *testing.T) {
	worker := &models.Worker{Nume: "Popescu", Prenume: "Ion"}

	// nume identic, cu diacritice diferite - fără avertisment
	assert.Empty(t, checkNameMatch(worker, "POPESCU", "ION"))

	// nume lipsă din Excel - nu avem ce verifica
	assert.Empty(t, checkNameMatch(worker, "", ""))

	// nume diferit - avertisment
	warn := checkNameMatch(worker, "Dumitrescu", "Vasile")
	assert.Contains(t, warn, "nu corespunde")
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein([]rune("abc"), []rune("abc")))
	assert.Equal(t, 1, levenshtein([]rune("abc"), []rune("abd")))
	assert.Equal(t, 3, levenshtein([]rune(""), []rune("abc")))
	assert.Equal(t, 3, levenshtein([]rune("kitten"), []rune("sitting")))
}
