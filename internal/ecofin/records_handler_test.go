package ecofin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBoolQuery(t *testing.T) {
	for _, v := range []string{"true", "TRUE", "True", "1"} {
		validated, ok := parseBoolQuery(v)
		assert.True(t, ok, v)
		assert.True(t, validated, v)
	}
	for _, v := range []string{"false", "FALSE", "False", "0"} {
		validated, ok := parseBoolQuery(v)
		assert.True(t, ok, v)
		assert.False(t, validated, v)
	}

	// lipsă sau invalid - filtrul nu se aplică
	_, ok := parseBoolQuery("")
	assert.False(t, ok)
	_, ok = parseBoolQuery("poate")
	assert.False(t, ok)
}
