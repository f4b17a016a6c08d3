package pgsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLikePattern(t *testing.T) {
	assert.Equal(t, "REVERSE", escapeLikePattern("REVERSE"))
	assert.Equal(t, `100\%`, escapeLikePattern("100%"))
	assert.Equal(t, `SALE\_LINE`, escapeLikePattern("SALE_LINE"))
	assert.Equal(t, `\\\%`, escapeLikePattern(`\%`))
}
