package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 1234.57, Round2(1234.5678))
	assert.Equal(t, 1234.56, Round2(1234.564))
	assert.Equal(t, -42.13, Round2(-42.125))
	assert.Equal(t, 0.0, Round2(0))
	// Binary float noise collapses back to the intended cents.
	assert.Equal(t, 0.3, Round2(0.1+0.2))
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$1,234.56", FormatUSD(1234.56))
	assert.Equal(t, "$0.00", FormatUSD(0))
	assert.Equal(t, "-$500.00", FormatUSD(-500))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "12.3%", FormatPercent(12.34))
	assert.Equal(t, "0.0%", FormatPercent(0))
	assert.Equal(t, "-8.1%", FormatPercent(-8.06))
}
