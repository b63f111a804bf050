package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tms-settlements/pkg/money"
)

func TestFormatUSD_DosDecimales(t *testing.T) {
	assert.Equal(t, "$850.50", money.FormatUSD(decimal.RequireFromString("850.5")))
	assert.Equal(t, "$0.00", money.FormatUSD(decimal.Zero))
	assert.Equal(t, "$12.35", money.FormatUSD(decimal.RequireFromString("12.345")))
}

func TestFormatUSD_Negativo(t *testing.T) {
	assert.Equal(t, "-$40.00", money.FormatUSD(decimal.NewFromInt(-40)))
}
