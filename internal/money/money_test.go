package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		amount   float64
		currency string
		want     string
	}{
		{1000, "USD", "$1,000.00"},
		{20, "usd", "$20.00"},
		{16000, "", "$16,000.00"},
		{1234.5, "BRL", "R$1,234.50"},
		{7.25, "CHF", "CHF 7.25"},
		{-3, "USD", "-$3.00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Format(tc.amount, tc.currency))
	}
}

func TestTons(t *testing.T) {
	assert.Equal(t, "300,000", Tons(300000))
	assert.Equal(t, "800", Tons(800))
}
