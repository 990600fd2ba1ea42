package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"rs with thousands", "Rs. 1,250", 1250},
		{"pkr with decimals", "PKR 2,500.50", 2500.50},
		{"comma decimal", "45,99", 45.99},
		{"garbage", "garbage", 0},
		{"empty", "", 0},
		{"rs without dot", "Rs 750", 750},
		{"rupee glyph", "₨ 1,099", 1099},
		{"indian rupee glyph", "₹320", 320},
		{"dollar", "$12.5", 12.5},
		{"lowercase token", "rs.99", 99},
		{"millions", "Rs. 1,250,000", 1250000},
		{"inner whitespace", "Rs.  1, 250", 1250},
		{"trailing text", "Rs. 900 only", 900},
		{"ambiguous two digit group", "12,34", 12.34},
		{"negative", "-50", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizePrice(tt.text), 0.0001)
		})
	}
}
