package services

import (
	"testing"

	"github.com/hypernova-labs/pos-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		name      string
		items     []models.PurchaseItem
		wantTotal int
		wantExTax int
	}{
		{
			name:      "single item exact division",
			items:     []models.PurchaseItem{{PrdPrice: 110, Quantity: 1}},
			wantTotal: 110,
			wantExTax: 100,
		},
		{
			name:      "floor applied per unit before quantity",
			items:     []models.PurchaseItem{{PrdPrice: 100, Quantity: 3}},
			wantTotal: 300,
			wantExTax: 270,
		},
		{
			name: "multiple lines",
			items: []models.PurchaseItem{
				{PrdPrice: 110, Quantity: 2},
				{PrdPrice: 55, Quantity: 1},
			},
			wantTotal: 275,
			wantExTax: 250,
		},
		{
			name:      "zero quantity defaults to one",
			items:     []models.PurchaseItem{{PrdPrice: 110}},
			wantTotal: 110,
			wantExTax: 100,
		},
		{
			name:      "empty list returns zero totals",
			items:     nil,
			wantTotal: 0,
			wantExTax: 0,
		},
		{
			name:      "zero price",
			items:     []models.PurchaseItem{{PrdPrice: 0, Quantity: 5}},
			wantTotal: 0,
			wantExTax: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, exTax := CalculateTotals(tt.items)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.wantExTax, exTax)
		})
	}
}

func TestCalculateTotalsInvariant(t *testing.T) {
	// El total sin impuesto nunca supera al total y ninguno es negativo
	prices := []int{0, 1, 10, 11, 99, 100, 110, 999, 12345}
	quantities := []int{1, 2, 7}

	for _, price := range prices {
		for _, qty := range quantities {
			total, exTax := CalculateTotals([]models.PurchaseItem{{PrdPrice: price, Quantity: qty}})
			assert.GreaterOrEqual(t, exTax, 0)
			assert.LessOrEqual(t, exTax, total)
		}
	}
}
