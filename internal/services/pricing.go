package services

import "github.com/hypernova-labs/pos-service/internal/models"

// CalculateTotals calcula el total y el total sin impuesto de una lista de
// items. La tasa es fija al 10%: el precio sin impuesto por unidad es
// price*10/11 en aritmética entera, que es exactamente floor(price/1.1) para
// precios no negativos en unidad menor, sin pasar por punto flotante. El
// floor se aplica por unidad antes de multiplicar por la cantidad; invertir
// ese orden produce otro resultado y no es el comportamiento del sistema.
// Una lista vacía retorna (0, 0); rechazarla es responsabilidad del boundary.
// Función pura, sin efectos.
func CalculateTotals(items []models.PurchaseItem) (total int, totalExTax int) {
	for _, item := range items {
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}

		total += item.PrdPrice * qty
		totalExTax += (item.PrdPrice * 10 / 11) * qty
	}

	return total, totalExTax
}
