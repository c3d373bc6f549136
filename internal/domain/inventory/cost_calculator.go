// Package inventory contiene la lógica pura de valoración de inventario.
package inventory

import "github.com/shopspring/decimal"

// CostCalculator implementa el costo promedio ponderado móvil (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantRecepción * CostoRecepción)) / (StockActual + CantRecepción)
// Se aplica recepción por recepción al reconstruir el costo de un artículo desde su historial.
func CostCalculator(stockActual, costoActual, cantRecepcion, costoRecepcion decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantRecepcion)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantRecepcion.Mul(costoRecepcion))
	return num.Div(sum)
}
