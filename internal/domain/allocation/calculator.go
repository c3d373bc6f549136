// Package allocation implementa la lógica pura del motor de costos en
// destino: el cálculo de distribución del pool entre recepciones y la
// construcción del asiento contable de partida doble. Sin I/O ni efectos:
// los casos de uso cargan los datos y persisten los resultados.
package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// PoolEntry una entrada del pool de costos: monto de una factura a distribuir.
type PoolEntry struct {
	VoucherBillID string
	BillID        string
	Amount        decimal.Decimal
}

// Target una recepción candidata a recibir costo. Quantity y OriginalCost
// deben venir releídos del movimiento actual, no de la foto guardada.
type Target struct {
	VoucherItemID   string
	StockMovementID string
	ItemID          string
	Quantity        decimal.Decimal
	OriginalCost    decimal.Decimal
}

// Result la porción del pool asignada a una recepción y su nuevo costo unitario.
type Result struct {
	VoucherItemID   string
	StockMovementID string
	ItemID          string
	AllocatedCost   decimal.Decimal
	NewUnitCost     decimal.Decimal
}

// PoolTotal suma los montos del pool.
func PoolTotal(pool []PoolEntry) decimal.Decimal {
	total := decimal.Zero
	for _, p := range pool {
		total = total.Add(p.Amount)
	}
	return total
}

// Allocate distribuye el total del pool entre las recepciones según el método.
// Base por recepción: cantidad (by_quantity) o costo original (by_value).
//
// Retorna nil cuando el pool o la base total son cero: es un estado degenerado
// válido (comprobante sin facturas o sin recepciones), no un error.
//
// Cada porción se redondea a 2 decimales, acotada a lo que queda del pool (el
// redondeo half-up puede sobregirar con pools pequeños), y la última recepción
// con base distinta de cero absorbe el residuo, de modo que Σ AllocatedCost es
// EXACTAMENTE el total del pool y ninguna porción es negativa. Determinista:
// mismos insumos, mismos resultados.
func Allocate(pool []PoolEntry, targets []Target, method string) []Result {
	poolTotal := PoolTotal(pool)
	if poolTotal.IsZero() || len(targets) == 0 {
		return nil
	}

	baseOf := func(t Target) decimal.Decimal {
		if method == entity.AllocationMethodByQuantity {
			return t.Quantity
		}
		return t.OriginalCost
	}

	baseTotal := decimal.Zero
	lastIdx := -1
	for i, t := range targets {
		base := baseOf(t)
		baseTotal = baseTotal.Add(base)
		if !base.IsZero() {
			lastIdx = i
		}
	}
	if baseTotal.IsZero() {
		return nil
	}

	results := make([]Result, 0, len(targets))
	assigned := decimal.Zero
	for i, t := range targets {
		var allocated decimal.Decimal
		if i == lastIdx {
			// residuo del redondeo a la última recepción con base
			allocated = poolTotal.Sub(assigned)
		} else {
			allocated = poolTotal.Mul(baseOf(t)).Div(baseTotal).Round(2)
			// nunca más de lo que queda: así el residuo final no baja de cero
			if remaining := poolTotal.Sub(assigned); allocated.GreaterThan(remaining) {
				allocated = remaining
			}
		}
		assigned = assigned.Add(allocated)

		newUnitCost := decimal.Zero
		if !t.Quantity.IsZero() {
			newUnitCost = t.OriginalCost.Add(allocated).Div(t.Quantity).Round(6)
		}
		results = append(results, Result{
			VoucherItemID:   t.VoucherItemID,
			StockMovementID: t.StockMovementID,
			ItemID:          t.ItemID,
			AllocatedCost:   allocated,
			NewUnitCost:     newUnitCost,
		})
	}
	return results
}
