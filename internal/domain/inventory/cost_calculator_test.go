package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Costeo-api/internal/domain/inventory"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// 100 unidades a $10 más 50 unidades a $16: promedio ponderado $12.
func TestCostCalculator_PromedioPonderado(t *testing.T) {
	got := inventory.CostCalculator(dec("100"), dec("10"), dec("50"), dec("16"))
	assert.True(t, got.Equal(dec("12")), "((100*10)+(50*16))/150 = 12, fue %s", got)
}

// Primera recepción (stock cero): el costo es el de la recepción.
func TestCostCalculator_StockInicial(t *testing.T) {
	got := inventory.CostCalculator(decimal.Zero, decimal.Zero, dec("30"), dec("7.50"))
	assert.True(t, got.Equal(dec("7.50")))
}

// Sin stock ni recepción no hay base: costo cero, nunca división por cero.
func TestCostCalculator_SinBase_RetornaCero(t *testing.T) {
	got := inventory.CostCalculator(decimal.Zero, dec("99"), decimal.Zero, dec("99"))
	assert.True(t, got.IsZero())
}

// Replay secuencial: el promedio móvil se aplica recepción por recepción.
func TestCostCalculator_ReplaySecuencial(t *testing.T) {
	stock := decimal.Zero
	cost := decimal.Zero

	recepciones := []struct{ qty, unitCost string }{
		{"10", "100"}, // promedio 100
		{"10", "200"}, // promedio 150
		{"20", "150"}, // promedio 150
	}
	for _, r := range recepciones {
		cost = inventory.CostCalculator(stock, cost, dec(r.qty), dec(r.unitCost))
		stock = stock.Add(dec(r.qty))
	}

	assert.True(t, stock.Equal(dec("40")))
	assert.True(t, cost.Equal(dec("150")), "promedio final 150, fue %s", cost)
}
