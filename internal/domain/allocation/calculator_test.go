package allocation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costeo-api/internal/domain/allocation"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func poolOf(amounts ...string) []allocation.PoolEntry {
	pool := make([]allocation.PoolEntry, 0, len(amounts))
	for i, a := range amounts {
		pool = append(pool, allocation.PoolEntry{
			VoucherBillID: string(rune('a' + i)),
			BillID:        string(rune('A' + i)),
			Amount:        dec(a),
		})
	}
	return pool
}

func target(id, qty, originalCost string) allocation.Target {
	return allocation.Target{
		VoucherItemID:   id,
		StockMovementID: "mov-" + id,
		ItemID:          "item-" + id,
		Quantity:        dec(qty),
		OriginalCost:    dec(originalCost),
	}
}

// sumAllocated suma las porciones asignadas.
func sumAllocated(results []allocation.Result) decimal.Decimal {
	total := decimal.Zero
	for _, r := range results {
		total = total.Add(r.AllocatedCost)
	}
	return total
}

// ──────────────────────────────────────────────────────────────────────────────
// Distribución por valor
// ──────────────────────────────────────────────────────────────────────────────

// Pool de 300 distribuido por valor entre dos recepciones de 1000 y 2000:
// la primera recibe 100 (1/3) y la segunda 200 (2/3).
func TestAllocate_PorValor_ProporcionalAlCostoOriginal(t *testing.T) {
	pool := poolOf("300")
	targets := []allocation.Target{
		target("t1", "10", "1000"),
		target("t2", "5", "2000"),
	}

	results := allocation.Allocate(pool, targets, entity.AllocationMethodByValue)
	require.Len(t, results, 2)

	assert.True(t, results[0].AllocatedCost.Equal(dec("100")),
		"t1 debe recibir 100, recibió %s", results[0].AllocatedCost)
	assert.True(t, results[1].AllocatedCost.Equal(dec("200")),
		"t2 debe recibir 200, recibió %s", results[1].AllocatedCost)

	// Nuevo costo unitario: (original + asignado) / cantidad
	assert.True(t, results[0].NewUnitCost.Equal(dec("110")),
		"t1: (1000+100)/10 = 110, fue %s", results[0].NewUnitCost)
	assert.True(t, results[1].NewUnitCost.Equal(dec("440")),
		"t2: (2000+200)/5 = 440, fue %s", results[1].NewUnitCost)
}

// ──────────────────────────────────────────────────────────────────────────────
// Distribución por cantidad
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocate_PorCantidad_ProporcionalALasUnidades(t *testing.T) {
	pool := poolOf("300")
	targets := []allocation.Target{
		target("t1", "10", "1000"),
		target("t2", "5", "2000"),
	}

	results := allocation.Allocate(pool, targets, entity.AllocationMethodByQuantity)
	require.Len(t, results, 2)

	// 10 de 15 unidades -> 200; 5 de 15 -> 100
	assert.True(t, results[0].AllocatedCost.Equal(dec("200")))
	assert.True(t, results[1].AllocatedCost.Equal(dec("100")))
	assert.True(t, results[0].NewUnitCost.Equal(dec("120")), "(1000+200)/10")
	assert.True(t, results[1].NewUnitCost.Equal(dec("420")), "(2000+100)/5")
}

// ──────────────────────────────────────────────────────────────────────────────
// Estados degenerados
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocate_PoolVacio_RetornaNil(t *testing.T) {
	targets := []allocation.Target{target("t1", "10", "1000")}
	assert.Nil(t, allocation.Allocate(nil, targets, entity.AllocationMethodByValue))
	assert.Nil(t, allocation.Allocate(poolOf("0"), targets, entity.AllocationMethodByValue))
}

func TestAllocate_SinRecepciones_RetornaNil(t *testing.T) {
	assert.Nil(t, allocation.Allocate(poolOf("300"), nil, entity.AllocationMethodByValue))
}

func TestAllocate_BaseTotalCero_RetornaNil(t *testing.T) {
	// Por valor con todas las recepciones en costo cero: no hay base de prorrateo.
	targets := []allocation.Target{
		target("t1", "10", "0"),
		target("t2", "5", "0"),
	}
	assert.Nil(t, allocation.Allocate(poolOf("300"), targets, entity.AllocationMethodByValue))
}

func TestAllocate_CantidadCero_CostoUnitarioCero(t *testing.T) {
	// Una recepción con cantidad cero recibe costo por valor, pero su costo
	// unitario no se puede derivar: queda en cero en vez de dividir por cero.
	pool := poolOf("100")
	targets := []allocation.Target{
		target("t1", "0", "500"),
		target("t2", "10", "500"),
	}
	results := allocation.Allocate(pool, targets, entity.AllocationMethodByValue)
	require.Len(t, results, 2)
	assert.True(t, results[0].AllocatedCost.Equal(dec("50")))
	assert.True(t, results[0].NewUnitCost.IsZero())
	assert.True(t, results[1].NewUnitCost.Equal(dec("55")), "(500+50)/10")
}

// ──────────────────────────────────────────────────────────────────────────────
// Conservación del pool y residuo de redondeo
// ──────────────────────────────────────────────────────────────────────────────

// 100 entre tres recepciones iguales: 33.33 + 33.33 + 33.34. La suma de lo
// asignado debe ser exactamente el total del pool, sin perder ni un centavo.
func TestAllocate_ResiduoDeRedondeo_AbsorbidoPorLaUltima(t *testing.T) {
	pool := poolOf("100")
	targets := []allocation.Target{
		target("t1", "1", "10"),
		target("t2", "1", "10"),
		target("t3", "1", "10"),
	}

	results := allocation.Allocate(pool, targets, entity.AllocationMethodByValue)
	require.Len(t, results, 3)

	assert.True(t, results[0].AllocatedCost.Equal(dec("33.33")))
	assert.True(t, results[1].AllocatedCost.Equal(dec("33.33")))
	assert.True(t, results[2].AllocatedCost.Equal(dec("33.34")), "la última absorbe el residuo")
	assert.True(t, sumAllocated(results).Equal(dec("100")),
		"Σ asignado debe igualar el pool exacto")
}

// El residuo va a la última recepción CON base; una recepción final con base
// cero no debe quedarse con el sobrante.
func TestAllocate_UltimaRecepcionSinBase_NoAbsorbeResiduo(t *testing.T) {
	pool := poolOf("100")
	targets := []allocation.Target{
		target("t1", "1", "10"),
		target("t2", "1", "10"),
		target("t3", "1", "10"),
		target("t4", "1", "0"), // sin base por valor
	}

	results := allocation.Allocate(pool, targets, entity.AllocationMethodByValue)
	require.Len(t, results, 4)

	assert.True(t, results[2].AllocatedCost.Equal(dec("33.34")))
	assert.True(t, results[3].AllocatedCost.IsZero())
	assert.True(t, sumAllocated(results).Equal(dec("100")))
}

func TestAllocate_PoolMultiFactura_SumaTodasLasEntradas(t *testing.T) {
	pool := poolOf("120.50", "79.50")
	targets := []allocation.Target{
		target("t1", "4", "400"),
		target("t2", "6", "600"),
	}

	results := allocation.Allocate(pool, targets, entity.AllocationMethodByValue)
	require.Len(t, results, 2)
	assert.True(t, results[0].AllocatedCost.Equal(dec("80")), "200*0.4")
	assert.True(t, results[1].AllocatedCost.Equal(dec("120")), "200*0.6")
	assert.True(t, sumAllocated(results).Equal(dec("200")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Determinismo
// ──────────────────────────────────────────────────────────────────────────────

// Mismos insumos, mismos resultados: la previsualización puede repetirse
// cualquier número de veces sin variar.
func TestAllocate_Determinista(t *testing.T) {
	pool := poolOf("333.33")
	targets := []allocation.Target{
		target("t1", "7", "123.45"),
		target("t2", "3", "678.90"),
		target("t3", "11", "0.01"),
	}

	first := allocation.Allocate(pool, targets, entity.AllocationMethodByValue)
	for i := 0; i < 5; i++ {
		again := allocation.Allocate(pool, targets, entity.AllocationMethodByValue)
		require.Len(t, again, len(first))
		for j := range first {
			assert.True(t, first[j].AllocatedCost.Equal(again[j].AllocatedCost))
			assert.True(t, first[j].NewUnitCost.Equal(again[j].NewUnitCost))
		}
	}
	assert.True(t, sumAllocated(first).Equal(dec("333.33")))
}

// Pool diminuto frente a muchas recepciones iguales: 0.03 entre 6 da porciones
// de 0.005 que el redondeo half-up sube a 0.01. Sin la cota al restante, las
// primeras cinco sobregirarían el pool y la última quedaría en -0.02.
func TestAllocate_PoolDiminuto_NingunaPorcionNegativa(t *testing.T) {
	pool := poolOf("0.03")
	targets := []allocation.Target{
		target("t1", "10", "10"),
		target("t2", "10", "10"),
		target("t3", "10", "10"),
		target("t4", "10", "10"),
		target("t5", "10", "10"),
		target("t6", "10", "10"),
	}

	results := allocation.Allocate(pool, targets, entity.AllocationMethodByQuantity)
	require.Len(t, results, 6)

	for _, r := range results {
		assert.False(t, r.AllocatedCost.IsNegative(),
			"porción negativa en %s: %s", r.VoucherItemID, r.AllocatedCost)
	}
	assert.True(t, results[0].AllocatedCost.Equal(dec("0.01")))
	assert.True(t, results[5].AllocatedCost.IsZero(),
		"el pool se agota antes de la última recepción; su residuo no baja de cero")
	assert.True(t, sumAllocated(results).Equal(dec("0.03")))
}

func TestPoolTotal_SumaMontos(t *testing.T) {
	assert.True(t, allocation.PoolTotal(poolOf("1.10", "2.20", "3.30")).Equal(dec("6.60")))
	assert.True(t, allocation.PoolTotal(nil).IsZero())
}
