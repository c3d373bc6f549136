package allocation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/allocation"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func testVoucher() *entity.Voucher {
	return &entity.Voucher{
		ID:            "v-1",
		CompanyID:     "co-1",
		VoucherNumber: "LCV-2026-0001",
		Status:        entity.VoucherStatusDraft,
	}
}

func debit(itemID, account, allocated string) allocation.DebitTarget {
	return allocation.DebitTarget{
		ItemID:             itemID,
		ItemName:           "Artículo " + itemID,
		InventoryAccountID: account,
		AllocatedCost:      dec(allocated),
	}
}

func credit(billID, amount string, lines ...allocation.CreditLine) allocation.CreditSource {
	return allocation.CreditSource{
		BillID:     billID,
		BillNumber: "F-" + billID,
		Amount:     dec(amount),
		Lines:      lines,
	}
}

func creditLine(account, amount string) allocation.CreditLine {
	return allocation.CreditLine{CostAccountID: account, Amount: dec(amount)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Asiento balanceado
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildEntry_AsientoBalanceado(t *testing.T) {
	now := time.Now()
	entry, err := allocation.BuildEntry(testVoucher(),
		[]allocation.DebitTarget{
			debit("i1", "acc-inv-1", "100"),
			debit("i2", "acc-inv-2", "200"),
		},
		[]allocation.CreditSource{
			credit("b1", "300", creditLine("acc-cost-1", "300")),
		},
		"user-1", now)
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Equal(t, "co-1", entry.CompanyID)
	assert.Equal(t, entity.JournalSourceLandedCost, entry.SourceType)
	assert.Equal(t, "v-1", entry.SourceID)
	assert.Equal(t, "user-1", entry.CreatedBy)
	require.Len(t, entry.Lines, 3)

	assert.True(t, entry.DebitTotal().Equal(dec("300")))
	assert.True(t, entry.CreditTotal().Equal(dec("300")), "partida doble: débito == crédito")
}

// Un débito en cero o negativo no genera línea (la recepción no recibió costo).
func TestBuildEntry_DebitosSinMonto_SeOmiten(t *testing.T) {
	entry, err := allocation.BuildEntry(testVoucher(),
		[]allocation.DebitTarget{
			debit("i1", "acc-inv-1", "150"),
			debit("i2", "acc-inv-2", "0"),
			debit("i3", "", "-5"), // sin cuenta, pero tampoco tiene monto: no falla
		},
		[]allocation.CreditSource{
			credit("b1", "150", creditLine("acc-cost-1", "150")),
		},
		"user-1", time.Now())
	require.NoError(t, err)
	require.Len(t, entry.Lines, 2)
	assert.True(t, entry.DebitTotal().Equal(dec("150")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Mapeo de cuentas incompleto: fallo duro
// ──────────────────────────────────────────────────────────────────────────────

// Un artículo con costo asignado y sin cuenta de inventario aborta la
// construcción: omitirlo en silencio descuadraría el asiento.
func TestBuildEntry_ArticuloSinCuentaInventario_Error(t *testing.T) {
	_, err := allocation.BuildEntry(testVoucher(),
		[]allocation.DebitTarget{debit("i1", "", "100")},
		[]allocation.CreditSource{credit("b1", "100", creditLine("acc-cost-1", "100"))},
		"user-1", time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIncompleteAccountMapping)
}

// Una factura del pool sin NINGUNA línea mapeada también aborta.
func TestBuildEntry_FacturaSinLineaMapeada_Error(t *testing.T) {
	_, err := allocation.BuildEntry(testVoucher(),
		[]allocation.DebitTarget{debit("i1", "acc-inv-1", "100")},
		[]allocation.CreditSource{credit("b1", "100", creditLine("", "100"))},
		"user-1", time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIncompleteAccountMapping)
}

// ──────────────────────────────────────────────────────────────────────────────
// Prorrateo del crédito entre líneas mapeadas
// ──────────────────────────────────────────────────────────────────────────────

// El crédito de una factura se reparte entre TODAS sus líneas mapeadas en
// proporción a su monto, no solo a la primera.
func TestBuildEntry_CreditoProrrateadoEntreLineas(t *testing.T) {
	entry, err := allocation.BuildEntry(testVoucher(),
		[]allocation.DebitTarget{debit("i1", "acc-inv-1", "300")},
		[]allocation.CreditSource{
			credit("b1", "300",
				creditLine("acc-cost-1", "100"),
				creditLine("acc-cost-2", "200"),
			),
		},
		"user-1", time.Now())
	require.NoError(t, err)
	require.Len(t, entry.Lines, 3)

	assert.True(t, entry.Lines[1].Credit.Equal(dec("100")), "1/3 del crédito")
	assert.True(t, entry.Lines[2].Credit.Equal(dec("200")), "2/3 del crédito")
	assert.True(t, entry.DebitTotal().Equal(entry.CreditTotal()))
}

// Las líneas sin cuenta no participan del prorrateo; el monto completo se
// reparte entre las mapeadas y el asiento sigue balanceado.
func TestBuildEntry_LineasSinCuenta_NoParticipan(t *testing.T) {
	entry, err := allocation.BuildEntry(testVoucher(),
		[]allocation.DebitTarget{debit("i1", "acc-inv-1", "200")},
		[]allocation.CreditSource{
			credit("b1", "200",
				creditLine("", "500"), // sin mapear, se ignora
				creditLine("acc-cost-1", "100"),
				creditLine("acc-cost-2", "100"),
			),
		},
		"user-1", time.Now())
	require.NoError(t, err)
	require.Len(t, entry.Lines, 3)
	assert.True(t, entry.Lines[1].Credit.Equal(dec("100")))
	assert.True(t, entry.Lines[2].Credit.Equal(dec("100")))
	assert.True(t, entry.CreditTotal().Equal(dec("200")))
}

// Residuo del prorrateo de crédito: tres líneas iguales repartiendo 100.
func TestBuildEntry_ResiduoDeCredito_EnLaUltimaLinea(t *testing.T) {
	entry, err := allocation.BuildEntry(testVoucher(),
		[]allocation.DebitTarget{debit("i1", "acc-inv-1", "100")},
		[]allocation.CreditSource{
			credit("b1", "100",
				creditLine("acc-cost-1", "10"),
				creditLine("acc-cost-2", "10"),
				creditLine("acc-cost-3", "10"),
			),
		},
		"user-1", time.Now())
	require.NoError(t, err)
	require.Len(t, entry.Lines, 4)
	assert.True(t, entry.Lines[1].Credit.Equal(dec("33.33")))
	assert.True(t, entry.Lines[2].Credit.Equal(dec("33.33")))
	assert.True(t, entry.Lines[3].Credit.Equal(dec("33.34")), "residuo en la última")
	assert.True(t, entry.DebitTotal().Equal(entry.CreditTotal()))
}

// Crédito diminuto entre muchas líneas iguales: 0.03 entre 6 líneas redondea
// cada porción a 0.01. La cota al restante evita que la última línea reciba
// un crédito negativo; las porciones en cero no generan línea.
func TestBuildEntry_CreditoDiminuto_SinLineasNegativas(t *testing.T) {
	entry, err := allocation.BuildEntry(testVoucher(),
		[]allocation.DebitTarget{debit("i1", "acc-inv-1", "0.03")},
		[]allocation.CreditSource{
			credit("b1", "0.03",
				creditLine("acc-cost-1", "10"),
				creditLine("acc-cost-2", "10"),
				creditLine("acc-cost-3", "10"),
				creditLine("acc-cost-4", "10"),
				creditLine("acc-cost-5", "10"),
				creditLine("acc-cost-6", "10"),
			),
		},
		"user-1", time.Now())
	require.NoError(t, err)

	for _, l := range entry.Lines {
		assert.False(t, l.Credit.IsNegative(), "línea de crédito negativa: %s", l.Credit)
	}
	require.Len(t, entry.Lines, 4, "1 débito + 3 créditos de 0.01")
	assert.True(t, entry.CreditTotal().Equal(dec("0.03")))
	assert.True(t, entry.DebitTotal().Equal(entry.CreditTotal()))
}

// Líneas mapeadas pero con monto cero: el crédito completo va a la primera.
func TestBuildEntry_LineasMapeadasSinMonto_CreditoALaPrimera(t *testing.T) {
	entry, err := allocation.BuildEntry(testVoucher(),
		[]allocation.DebitTarget{debit("i1", "acc-inv-1", "75")},
		[]allocation.CreditSource{
			credit("b1", "75",
				creditLine("acc-cost-1", "0"),
				creditLine("acc-cost-2", "0"),
			),
		},
		"user-1", time.Now())
	require.NoError(t, err)
	require.Len(t, entry.Lines, 2)
	assert.Equal(t, "acc-cost-1", entry.Lines[1].AccountID)
	assert.True(t, entry.Lines[1].Credit.Equal(dec("75")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Pool multi-factura
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildEntry_VariasFacturas_CadaUnaConSusCreditos(t *testing.T) {
	entry, err := allocation.BuildEntry(testVoucher(),
		[]allocation.DebitTarget{
			debit("i1", "acc-inv-1", "120"),
			debit("i2", "acc-inv-2", "80"),
		},
		[]allocation.CreditSource{
			credit("b1", "150", creditLine("acc-cost-1", "150")),
			credit("b2", "50", creditLine("acc-cost-2", "50")),
		},
		"user-1", time.Now())
	require.NoError(t, err)
	require.Len(t, entry.Lines, 4)
	assert.True(t, entry.DebitTotal().Equal(dec("200")))
	assert.True(t, entry.CreditTotal().Equal(dec("200")))
}

func TestBuildEntry_SinMovimientos_AsientoVacioBalanceado(t *testing.T) {
	entry, err := allocation.BuildEntry(testVoucher(), nil, nil, "user-1", time.Now())
	require.NoError(t, err)
	assert.Empty(t, entry.Lines)
	assert.True(t, entry.DebitTotal().IsZero())
	assert.True(t, entry.CreditTotal().IsZero())
}
