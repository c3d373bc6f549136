package allocation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// DebitTarget insumo para la línea de débito de una recepción: el costo
// asignado entra al activo de inventario del artículo.
type DebitTarget struct {
	ItemID             string
	ItemName           string
	InventoryAccountID string // vacío = sin mapear
	AllocatedCost      decimal.Decimal
}

// CreditSource insumo para las líneas de crédito de una entrada del pool:
// el monto distribuido sale de las cuentas de costo de la factura origen.
type CreditSource struct {
	BillID     string
	BillNumber string
	Amount     decimal.Decimal
	Lines      []CreditLine
}

// CreditLine línea de la factura con la cuenta de costo del artículo referenciado.
type CreditLine struct {
	CostAccountID string // vacío = sin mapear
	Amount        decimal.Decimal
}

// BuildEntry construye el asiento de partida doble de un comprobante:
//
//	Débito:  cuenta de inventario de cada artículo, por el costo asignado.
//	Crédito: cuentas de costo de las facturas del pool, prorrateadas entre
//	         TODAS las líneas mapeadas en proporción a su monto (no solo la
//	         primera), con el residuo del redondeo en la última.
//
// Un artículo sin cuenta de inventario o una factura sin ninguna línea
// mapeada retorna ErrIncompleteAccountMapping: ningún monto se omite en
// silencio, porque una línea saltada descuadra el asiento.
//
// Función pura: el caller persiste el asiento retornado. Postcondición
// verificada: Σ débito == Σ crédito (si no, ErrUnbalancedEntry).
func BuildEntry(voucher *entity.Voucher, debits []DebitTarget, credits []CreditSource, actorID string, now time.Time) (*entity.JournalEntry, error) {
	entry := &entity.JournalEntry{
		CompanyID:   voucher.CompanyID,
		Date:        now,
		Description: fmt.Sprintf("Distribución de costos en destino: %s", voucher.VoucherNumber),
		SourceType:  entity.JournalSourceLandedCost,
		SourceID:    voucher.ID,
		CreatedBy:   actorID,
		CreatedAt:   now,
	}

	for _, d := range debits {
		if !d.AllocatedCost.GreaterThan(decimal.Zero) {
			continue
		}
		if d.InventoryAccountID == "" {
			return nil, fmt.Errorf("%w: artículo %s sin cuenta de inventario", domain.ErrIncompleteAccountMapping, d.ItemID)
		}
		entry.Lines = append(entry.Lines, entity.JournalLine{
			AccountID:   d.InventoryAccountID,
			Description: fmt.Sprintf("Costos en destino - %s", d.ItemName),
			Debit:       d.AllocatedCost,
			Credit:      decimal.Zero,
		})
	}

	for _, c := range credits {
		if !c.Amount.GreaterThan(decimal.Zero) {
			continue
		}
		lines, err := creditLines(c)
		if err != nil {
			return nil, err
		}
		entry.Lines = append(entry.Lines, lines...)
	}

	if !entry.DebitTotal().Equal(entry.CreditTotal()) {
		return nil, fmt.Errorf("%w: débito %s vs crédito %s", domain.ErrUnbalancedEntry,
			entry.DebitTotal().StringFixed(2), entry.CreditTotal().StringFixed(2))
	}
	return entry, nil
}

// creditLines prorratea el monto de una entrada del pool entre las líneas
// mapeadas de su factura, proporcional al monto de cada línea.
func creditLines(c CreditSource) ([]entity.JournalLine, error) {
	mapped := make([]CreditLine, 0, len(c.Lines))
	mappedTotal := decimal.Zero
	for _, l := range c.Lines {
		if l.CostAccountID == "" {
			continue
		}
		mapped = append(mapped, l)
		mappedTotal = mappedTotal.Add(l.Amount)
	}
	if len(mapped) == 0 {
		return nil, fmt.Errorf("%w: factura %s sin línea con cuenta de costo", domain.ErrIncompleteAccountMapping, c.BillID)
	}

	desc := fmt.Sprintf("Costos en destino - Factura %s", c.BillNumber)
	// Líneas mapeadas sin monto: todo el crédito a la primera.
	if mappedTotal.IsZero() {
		return []entity.JournalLine{{
			AccountID:   mapped[0].CostAccountID,
			Description: desc,
			Debit:       decimal.Zero,
			Credit:      c.Amount,
		}}, nil
	}

	out := make([]entity.JournalLine, 0, len(mapped))
	assigned := decimal.Zero
	for i, l := range mapped {
		var portion decimal.Decimal
		if i == len(mapped)-1 {
			portion = c.Amount.Sub(assigned)
		} else {
			portion = c.Amount.Mul(l.Amount).Div(mappedTotal).Round(2)
			// acotar al monto restante: el redondeo half-up no puede dejar
			// negativa la porción de la última línea
			if remaining := c.Amount.Sub(assigned); portion.GreaterThan(remaining) {
				portion = remaining
			}
		}
		assigned = assigned.Add(portion)
		if portion.IsZero() {
			continue
		}
		out = append(out, entity.JournalLine{
			AccountID:   l.CostAccountID,
			Description: desc,
			Debit:       decimal.Zero,
			Credit:      portion,
		})
	}
	return out, nil
}
