package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de origen de un asiento contable.
const (
	JournalSourceLandedCost = "landed_cost"
)

// JournalEntry es un asiento contable de partida doble. Se crea una sola vez
// al contabilizar un comprobante y nunca se muta después.
// Invariantes: Σ débito = Σ crédito y al menos dos líneas.
type JournalEntry struct {
	ID          string
	CompanyID   string
	Date        time.Time
	Description string
	SourceType  string // landed_cost
	SourceID    string // ID del comprobante origen
	Lines       []JournalLine
	CreatedBy   string
	CreatedAt   time.Time
}

// JournalLine es una línea del asiento: debita o acredita una cuenta, nunca
// ambas y nunca montos negativos.
type JournalLine struct {
	ID          string
	EntryID     string
	AccountID   string
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// DebitTotal suma los débitos del asiento.
func (e *JournalEntry) DebitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// CreditTotal suma los créditos del asiento.
func (e *JournalEntry) CreditTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}
	return total
}
