package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un comprobante de costos en destino.
// draft → posted, sin transición inversa: una vez contabilizado es inmutable.
const (
	VoucherStatusDraft  = "draft"
	VoucherStatusPosted = "posted"
)

// Métodos de distribución del pool de costos entre las recepciones.
const (
	AllocationMethodByValue    = "by_value"    // proporcional al costo original de la recepción
	AllocationMethodByQuantity = "by_quantity" // proporcional a la cantidad recibida
)

// Voucher es un comprobante de costos en destino: agrupa un pool de costos
// indirectos (fletes, aduana, manipulación) tomado de facturas de proveedor y
// lo distribuye entre recepciones de inventario.
type Voucher struct {
	ID               string
	CompanyID        string
	VoucherNumber    string // consecutivo legible, ej. LCV-2026-0001
	Date             time.Time
	Description      string
	AllocationMethod string // by_value | by_quantity
	Status           string // draft | posted
	CreatedBy        string // UserID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsPosted indica si el comprobante alcanzó su estado terminal.
func (v *Voucher) IsPosted() bool {
	return v.Status == VoucherStatusPosted
}

// VoucherBill es una entrada del pool de costos: referencia una factura de
// proveedor y el monto de esa factura que se distribuirá (puede ser parcial).
type VoucherBill struct {
	ID        string
	VoucherID string
	BillID    string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// VoucherItem es una recepción destino de la distribución. OriginalCost es una
// foto del costo total de la recepción; AllocatedCost y NewUnitCost se
// recalculan en cada previsualización y quedan definitivos al contabilizar.
type VoucherItem struct {
	ID              string
	VoucherID       string
	StockMovementID string
	OriginalCost    decimal.Decimal
	AllocatedCost   decimal.Decimal
	NewUnitCost     decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
