package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIn     = "in"     // recepción (entrada)
	MovementTypeOut    = "out"    // salida
	MovementTypeAdjust = "adjust" // ajuste
)

// StockMovement representa un movimiento de inventario. Para el motor de
// costos en destino interesan las recepciones (type = in): su costo unitario y
// total se sobreescriben al contabilizar el comprobante que las referencia.
// Invariante: TotalCost = Quantity * UnitCost (salvo redondeo).
type StockMovement struct {
	ID        string
	CompanyID string
	ItemID    string
	Type      string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	TotalCost decimal.Decimal
	Date      time.Time
	Reference string // factura de compra, orden, comprobante, etc.
	CreatedAt time.Time
	CreatedBy string // UserID
}
