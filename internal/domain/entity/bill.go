package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill es una factura de proveedor (fuente del pool de costos).
type Bill struct {
	ID           string
	CompanyID    string
	BillNumber   string
	SupplierName string
	Date         time.Time
	Total        decimal.Decimal
	CreatedAt    time.Time
}

// BillLine es una línea de la factura. El artículo referenciado aporta la
// cuenta de costo que se acredita al distribuir el monto de la factura.
type BillLine struct {
	ID          string
	BillID      string
	ItemID      string
	Description string
	Amount      decimal.Decimal
}
