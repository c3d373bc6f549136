package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item es un artículo de inventario. Cost es el costo promedio ponderado
// vigente, recalculado a partir del historial de recepciones. Las cuentas
// contables configuradas determinan el débito (inventario, activo) y el
// crédito (costo/gasto) en los asientos de distribución.
type Item struct {
	ID                 string
	CompanyID          string
	SKU                string
	Name               string
	Cost               decimal.Decimal // costo promedio ponderado
	InventoryAccountID string          // cuenta de activo (inventario); vacío = sin mapear
	CostAccountID      string          // cuenta de costo/gasto; vacío = sin mapear
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
