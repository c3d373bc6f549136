package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para movimientos
// de inventario (DIP). Las recepciones se crean en el subsistema de compras;
// el motor las lee y sobreescribe su costo al contabilizar.
type StockMovementRepository interface {
	GetByID(id string) (*entity.StockMovement, error)
	ListByIDs(ids []string) ([]*entity.StockMovement, error)
	// ListInboundByItem lista las recepciones (type=in) de un artículo en orden
	// cronológico, para reconstruir el costo promedio ponderado.
	ListInboundByItem(companyID, itemID string) ([]*entity.StockMovement, error)
	// UpdateCost sobreescribe el costo unitario y total de una recepción.
	UpdateCost(id string, unitCost, totalCost decimal.Decimal) error
}
