package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para artículos (DIP).
type ItemRepository interface {
	GetByID(id string) (*entity.Item, error)
	ListByIDs(ids []string) ([]*entity.Item, error)
	// UpdateCost actualiza el costo promedio ponderado del artículo.
	UpdateCost(itemID string, cost decimal.Decimal) error
}
