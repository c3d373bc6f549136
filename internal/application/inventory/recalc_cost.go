// Package inventory contiene el caso de uso de revalorización de artículos.
package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/inventory"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

// RecalcItemCostUseCase reconstruye el costo promedio ponderado de un artículo
// desde su historial completo de recepciones. Se invoca después de que una
// contabilización sobreescribe el costo de recepciones ya registradas.
//
// Lee datos ya confirmados, así que corre fuera de la transacción de
// contabilización: si el proceso cae entre el commit y el recálculo, el costo
// del artículo queda desactualizado hasta el siguiente recálculo (consistencia
// eventual aceptada, no invariante dura).
type RecalcItemCostUseCase struct {
	movementRepo repository.StockMovementRepository
	itemRepo     repository.ItemRepository
}

// NewRecalcItemCostUseCase construye el caso de uso.
func NewRecalcItemCostUseCase(movementRepo repository.StockMovementRepository, itemRepo repository.ItemRepository) *RecalcItemCostUseCase {
	return &RecalcItemCostUseCase{movementRepo: movementRepo, itemRepo: itemRepo}
}

// Recalculate reproduce las recepciones del artículo en orden cronológico
// aplicando el promedio ponderado móvil y actualiza Item.Cost.
func (uc *RecalcItemCostUseCase) Recalculate(ctx context.Context, companyID, itemID string) error {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return err
	}
	if item == nil || item.CompanyID != companyID {
		return domain.ErrNotFound
	}

	movements, err := uc.movementRepo.ListInboundByItem(companyID, itemID)
	if err != nil {
		return err
	}

	stock := decimal.Zero
	cost := decimal.Zero
	for _, m := range movements {
		cost = inventory.CostCalculator(stock, cost, m.Quantity, m.UnitCost)
		stock = stock.Add(m.Quantity)
	}
	return uc.itemRepo.UpdateCost(itemID, cost)
}
