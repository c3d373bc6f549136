package voucher

import (
	"context"

	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que las mutaciones de la
// contabilización (costos de recepciones, asiento, flip de estado) se apliquen
// todas o ninguna.
type TxRunner interface {
	RunPosting(ctx context.Context, fn func(
		voucherRepo repository.VoucherRepository,
		movementRepo repository.StockMovementRepository,
		itemRepo repository.ItemRepository,
		billRepo repository.BillRepository,
		journalRepo repository.JournalRepository,
	) error) error
}

// WACRecalculator puerto al recalculador de costo promedio ponderado
// (colaborador externo). Se invoca una vez por artículo afectado, después del
// commit de la contabilización.
type WACRecalculator interface {
	Recalculate(ctx context.Context, companyID, itemID string) error
}
