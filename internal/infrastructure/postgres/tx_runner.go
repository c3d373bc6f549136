package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Costeo-api/internal/application/voucher"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

// Ensure TxRunner implements voucher.TxRunner.
var _ voucher.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunPosting inicia una transacción, ejecuta fn con los repositorios de la
// contabilización atados a la tx y hace Commit o Rollback. Las N
// actualizaciones de recepciones, el asiento y el flip de estado se confirman
// juntos o no se confirma ninguno.
func (r *TxRunner) RunPosting(ctx context.Context, fn func(
	voucherRepo repository.VoucherRepository,
	movementRepo repository.StockMovementRepository,
	itemRepo repository.ItemRepository,
	billRepo repository.BillRepository,
	journalRepo repository.JournalRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	voucherRepo := NewVoucherRepository(tx)
	movementRepo := NewStockMovementRepository(tx)
	itemRepo := NewItemRepository(tx)
	billRepo := NewBillRepository(tx)
	journalRepo := NewJournalRepository(tx)

	if err := fn(voucherRepo, movementRepo, itemRepo, billRepo, journalRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
