package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, company_id, item_id, type, quantity, unit_cost, total_cost, date, reference, created_at, created_by`

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var createdBy *string
	err := row.Scan(&m.ID, &m.CompanyID, &m.ItemID, &m.Type,
		&m.Quantity, &m.UnitCost, &m.TotalCost, &m.Date, &m.Reference, &m.CreatedAt, &createdBy)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByIDs obtiene varios movimientos; retorna solo los que existen.
func (r *StockMovementRepo) ListByIDs(ids []string) ([]*entity.StockMovement, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("list movements by ids: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListInboundByItem lista las recepciones de un artículo en orden cronológico,
// insumo del recálculo de costo promedio ponderado.
func (r *StockMovementRepo) ListInboundByItem(companyID, itemID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE company_id = $1 AND item_id = $2 AND type = $3
		ORDER BY date, created_at`
	rows, err := r.q.Query(context.Background(), query, companyID, itemID, entity.MovementTypeIn)
	if err != nil {
		return nil, fmt.Errorf("list inbound movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// UpdateCost sobreescribe el costo unitario y total de una recepción
// (contabilización de costos en destino).
func (r *StockMovementRepo) UpdateCost(id string, unitCost, totalCost decimal.Decimal) error {
	query := `UPDATE stock_movements SET unit_cost = $2, total_cost = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, unitCost, totalCost)
	if err != nil {
		return fmt.Errorf("update movement cost: %w", err)
	}
	return nil
}
