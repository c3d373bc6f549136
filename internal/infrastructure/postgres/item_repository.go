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

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, company_id, sku, name, cost, inventory_account_id, cost_account_id, created_at, updated_at`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	var invAccount, costAccount *string
	err := row.Scan(&it.ID, &it.CompanyID, &it.SKU, &it.Name, &it.Cost,
		&invAccount, &costAccount, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if invAccount != nil {
		it.InventoryAccountID = *invAccount
	}
	if costAccount != nil {
		it.CostAccountID = *costAccount
	}
	return &it, nil
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	it, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// ListByIDs obtiene varios artículos; retorna solo los que existen.
func (r *ItemRepo) ListByIDs(ids []string) ([]*entity.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("list items by ids: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// UpdateCost actualiza el costo promedio ponderado del artículo.
func (r *ItemRepo) UpdateCost(itemID string, cost decimal.Decimal) error {
	query := `UPDATE items SET cost = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, itemID, cost)
	if err != nil {
		return fmt.Errorf("update item cost: %w", err)
	}
	return nil
}
