package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var _ repository.BillRepository = (*BillRepo)(nil)

// BillRepo implementación de BillRepository sobre PostgreSQL (usable con pool o tx).
// Solo lectura: las facturas se crean en el subsistema de compras.
type BillRepo struct {
	q Querier
}

// NewBillRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillRepository(q Querier) *BillRepo {
	return &BillRepo{q: q}
}

// GetByID obtiene una factura por ID.
func (r *BillRepo) GetByID(id string) (*entity.Bill, error) {
	query := `
		SELECT id, company_id, bill_number, supplier_name, date, total, created_at
		FROM bills WHERE id = $1`
	var b entity.Bill
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.CompanyID, &b.BillNumber, &b.SupplierName, &b.Date, &b.Total, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	return &b, nil
}

// ListLines lista las líneas de una factura en su orden original.
func (r *BillRepo) ListLines(billID string) ([]*entity.BillLine, error) {
	query := `
		SELECT id, bill_id, item_id, description, amount
		FROM bill_lines WHERE bill_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, billID)
	if err != nil {
		return nil, fmt.Errorf("list bill lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.BillLine
	for rows.Next() {
		var l entity.BillLine
		var itemID *string
		if err := rows.Scan(&l.ID, &l.BillID, &itemID, &l.Description, &l.Amount); err != nil {
			return nil, fmt.Errorf("scan bill line: %w", err)
		}
		if itemID != nil {
			l.ItemID = *itemID
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
