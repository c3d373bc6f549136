package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var _ repository.VoucherRepository = (*VoucherRepo)(nil)

// VoucherRepo implementación de VoucherRepository sobre PostgreSQL (usable con pool o tx).
type VoucherRepo struct {
	q Querier
}

// NewVoucherRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVoucherRepository(q Querier) *VoucherRepo {
	return &VoucherRepo{q: q}
}

// Create persiste un comprobante en draft. Una colisión del índice único de
// voucher_number retorna ErrConflict para que el caso de uso reintente.
func (r *VoucherRepo) Create(v *entity.Voucher) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	query := `
		INSERT INTO vouchers (id, company_id, voucher_number, date, description, allocation_method, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		v.ID, v.CompanyID, v.VoucherNumber, v.Date, v.Description,
		v.AllocationMethod, v.Status, v.CreatedBy, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create voucher: %w", err)
	}
	return nil
}

// GetByID obtiene un comprobante por ID.
func (r *VoucherRepo) GetByID(id string) (*entity.Voucher, error) {
	query := `
		SELECT id, company_id, voucher_number, date, description, allocation_method, status, created_by, created_at, updated_at
		FROM vouchers WHERE id = $1`
	var v entity.Voucher
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&v.ID, &v.CompanyID, &v.VoucherNumber, &v.Date, &v.Description,
		&v.AllocationMethod, &v.Status, &v.CreatedBy, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	return &v, nil
}

// ListByCompany lista comprobantes de una empresa, más recientes primero.
func (r *VoucherRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Voucher, error) {
	query := `
		SELECT id, company_id, voucher_number, date, description, allocation_method, status, created_by, created_at, updated_at
		FROM vouchers WHERE company_id = $1
		ORDER BY date DESC, created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Voucher
	for rows.Next() {
		var v entity.Voucher
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.VoucherNumber, &v.Date, &v.Description,
			&v.AllocationMethod, &v.Status, &v.CreatedBy, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// CountByCompany cuenta comprobantes de la empresa (para el consecutivo).
func (r *VoucherRepo) CountByCompany(companyID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM vouchers WHERE company_id = $1`, companyID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count vouchers: %w", err)
	}
	return count, nil
}

// AddBill agrega una entrada del pool.
func (r *VoucherRepo) AddBill(vb *entity.VoucherBill) error {
	if vb.ID == "" {
		vb.ID = uuid.New().String()
	}
	query := `
		INSERT INTO voucher_bills (id, voucher_id, bill_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query, vb.ID, vb.VoucherID, vb.BillID, vb.Amount, vb.CreatedAt)
	if err != nil {
		return fmt.Errorf("add voucher bill: %w", err)
	}
	return nil
}

// ListBills lista las entradas del pool de un comprobante.
func (r *VoucherRepo) ListBills(voucherID string) ([]*entity.VoucherBill, error) {
	query := `
		SELECT id, voucher_id, bill_id, amount, created_at
		FROM voucher_bills WHERE voucher_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, voucherID)
	if err != nil {
		return nil, fmt.Errorf("list voucher bills: %w", err)
	}
	defer rows.Close()
	var list []*entity.VoucherBill
	for rows.Next() {
		var vb entity.VoucherBill
		if err := rows.Scan(&vb.ID, &vb.VoucherID, &vb.BillID, &vb.Amount, &vb.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan voucher bill: %w", err)
		}
		list = append(list, &vb)
	}
	return list, rows.Err()
}

// AddItem agrega una recepción destino.
func (r *VoucherRepo) AddItem(vi *entity.VoucherItem) error {
	if vi.ID == "" {
		vi.ID = uuid.New().String()
	}
	query := `
		INSERT INTO voucher_items (id, voucher_id, stock_movement_id, original_cost, allocated_cost, new_unit_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		vi.ID, vi.VoucherID, vi.StockMovementID,
		vi.OriginalCost, vi.AllocatedCost, vi.NewUnitCost, vi.CreatedAt, vi.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("add voucher item: %w", err)
	}
	return nil
}

// ListItems lista las recepciones destino de un comprobante.
func (r *VoucherRepo) ListItems(voucherID string) ([]*entity.VoucherItem, error) {
	query := `
		SELECT id, voucher_id, stock_movement_id, original_cost, allocated_cost, new_unit_cost, created_at, updated_at
		FROM voucher_items WHERE voucher_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, voucherID)
	if err != nil {
		return nil, fmt.Errorf("list voucher items: %w", err)
	}
	defer rows.Close()
	var list []*entity.VoucherItem
	for rows.Next() {
		var vi entity.VoucherItem
		if err := rows.Scan(&vi.ID, &vi.VoucherID, &vi.StockMovementID,
			&vi.OriginalCost, &vi.AllocatedCost, &vi.NewUnitCost, &vi.CreatedAt, &vi.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan voucher item: %w", err)
		}
		list = append(list, &vi)
	}
	return list, rows.Err()
}

// UpdateItemAllocation persiste la distribución recalculada de una recepción.
func (r *VoucherRepo) UpdateItemAllocation(vi *entity.VoucherItem) error {
	query := `
		UPDATE voucher_items
		SET original_cost = $2, allocated_cost = $3, new_unit_cost = $4, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, vi.ID, vi.OriginalCost, vi.AllocatedCost, vi.NewUnitCost)
	if err != nil {
		return fmt.Errorf("update voucher item allocation: %w", err)
	}
	return nil
}

// MarkPosted flip condicional draft→posted en una sola sentencia. Dos
// contabilizaciones concurrentes compiten por esta fila: la primera la
// bloquea y actualiza; la segunda espera el commit y ve 0 filas afectadas.
func (r *VoucherRepo) MarkPosted(id string) (bool, error) {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE vouchers SET status = $2, updated_at = now() WHERE id = $1 AND status = $3`,
		id, entity.VoucherStatusPosted, entity.VoucherStatusDraft)
	if err != nil {
		return false, fmt.Errorf("mark voucher posted: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
