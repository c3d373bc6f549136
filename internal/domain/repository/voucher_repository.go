package repository

import (
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// VoucherRepository define el puerto de persistencia para comprobantes de
// costos en destino y sus filas anidadas (pool y recepciones) (DIP).
type VoucherRepository interface {
	Create(voucher *entity.Voucher) error
	GetByID(id string) (*entity.Voucher, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Voucher, error)
	CountByCompany(companyID string) (int, error)

	AddBill(vb *entity.VoucherBill) error
	ListBills(voucherID string) ([]*entity.VoucherBill, error)

	AddItem(vi *entity.VoucherItem) error
	ListItems(voucherID string) ([]*entity.VoucherItem, error)
	// UpdateItemAllocation persiste el resultado recalculado de una recepción
	// (foto de costo original, costo asignado y nuevo costo unitario).
	UpdateItemAllocation(vi *entity.VoucherItem) error

	// MarkPosted hace el flip condicional draft→posted en una sola sentencia
	// (UPDATE ... WHERE status='draft'). Retorna false si el comprobante ya no
	// estaba en draft: así exactamente una contabilización concurrente gana.
	MarkPosted(id string) (bool, error)
}
