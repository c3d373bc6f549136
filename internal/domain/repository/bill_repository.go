package repository

import "github.com/jhoicas/Costeo-api/internal/domain/entity"

// BillRepository define el puerto de lectura de facturas de proveedor (DIP).
// Las facturas se crean en otro subsistema; el motor solo las referencia.
type BillRepository interface {
	GetByID(id string) (*entity.Bill, error)
	ListLines(billID string) ([]*entity.BillLine, error)
}
