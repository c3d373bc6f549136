package dto

import "github.com/shopspring/decimal"

// CreateVoucherRequest body para POST /api/vouchers.
type CreateVoucherRequest struct {
	Date             string `json:"date"` // YYYY-MM-DD
	Description      string `json:"description"`
	AllocationMethod string `json:"allocation_method,omitempty"` // by_value | by_quantity (por defecto by_value)
}

// AddVoucherBillRequest body para POST /api/vouchers/:id/bills.
// Amount puede ser menor al total de la factura (distribución parcial).
type AddVoucherBillRequest struct {
	BillID string          `json:"bill_id"`
	Amount decimal.Decimal `json:"amount"`
}

// AddVoucherItemsRequest body para POST /api/vouchers/:id/items.
type AddVoucherItemsRequest struct {
	StockMovementIDs []string `json:"stock_movement_ids"`
}

// VoucherBillResponse una entrada del pool en la respuesta.
type VoucherBillResponse struct {
	ID     string          `json:"id"`
	BillID string          `json:"bill_id"`
	Amount decimal.Decimal `json:"amount"`
}

// VoucherItemResponse una recepción destino con su distribución vigente.
type VoucherItemResponse struct {
	ID              string          `json:"id"`
	StockMovementID string          `json:"stock_movement_id"`
	OriginalCost    decimal.Decimal `json:"original_cost"`
	AllocatedCost   decimal.Decimal `json:"allocated_cost"`
	NewUnitCost     decimal.Decimal `json:"new_unit_cost"`
}

// VoucherResponse comprobante con pool y recepciones anidados. Status permite
// al cliente distinguir draft (mutable) de posted (terminal, solo lectura).
type VoucherResponse struct {
	ID               string                `json:"id"`
	CompanyID        string                `json:"company_id"`
	VoucherNumber    string                `json:"voucher_number"`
	Date             string                `json:"date"`
	Description      string                `json:"description"`
	AllocationMethod string                `json:"allocation_method"`
	Status           string                `json:"status"`
	PoolTotal        decimal.Decimal       `json:"pool_total"`
	Bills            []VoucherBillResponse `json:"bills"`
	Items            []VoucherItemResponse `json:"items"`
}

// PostVoucherResponse resultado de la contabilización.
type PostVoucherResponse struct {
	VoucherID      string `json:"voucher_id"`
	Status         string `json:"status"`
	JournalEntryID string `json:"journal_entry_id,omitempty"` // vacío si el comprobante era degenerado (sin asiento)
	ItemsUpdated   int    `json:"items_updated"`
}
