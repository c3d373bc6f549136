package voucher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/allocation"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
	"github.com/jhoicas/Costeo-api/pkg/logger"
)

// VoucherUseCase orquesta el ciclo de vida de un comprobante de costos en
// destino contra el estado persistido: creación, pool de facturas, recepciones
// destino, previsualización repetible y la contabilización única y atómica.
type VoucherUseCase struct {
	txRunner     TxRunner
	voucherRepo  repository.VoucherRepository
	billRepo     repository.BillRepository
	movementRepo repository.StockMovementRepository
	wac          WACRecalculator
	log          *logger.Logger
}

// NewVoucherUseCase construye el caso de uso.
func NewVoucherUseCase(
	txRunner TxRunner,
	voucherRepo repository.VoucherRepository,
	billRepo repository.BillRepository,
	movementRepo repository.StockMovementRepository,
	wac WACRecalculator,
	log *logger.Logger,
) *VoucherUseCase {
	return &VoucherUseCase{
		txRunner:     txRunner,
		voucherRepo:  voucherRepo,
		billRepo:     billRepo,
		movementRepo: movementRepo,
		wac:          wac,
		log:          log,
	}
}

// CreateVoucher crea un comprobante en draft con consecutivo LCV-AAAA-0001
// derivado del conteo por empresa.
func (uc *VoucherUseCase) CreateVoucher(ctx context.Context, companyID, userID string, in dto.CreateVoucherRequest) (*dto.VoucherResponse, error) {
	date := time.Now()
	if in.Date != "" {
		parsed, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		date = parsed
	}
	method := in.AllocationMethod
	if method == "" {
		method = entity.AllocationMethodByValue
	}
	if method != entity.AllocationMethodByValue && method != entity.AllocationMethodByQuantity {
		return nil, domain.ErrInvalidInput
	}

	count, err := uc.voucherRepo.CountByCompany(companyID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	v := &entity.Voucher{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		Date:             date,
		Description:      in.Description,
		AllocationMethod: method,
		Status:           entity.VoucherStatusDraft,
		CreatedBy:        userID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	// El consecutivo parte del conteo por empresa. El índice único de
	// voucher_number resuelve las carreras entre creaciones concurrentes y los
	// huecos por borrados: ante conflicto se avanza la secuencia y se reintenta.
	const maxAttempts = 5
	for attempt := 0; ; attempt++ {
		v.VoucherNumber = fmt.Sprintf("LCV-%d-%04d", date.Year(), count+1+attempt)
		err := uc.voucherRepo.Create(v)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrConflict) || attempt == maxAttempts-1 {
			return nil, err
		}
	}
	return toVoucherResponse(v, nil, nil), nil
}

// GetVoucher obtiene un comprobante con su pool y recepciones anidados.
func (uc *VoucherUseCase) GetVoucher(ctx context.Context, companyID, id string) (*dto.VoucherResponse, error) {
	v, err := uc.findVoucher(companyID, id)
	if err != nil {
		return nil, err
	}
	bills, err := uc.voucherRepo.ListBills(id)
	if err != nil {
		return nil, err
	}
	items, err := uc.voucherRepo.ListItems(id)
	if err != nil {
		return nil, err
	}
	return toVoucherResponse(v, bills, items), nil
}

// ListVouchers lista los comprobantes de la empresa con sus filas anidadas.
func (uc *VoucherUseCase) ListVouchers(ctx context.Context, companyID string, page dto.PageRequest) ([]*dto.VoucherResponse, error) {
	page.DefaultPage()
	vouchers, err := uc.voucherRepo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.VoucherResponse, 0, len(vouchers))
	for _, v := range vouchers {
		bills, err := uc.voucherRepo.ListBills(v.ID)
		if err != nil {
			return nil, err
		}
		items, err := uc.voucherRepo.ListItems(v.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, toVoucherResponse(v, bills, items))
	}
	return out, nil
}

// AddBill agrega una entrada al pool de costos. Falla con ErrVoucherPosted si
// el comprobante es terminal y con ErrNotFound/ErrForbidden si la factura no
// existe o es de otra empresa.
func (uc *VoucherUseCase) AddBill(ctx context.Context, companyID, voucherID string, in dto.AddVoucherBillRequest) (*dto.VoucherBillResponse, error) {
	if _, err := uc.findDraftVoucher(companyID, voucherID); err != nil {
		return nil, err
	}
	if in.BillID == "" || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	bill, err := uc.billRepo.GetByID(in.BillID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, domain.ErrNotFound
	}
	if bill.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	// Distribución parcial permitida, pero nunca más que el total de la factura.
	if in.Amount.GreaterThan(bill.Total) {
		return nil, domain.ErrInvalidInput
	}
	vb := &entity.VoucherBill{
		ID:        uuid.New().String(),
		VoucherID: voucherID,
		BillID:    in.BillID,
		Amount:    in.Amount,
		CreatedAt: time.Now(),
	}
	if err := uc.voucherRepo.AddBill(vb); err != nil {
		return nil, err
	}
	return &dto.VoucherBillResponse{ID: vb.ID, BillID: vb.BillID, Amount: vb.Amount}, nil
}

// AddItems agrega recepciones destino. El costo original se congela con el
// costo total vigente del movimiento en este momento; la previsualización y la
// contabilización lo refrescan antes de calcular.
func (uc *VoucherUseCase) AddItems(ctx context.Context, companyID, voucherID string, in dto.AddVoucherItemsRequest) ([]*dto.VoucherItemResponse, error) {
	if _, err := uc.findDraftVoucher(companyID, voucherID); err != nil {
		return nil, err
	}
	if len(in.StockMovementIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	// Una recepción solo puede ser destino una vez por comprobante: dos
	// destinos sobre el mismo movimiento duplicarían su débito en el asiento
	// y el segundo UpdateCost pisaría al primero.
	existing, err := uc.voucherRepo.ListItems(voucherID)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(existing)+len(in.StockMovementIDs))
	for _, vi := range existing {
		present[vi.StockMovementID] = true
	}
	for _, id := range in.StockMovementIDs {
		if id == "" || present[id] {
			return nil, domain.ErrInvalidInput
		}
		present[id] = true
	}
	movements, err := uc.movementRepo.ListByIDs(in.StockMovementIDs)
	if err != nil {
		return nil, err
	}
	if len(movements) != len(in.StockMovementIDs) {
		return nil, domain.ErrNotFound // alguna recepción no existe
	}
	for _, m := range movements {
		if m.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
	}
	now := time.Now()
	out := make([]*dto.VoucherItemResponse, 0, len(movements))
	for _, m := range movements {
		vi := &entity.VoucherItem{
			ID:              uuid.New().String(),
			VoucherID:       voucherID,
			StockMovementID: m.ID,
			OriginalCost:    m.TotalCost,
			AllocatedCost:   decimal.Zero,
			NewUnitCost:     m.UnitCost,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := uc.voucherRepo.AddItem(vi); err != nil {
			return nil, err
		}
		out = append(out, toVoucherItemResponse(vi))
	}
	return out, nil
}

// Preview recalcula la distribución con los insumos vigentes y persiste las
// filas refrescadas. Idempotente y repetible mientras el comprobante esté en
// draft; es un valor derivado, seguro de recalcular en carreras.
func (uc *VoucherUseCase) Preview(ctx context.Context, companyID, voucherID string) (*dto.VoucherResponse, error) {
	v, err := uc.findDraftVoucher(companyID, voucherID)
	if err != nil {
		return nil, err
	}
	pool, targets, movementsByID, err := uc.loadAllocationInputs(uc.voucherRepo, uc.movementRepo, v)
	if err != nil {
		return nil, err
	}
	results := allocation.Allocate(pool, targets, v.AllocationMethod)
	if len(results) == 0 {
		// La distribución quedó degenerada (p. ej. el pool se vació después de
		// una previsualización anterior): limpiar las porciones persistidas.
		if err := uc.clearAllocations(uc.voucherRepo, voucherID, targets, movementsByID); err != nil {
			return nil, err
		}
		return uc.GetVoucher(ctx, companyID, voucherID)
	}
	targetsByItem := make(map[string]allocation.Target, len(targets))
	for _, t := range targets {
		targetsByItem[t.VoucherItemID] = t
	}
	for _, r := range results {
		t := targetsByItem[r.VoucherItemID]
		vi := &entity.VoucherItem{
			ID:              r.VoucherItemID,
			VoucherID:       voucherID,
			StockMovementID: r.StockMovementID,
			OriginalCost:    t.OriginalCost,
			AllocatedCost:   r.AllocatedCost,
			NewUnitCost:     r.NewUnitCost,
			UpdatedAt:       time.Now(),
		}
		if err := uc.voucherRepo.UpdateItemAllocation(vi); err != nil {
			return nil, err
		}
	}
	return uc.GetVoucher(ctx, companyID, voucherID)
}

// Post contabiliza el comprobante: la operación crítica, no idempotente.
//
// Dentro de UNA transacción: flip condicional draft→posted (garantía de
// contabilización única), recálculo de la distribución con insumos releídos,
// persistencia de las filas definitivas, sobreescritura del costo de cada
// recepción e inserción del asiento de partida doble. Una cuenta sin mapear
// aborta todo. Después del commit se recalcula el costo promedio una vez por
// artículo afectado.
func (uc *VoucherUseCase) Post(ctx context.Context, companyID, voucherID, userID string) (*dto.PostVoucherResponse, error) {
	v, err := uc.findVoucher(companyID, voucherID)
	if err != nil {
		return nil, err
	}
	if v.IsPosted() {
		return nil, domain.ErrAlreadyPosted
	}

	var (
		entryID       string
		itemsUpdated  int
		affectedItems []string
	)
	now := time.Now()

	err = uc.txRunner.RunPosting(ctx, func(
		voucherRepo repository.VoucherRepository,
		movementRepo repository.StockMovementRepository,
		itemRepo repository.ItemRepository,
		billRepo repository.BillRepository,
		journalRepo repository.JournalRepository,
	) error {
		// Guardia de contabilización única: UPDATE condicional sobre status.
		// La fila queda bloqueada hasta el commit; la tx perdedora ve 0 filas.
		ok, err := voucherRepo.MarkPosted(voucherID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyPosted
		}

		pool, targets, movementsByID, err := uc.loadAllocationInputs(voucherRepo, movementRepo, v)
		if err != nil {
			return err
		}
		results := allocation.Allocate(pool, targets, v.AllocationMethod)
		if len(results) == 0 {
			// Comprobante degenerado (sin pool o sin base): solo flip de
			// estado, sin dejar porciones de previsualizaciones viejas.
			return uc.clearAllocations(voucherRepo, voucherID, targets, movementsByID)
		}

		targetsByItem := make(map[string]allocation.Target, len(targets))
		for _, t := range targets {
			targetsByItem[t.VoucherItemID] = t
		}
		seen := make(map[string]bool)
		for _, r := range results {
			m := movementsByID[r.StockMovementID]
			newTotal := m.Quantity.Mul(r.NewUnitCost)
			if err := movementRepo.UpdateCost(m.ID, r.NewUnitCost, newTotal); err != nil {
				return err
			}
			t := targetsByItem[r.VoucherItemID]
			vi := &entity.VoucherItem{
				ID:              r.VoucherItemID,
				VoucherID:       voucherID,
				StockMovementID: r.StockMovementID,
				OriginalCost:    t.OriginalCost,
				AllocatedCost:   r.AllocatedCost,
				NewUnitCost:     r.NewUnitCost,
				UpdatedAt:       now,
			}
			if err := voucherRepo.UpdateItemAllocation(vi); err != nil {
				return err
			}
			itemsUpdated++
			if !seen[m.ItemID] {
				seen[m.ItemID] = true
				affectedItems = append(affectedItems, m.ItemID)
			}
		}

		entry, err := uc.buildJournalEntry(itemRepo, billRepo, v, results, movementsByID, pool, userID, now)
		if err != nil {
			return err
		}
		if err := journalRepo.CreateEntry(entry); err != nil {
			return err
		}
		entryID = entry.ID
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyPosted),
			errors.Is(err, domain.ErrIncompleteAccountMapping):
			return nil, err
		default:
			return nil, fmt.Errorf("%w: %v", domain.ErrPostingFailed, err)
		}
	}

	// Revalorización por artículo, deduplicada, fuera de la tx ya confirmada.
	// Un fallo aquí deja el costo desactualizado hasta un recálculo posterior;
	// no revierte la contabilización.
	for _, itemID := range affectedItems {
		if err := uc.wac.Recalculate(ctx, companyID, itemID); err != nil {
			uc.log.Warn().Err(err).
				Str("voucher_id", voucherID).
				Str("item_id", itemID).
				Msg("recálculo de costo promedio falló tras contabilizar")
		}
	}

	uc.log.Info().
		Str("voucher_id", voucherID).
		Str("journal_entry_id", entryID).
		Int("items_updated", itemsUpdated).
		Msg("comprobante contabilizado")

	return &dto.PostVoucherResponse{
		VoucherID:      voucherID,
		Status:         entity.VoucherStatusPosted,
		JournalEntryID: entryID,
		ItemsUpdated:   itemsUpdated,
	}, nil
}

// loadAllocationInputs carga pool y recepciones destino releyendo el costo
// ACTUAL de cada movimiento (la foto guardada puede estar desactualizada si la
// recepción cambió después de agregarla).
func (uc *VoucherUseCase) loadAllocationInputs(
	voucherRepo repository.VoucherRepository,
	movementRepo repository.StockMovementRepository,
	v *entity.Voucher,
) ([]allocation.PoolEntry, []allocation.Target, map[string]*entity.StockMovement, error) {
	bills, err := voucherRepo.ListBills(v.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	items, err := voucherRepo.ListItems(v.ID)
	if err != nil {
		return nil, nil, nil, err
	}

	pool := make([]allocation.PoolEntry, 0, len(bills))
	for _, b := range bills {
		pool = append(pool, allocation.PoolEntry{VoucherBillID: b.ID, BillID: b.BillID, Amount: b.Amount})
	}

	ids := make([]string, 0, len(items))
	for _, vi := range items {
		ids = append(ids, vi.StockMovementID)
	}
	movementsByID := make(map[string]*entity.StockMovement, len(ids))
	if len(ids) > 0 {
		movements, err := movementRepo.ListByIDs(ids)
		if err != nil {
			return nil, nil, nil, err
		}
		for _, m := range movements {
			movementsByID[m.ID] = m
		}
	}

	targets := make([]allocation.Target, 0, len(items))
	for _, vi := range items {
		m := movementsByID[vi.StockMovementID]
		if m == nil {
			// La recepción fue eliminada aguas arriba; se omite del cálculo.
			continue
		}
		targets = append(targets, allocation.Target{
			VoucherItemID:   vi.ID,
			StockMovementID: m.ID,
			ItemID:          m.ItemID,
			Quantity:        m.Quantity,
			OriginalCost:    m.TotalCost,
		})
	}
	return pool, targets, movementsByID, nil
}

// buildJournalEntry arma los insumos del constructor de asientos: cuentas de
// inventario de los artículos destino (débitos) y cuentas de costo de las
// líneas de las facturas del pool (créditos).
func (uc *VoucherUseCase) buildJournalEntry(
	itemRepo repository.ItemRepository,
	billRepo repository.BillRepository,
	v *entity.Voucher,
	results []allocation.Result,
	movementsByID map[string]*entity.StockMovement,
	pool []allocation.PoolEntry,
	userID string,
	now time.Time,
) (*entity.JournalEntry, error) {
	itemIDs := make([]string, 0, len(results))
	seen := make(map[string]bool)
	for _, r := range results {
		if !seen[r.ItemID] {
			seen[r.ItemID] = true
			itemIDs = append(itemIDs, r.ItemID)
		}
	}
	items, err := itemRepo.ListByIDs(itemIDs)
	if err != nil {
		return nil, err
	}
	itemsByID := make(map[string]*entity.Item, len(items))
	for _, it := range items {
		itemsByID[it.ID] = it
	}

	debits := make([]allocation.DebitTarget, 0, len(results))
	for _, r := range results {
		it := itemsByID[r.ItemID]
		if it == nil {
			return nil, fmt.Errorf("%w: artículo %s no existe", domain.ErrIncompleteAccountMapping, r.ItemID)
		}
		debits = append(debits, allocation.DebitTarget{
			ItemID:             it.ID,
			ItemName:           it.Name,
			InventoryAccountID: it.InventoryAccountID,
			AllocatedCost:      r.AllocatedCost,
		})
	}

	credits := make([]allocation.CreditSource, 0, len(pool))
	for _, p := range pool {
		bill, err := billRepo.GetByID(p.BillID)
		if err != nil {
			return nil, err
		}
		if bill == nil {
			return nil, fmt.Errorf("%w: factura %s no existe", domain.ErrIncompleteAccountMapping, p.BillID)
		}
		lines, err := billRepo.ListLines(p.BillID)
		if err != nil {
			return nil, err
		}
		lineItemIDs := make([]string, 0, len(lines))
		for _, l := range lines {
			if l.ItemID != "" {
				lineItemIDs = append(lineItemIDs, l.ItemID)
			}
		}
		lineItemsByID := make(map[string]*entity.Item)
		if len(lineItemIDs) > 0 {
			lineItems, err := itemRepo.ListByIDs(lineItemIDs)
			if err != nil {
				return nil, err
			}
			for _, it := range lineItems {
				lineItemsByID[it.ID] = it
			}
		}
		creditLines := make([]allocation.CreditLine, 0, len(lines))
		for _, l := range lines {
			accountID := ""
			if it := lineItemsByID[l.ItemID]; it != nil {
				accountID = it.CostAccountID
			}
			creditLines = append(creditLines, allocation.CreditLine{CostAccountID: accountID, Amount: l.Amount})
		}
		credits = append(credits, allocation.CreditSource{
			BillID:     bill.ID,
			BillNumber: bill.BillNumber,
			Amount:     p.Amount,
			Lines:      creditLines,
		})
	}

	return allocation.BuildEntry(v, debits, credits, userID, now)
}

// clearAllocations pone en cero las porciones persistidas por una
// previsualización anterior. Sin esto, un comprobante cuya distribución se
// volvió degenerada seguiría mostrando montos que nunca se aplicaron.
func (uc *VoucherUseCase) clearAllocations(
	voucherRepo repository.VoucherRepository,
	voucherID string,
	targets []allocation.Target,
	movementsByID map[string]*entity.StockMovement,
) error {
	now := time.Now()
	for _, t := range targets {
		m := movementsByID[t.StockMovementID]
		if m == nil {
			continue
		}
		vi := &entity.VoucherItem{
			ID:              t.VoucherItemID,
			VoucherID:       voucherID,
			StockMovementID: t.StockMovementID,
			OriginalCost:    t.OriginalCost,
			AllocatedCost:   decimal.Zero,
			NewUnitCost:     m.UnitCost,
			UpdatedAt:       now,
		}
		if err := voucherRepo.UpdateItemAllocation(vi); err != nil {
			return err
		}
	}
	return nil
}

// findVoucher carga y valida pertenencia a la empresa.
func (uc *VoucherUseCase) findVoucher(companyID, id string) (*entity.Voucher, error) {
	v, err := uc.voucherRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	if v.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return v, nil
}

// findDraftVoucher además exige estado draft (mutaciones prohibidas en posted).
func (uc *VoucherUseCase) findDraftVoucher(companyID, id string) (*entity.Voucher, error) {
	v, err := uc.findVoucher(companyID, id)
	if err != nil {
		return nil, err
	}
	if v.IsPosted() {
		return nil, domain.ErrVoucherPosted
	}
	return v, nil
}

func toVoucherItemResponse(vi *entity.VoucherItem) *dto.VoucherItemResponse {
	return &dto.VoucherItemResponse{
		ID:              vi.ID,
		StockMovementID: vi.StockMovementID,
		OriginalCost:    vi.OriginalCost,
		AllocatedCost:   vi.AllocatedCost,
		NewUnitCost:     vi.NewUnitCost,
	}
}

func toVoucherResponse(v *entity.Voucher, bills []*entity.VoucherBill, items []*entity.VoucherItem) *dto.VoucherResponse {
	resp := &dto.VoucherResponse{
		ID:               v.ID,
		CompanyID:        v.CompanyID,
		VoucherNumber:    v.VoucherNumber,
		Date:             v.Date.Format("2006-01-02"),
		Description:      v.Description,
		AllocationMethod: v.AllocationMethod,
		Status:           v.Status,
		PoolTotal:        decimal.Zero,
		Bills:            make([]dto.VoucherBillResponse, 0, len(bills)),
		Items:            make([]dto.VoucherItemResponse, 0, len(items)),
	}
	for _, b := range bills {
		resp.PoolTotal = resp.PoolTotal.Add(b.Amount)
		resp.Bills = append(resp.Bills, dto.VoucherBillResponse{ID: b.ID, BillID: b.BillID, Amount: b.Amount})
	}
	for _, vi := range items {
		resp.Items = append(resp.Items, *toVoucherItemResponse(vi))
	}
	return resp
}
