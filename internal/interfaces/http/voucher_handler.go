package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/voucher"
	"github.com/jhoicas/Costeo-api/internal/domain"
)

// VoucherHandler maneja las peticiones HTTP de comprobantes de costos en destino (protegido).
type VoucherHandler struct {
	uc *voucher.VoucherUseCase
}

// NewVoucherHandler construye el handler.
func NewVoucherHandler(uc *voucher.VoucherUseCase) *VoucherHandler {
	return &VoucherHandler{uc: uc}
}

// voucherError traduce los errores de dominio del ciclo de vida a HTTP.
func voucherError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrVoucherPosted):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "VOUCHER_POSTED", Message: "el comprobante ya fue contabilizado y no admite cambios"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto con el estado actual, reintente"})
	case errors.Is(err, domain.ErrAlreadyPosted):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_POSTED", Message: "el comprobante ya fue contabilizado"})
	case errors.Is(err, domain.ErrIncompleteAccountMapping):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INCOMPLETE_ACCOUNT_MAPPING", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// Create godoc
// @Summary      Crear comprobante de costos en destino (draft)
// @Tags         vouchers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVoucherRequest  true  "date, description, allocation_method"
// @Success      201   {object}  dto.VoucherResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/vouchers [post]
func (h *VoucherHandler) Create(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateVoucherRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateVoucher(c.Context(), companyID, userID, in)
	if err != nil {
		return voucherError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar comprobantes de la empresa
// @Tags         vouchers
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 50)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.VoucherResponse
// @Router       /api/vouchers [get]
func (h *VoucherHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
	out, err := h.uc.ListVouchers(c.Context(), companyID, page)
	if err != nil {
		return voucherError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener un comprobante con pool y recepciones
// @Tags         vouchers
// @Produce      json
// @Param        id  path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.VoucherResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id} [get]
func (h *VoucherHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	out, err := h.uc.GetVoucher(c.Context(), companyID, id)
	if err != nil {
		return voucherError(c, err)
	}
	return c.JSON(out)
}

// AddBill godoc
// @Summary      Agregar una factura al pool de costos
// @Tags         vouchers
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del comprobante"
// @Param        body  body  dto.AddVoucherBillRequest  true  "bill_id, amount"
// @Success      201   {object}  dto.VoucherBillResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id}/bills [post]
func (h *VoucherHandler) AddBill(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AddVoucherBillRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AddBill(c.Context(), companyID, c.Params("id"), in)
	if err != nil {
		return voucherError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AddItems godoc
// @Summary      Agregar recepciones destino al comprobante
// @Tags         vouchers
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del comprobante"
// @Param        body  body  dto.AddVoucherItemsRequest  true  "stock_movement_ids"
// @Success      201   {array}  dto.VoucherItemResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id}/items [post]
func (h *VoucherHandler) AddItems(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AddVoucherItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AddItems(c.Context(), companyID, c.Params("id"), in)
	if err != nil {
		return voucherError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Allocate godoc
// @Summary      Previsualizar la distribución de costos (repetible)
// @Tags         vouchers
// @Produce      json
// @Param        id  path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.VoucherResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id}/allocate [post]
func (h *VoucherHandler) Allocate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.Preview(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return voucherError(c, err)
	}
	return c.JSON(out)
}

// Post godoc
// @Summary      Contabilizar el comprobante (operación única y atómica)
// @Tags         vouchers
// @Produce      json
// @Param        id  path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.PostVoucherResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id}/post [post]
func (h *VoucherHandler) Post(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.Post(c.Context(), companyID, c.Params("id"), userID)
	if err != nil {
		return voucherError(c, err)
	}
	return c.JSON(out)
}
