package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Errores del motor de distribución de costos y contabilización.
var (
	// ErrVoucherPosted: se intentó mutar un comprobante ya contabilizado (estado terminal).
	ErrVoucherPosted = errors.New("el comprobante ya fue contabilizado y es de solo lectura")
	// ErrAlreadyPosted: otra petición concurrente ganó la contabilización.
	// Para el cliente equivale a éxito: basta re-consultar el comprobante.
	ErrAlreadyPosted = errors.New("el comprobante ya fue contabilizado por otra operación")
	// ErrIncompleteAccountMapping: un artículo o una línea de factura no tiene
	// cuenta contable configurada. Aborta la contabilización completa.
	ErrIncompleteAccountMapping = errors.New("cuenta contable no configurada para artículo o línea de factura")
	// ErrUnbalancedEntry: el asiento construido no cuadra (Σ débito != Σ crédito).
	ErrUnbalancedEntry = errors.New("asiento contable descuadrado")
	// ErrPostingFailed: falló la transacción atómica de contabilización; no queda estado parcial.
	ErrPostingFailed = errors.New("fallo al contabilizar el comprobante")
)
