package domain

import "errors"

// Errores de dominio (sin dependencias externas). Toda falla de precondición
// aborta la operación completa: no hay efectos parciales.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInvalidState      = errors.New("el estado actual no permite la operación")
	ErrAlreadyRegistered = errors.New("la cuenta ya tiene un rol asignado")
	ErrAlreadyVendor     = errors.New("la cuenta ya es vendor activo")
	ErrAlreadyPending    = errors.New("ya existe una aplicación pendiente")
	ErrNotPending        = errors.New("la aplicación no está pendiente")
	ErrInvalidStake      = errors.New("el pago no coincide con el stake requerido")
	ErrInsufficientFunds = errors.New("fondos insuficientes")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrTransferFailed    = errors.New("la transferencia de fondos no se completó")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
)
