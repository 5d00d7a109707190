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

	// Libro mayor de inventario.
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrInvalidTransferRoute = errors.New("sucursal origen y destino deben ser distintas")

	// Sub-libro de lotes.
	ErrInsufficientBatchQuantity = errors.New("cantidad insuficiente en el lote")
	ErrDuplicateBatchNumber      = errors.New("número de lote ya existe para el artículo")
	ErrItemNotBatchTracked       = errors.New("el artículo no maneja lotes")

	// ErrTxConflict señala una falla de serialización de la base de datos.
	// Es una carrera benigna: los casos de uso la reintentan con un número
	// acotado de intentos; nunca llega al caller como error de negocio.
	ErrTxConflict = errors.New("conflicto de transacción, reintentar")
)
