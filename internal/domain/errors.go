package domain

import "errors"

// Errores de dominio del libro de lotes (sin dependencias externas).
var (
	ErrNotFound    = errors.New("recurso no encontrado")
	ErrValidation  = errors.New("entrada inválida")
	ErrDuplicate   = errors.New("recurso duplicado")
	ErrUnavailable = errors.New("almacenamiento no disponible")

	// ErrNoLocationAvailable no hay ubicación activa donde anclar un lote nuevo.
	ErrNoLocationAvailable = errors.New("no hay ubicación activa disponible")

	// ErrInsufficientQuantity el lote no tiene unidades suficientes para el delta pedido.
	ErrInsufficientQuantity = errors.New("cantidad insuficiente en el lote")
	// ErrInsufficientStock los lotes del producto no alcanzan a cubrir lo solicitado.
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrConcurrentModification la cantidad del lote cambió desde que se leyó.
	ErrConcurrentModification = errors.New("el lote fue modificado por otra transacción")
	// ErrAllocationConflict la confirmación de un plan chocó con otra; hay que volver a planificar.
	ErrAllocationConflict = errors.New("conflicto de asignación: vuelva a planificar")

	// ErrReturnExceedsOriginal la devolución dejaría el lote por encima de su cantidad inicial.
	ErrReturnExceedsOriginal = errors.New("la devolución excede la cantidad original del lote")
	// ErrLotNotReturnable el lote está vencido o retirado.
	ErrLotNotReturnable = errors.New("el lote no admite devoluciones en su estado actual")
)
