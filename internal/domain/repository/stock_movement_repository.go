package repository

import (
	"time"

	"github.com/invorya/ledger-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el libro
// mayor de movimientos. Solo hay Create: los movimientos son append-only y
// nunca se editan ni borran desde la lógica de negocio.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByBranch(branchID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// ListByReference devuelve los movimientos que comparten un documento
	// origen (ej. los dos lados de un traslado).
	ListByReference(referenceID string) ([]*entity.StockMovement, error)
}
