package repository

import (
	"time"

	"github.com/invorya/ledger-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para lotes.
// Create debe fallar con violación de unicidad si ya existe el
// (company_id, item_id, batch_number); el adaptador la traduce a
// domain.ErrDuplicateBatchNumber.
type BatchRepository interface {
	Create(batch *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)
	// GetForUpdate bloquea la fila del lote para serializar el chequeo de
	// cantidad con el append del movimiento.
	GetForUpdate(id string) (*entity.Batch, error)
	GetByNumber(companyID, itemID, batchNumber string) (*entity.Batch, error)
	// ListBySupplierBatch devuelve los lotes hijos: mismos artículo y empresa
	// cuyo SupplierBatch es igual al batchNumber dado.
	ListBySupplierBatch(companyID, itemID, batchNumber string) ([]*entity.Batch, error)
	ListByItem(itemID string, limit, offset int) ([]*entity.Batch, error)
	// UpdateQuality muta solo qualityStatus y notes; el resto del lote es inmutable.
	UpdateQuality(id, qualityStatus, notes string) error
	// ListExpiringBefore devuelve lotes de la empresa con fecha de
	// vencimiento no nula y anterior o igual al límite.
	ListExpiringBefore(companyID string, before time.Time) ([]*entity.Batch, error)
}

// BatchMovementRepository define el puerto del sub-libro de movimientos de lote.
type BatchMovementRepository interface {
	Create(movement *entity.BatchMovement) error
	// ListByBatch devuelve los movimientos del lote ordenados por fecha de creación.
	ListByBatch(batchID string) ([]*entity.BatchMovement, error)
}
