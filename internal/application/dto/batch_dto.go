package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBatchRequest body para POST /api/batches.
type CreateBatchRequest struct {
	ItemID         string          `json:"item_id" validate:"required,uuid"`
	BranchID       string          `json:"branch_id" validate:"required,uuid"`
	UOMID          string          `json:"uom_id" validate:"required,uuid"`
	BatchNumber    string          `json:"batch_number" validate:"required,min=1,max=100"`
	LotNumber      string          `json:"lot_number,omitempty"`
	SupplierBatch  string          `json:"supplier_batch,omitempty"`
	ProductionDate *time.Time      `json:"production_date,omitempty"`
	ExpiryDate     *time.Time      `json:"expiry_date,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Notes          string          `json:"notes,omitempty"`
}

// BatchDTO salida de un lote.
type BatchDTO struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	BranchID       string          `json:"branch_id"`
	UOMID          string          `json:"uom_id"`
	BatchNumber    string          `json:"batch_number"`
	LotNumber      string          `json:"lot_number,omitempty"`
	SupplierBatch  string          `json:"supplier_batch,omitempty"`
	ProductionDate *time.Time      `json:"production_date,omitempty"`
	ExpiryDate     *time.Time      `json:"expiry_date,omitempty"`
	InitialQty     decimal.Decimal `json:"initial_quantity"`
	QualityStatus  string          `json:"quality_status"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// BatchMovementRequest body para POST /api/batches/:id/movements.
type BatchMovementRequest struct {
	Type          string          `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT TRANSFER"`
	Quantity      decimal.Decimal `json:"quantity"`
	ReferenceType string          `json:"reference_type" validate:"required"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	FromBranchID  string          `json:"from_branch_id,omitempty"`
	ToBranchID    string          `json:"to_branch_id,omitempty"`
}

// BatchMovementDTO salida de un movimiento del sub-libro de lote.
type BatchMovementDTO struct {
	ID            string          `json:"id"`
	BatchID       string          `json:"batch_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"` // con signo
	FromBranchID  string          `json:"from_branch_id,omitempty"`
	ToBranchID    string          `json:"to_branch_id,omitempty"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BatchMovementResponse respuesta de registrar un movimiento de lote.
type BatchMovementResponse struct {
	Movement        BatchMovementDTO `json:"movement"`
	CurrentQuantity decimal.Decimal  `json:"current_quantity"`
}

// UpdateQualityRequest body para PATCH /api/batches/:id/quality.
type UpdateQualityRequest struct {
	QualityStatus string `json:"quality_status" validate:"required,oneof=PENDING PASSED FAILED QUARANTINE"`
	Notes         string `json:"notes,omitempty"`
}

// TraceabilityDTO respuesta de GET /api/batches/:id/traceability.
// Linaje de un solo salto: un padre (upstream), varios hijos (downstream),
// enlazados por coincidencia de número de lote.
type TraceabilityDTO struct {
	Batch           BatchDTO           `json:"batch"`
	CurrentQuantity decimal.Decimal    `json:"current_quantity"` // suma de deltas del sub-libro
	Movements       []BatchMovementDTO `json:"movements"`        // ordenados por fecha de creación
	Upstream        *BatchDTO          `json:"upstream,omitempty"`
	Downstream      []BatchDTO         `json:"downstream"`
}

// ExpiryAlertDTO lote próximo a vencer.
type ExpiryAlertDTO struct {
	Batch           BatchDTO `json:"batch"`
	DaysUntilExpiry int      `json:"days_until_expiry"`
	IsExpired       bool     `json:"is_expired"`
}
