package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// La cantidad se envía siempre como magnitud positiva; el signo lo determina
// el tipo de movimiento.
type RegisterMovementRequest struct {
	ItemID        string           `json:"item_id" validate:"required,uuid"`
	BranchID      string           `json:"branch_id" validate:"required,uuid"`
	UOMID         string           `json:"uom_id" validate:"required,uuid"`
	Type          string           `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	ReferenceType string           `json:"reference_type" validate:"required"`
	ReferenceID   string           `json:"reference_id,omitempty"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"` // obligatorio en IN
	BatchNumber   string           `json:"batch_number,omitempty"`
	LotNumber     string           `json:"lot_number,omitempty"`
	ExpiryDate    *time.Time       `json:"expiry_date,omitempty"`
}

// MovementDTO salida de un movimiento del libro mayor.
type MovementDTO struct {
	ID            string          `json:"id"`
	ItemID        string          `json:"item_id"`
	BranchID      string          `json:"branch_id"`
	UOMID         string          `json:"uom_id"`
	Type          string          `json:"type"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"` // con signo
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	BatchNumber   string          `json:"batch_number,omitempty"`
	LotNumber     string          `json:"lot_number,omitempty"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedBy     string          `json:"created_by,omitempty"`
}

// BalanceDTO salido del saldo por (item, sucursal, UOM).
type BalanceDTO struct {
	ItemID            string          `json:"item_id"`
	BranchID          string          `json:"branch_id"`
	UOMID             string          `json:"uom_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// MovementResponse respuesta de registrar un movimiento: el registro creado
// y el saldo resultante de la llave afectada.
type MovementResponse struct {
	Movement MovementDTO `json:"movement"`
	Balance  BalanceDTO  `json:"balance"`
}

// ListMovementsRequest query params para listar movimientos.
type ListMovementsRequest struct {
	ItemID   string `query:"item_id"`
	BranchID string `query:"branch_id"`
	From     string `query:"from"` // YYYY-MM-DD
	To       string `query:"to"`   // YYYY-MM-DD
	PageRequest
}
