package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	ItemID       string          `json:"item_id" validate:"required,uuid"`
	FromBranchID string          `json:"from_branch_id" validate:"required,uuid"`
	ToBranchID   string          `json:"to_branch_id" validate:"required,uuid"`
	UOMID        string          `json:"uom_id" validate:"required,uuid"`
	Quantity     decimal.Decimal `json:"quantity"`
	Notes        string          `json:"notes,omitempty"`
}

// TransferDTO salida de un traslado.
type TransferDTO struct {
	ID           string          `json:"id"`
	ItemID       string          `json:"item_id"`
	FromBranchID string          `json:"from_branch_id"`
	ToBranchID   string          `json:"to_branch_id"`
	UOMID        string          `json:"uom_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Status       string          `json:"status"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	CreatedBy    string          `json:"created_by,omitempty"`
}

// TransferResponse respuesta de ejecutar un traslado: el traslado, sus dos
// movimientos (comparten ReferenceID) y los saldos resultantes.
type TransferResponse struct {
	Transfer    TransferDTO   `json:"transfer"`
	Movements   []MovementDTO `json:"movements"`
	FromBalance BalanceDTO    `json:"from_balance"`
	ToBalance   BalanceDTO    `json:"to_balance"`
}
