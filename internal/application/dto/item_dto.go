package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un artículo.
type CreateItemRequest struct {
	SKU            string          `json:"sku" validate:"required,min=1,max=100"`
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	ReorderPoint   decimal.Decimal `json:"reorder_point"`
	BaseUOMID      string          `json:"base_uom_id" validate:"required,uuid"`
	IsBatchTracked bool            `json:"is_batch_tracked"`
}

// UpdateItemRequest entrada para actualizar un artículo (sin Cost: lo mantiene el libro mayor).
type UpdateItemRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description    *string          `json:"description"`
	Category       *string          `json:"category"`
	ReorderPoint   *decimal.Decimal `json:"reorder_point"`
	IsBatchTracked *bool            `json:"is_batch_tracked"`
	Active         *bool            `json:"active"`
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Category       string          `json:"category,omitempty"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	ReorderPoint   decimal.Decimal `json:"reorder_point"`
	BaseUOMID      string          `json:"base_uom_id"`
	IsBatchTracked bool            `json:"is_batch_tracked"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
