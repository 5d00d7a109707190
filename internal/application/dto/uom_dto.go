package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateUOMRequest entrada para crear una unidad de medida.
type CreateUOMRequest struct {
	Code             string          `json:"code" validate:"required,min=1,max=20"`
	Name             string          `json:"name" validate:"required,min=1,max=100"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"` // a unidad base; default 1
}

// UpdateUOMRequest entrada para actualizar una unidad de medida.
type UpdateUOMRequest struct {
	Name             *string          `json:"name" validate:"omitempty,min=1,max=100"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor"`
	Active           *bool            `json:"active"`
}

// UOMResponse salida de una unidad de medida.
type UOMResponse struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"company_id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	Active           bool            `json:"active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// UOMListResponse lista paginada de unidades de medida.
type UOMListResponse struct {
	Items []UOMResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}
