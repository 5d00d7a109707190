package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo o SKU del inventario (multi-sucursal).
// UnitCost es costo promedio ponderado calculado desde movimientos;
// el stock se mantiene por sucursal+UOM en StockBalance.
type Item struct {
	ID             string
	CompanyID      string
	SKU            string // código único por empresa
	Name           string
	Description    string
	Category       string
	UnitCost       decimal.Decimal // costo promedio ponderado (inicia en 0)
	ReorderPoint   decimal.Decimal // 0 = sin alerta de reposición
	BaseUOMID      string
	IsBatchTracked bool // habilita el sub-libro de lotes
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
