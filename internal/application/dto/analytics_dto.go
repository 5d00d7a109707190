package dto

import "github.com/shopspring/decimal"

// ── Valorización ──────────────────────────────────────────────────────────────

// ValuationItemDTO valor de inventario de un artículo en una sucursal.
type ValuationItemDTO struct {
	ItemID     string          `json:"item_id"`
	SKU        string          `json:"sku"`
	ItemName   string          `json:"item_name"`
	Category   string          `json:"category,omitempty"`
	BranchID   string          `json:"branch_id"`
	UOMID      string          `json:"uom_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	TotalValue decimal.Decimal `json:"total_value"` // Quantity * UnitCost
}

// ValuationReportDTO respuesta de GET /api/analytics/valuation.
type ValuationReportDTO struct {
	TotalValue decimal.Decimal    `json:"total_value"`
	ItemCount  int                `json:"item_count"`
	Items      []ValuationItemDTO `json:"items"`
}

// ── Clasificación ABC ─────────────────────────────────────────────────────────

// ABCItemDTO artículo clasificado por contribución acumulada de valor.
type ABCItemDTO struct {
	Rank          int             `json:"rank"`
	ItemID        string          `json:"item_id"`
	SKU           string          `json:"sku"`
	ItemName      string          `json:"item_name"`
	TotalValue    decimal.Decimal `json:"total_value"`
	ValuePct      decimal.Decimal `json:"value_pct"`
	CumulativePct decimal.Decimal `json:"cumulative_pct"`
	Category      string          `json:"category"` // A | B | C
}

// ABCReportDTO respuesta de GET /api/analytics/abc.
type ABCReportDTO struct {
	TotalValue decimal.Decimal `json:"total_value"`
	CountA     int             `json:"count_a"`
	CountB     int             `json:"count_b"`
	CountC     int             `json:"count_c"`
	Items      []ABCItemDTO    `json:"items"`
}

// ── Lenta rotación / sin movimiento ──────────────────────────────────────────

// SlowMovingRequest query params para GET /api/analytics/slow-moving.
type SlowMovingRequest struct {
	BranchID      string `query:"branch_id"`
	ThresholdDays int    `query:"threshold_days"` // default 90
}

// SlowMovingItemDTO saldo sin movimiento reciente.
type SlowMovingItemDTO struct {
	ItemID            string          `json:"item_id"`
	SKU               string          `json:"sku"`
	ItemName          string          `json:"item_name"`
	BranchID          string          `json:"branch_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	LastMovementAt    string          `json:"last_movement_at"` // YYYY-MM-DD
	DaysSinceMovement int             `json:"days_since_movement"`
}

// SlowMovingReportDTO respuesta de GET /api/analytics/slow-moving.
type SlowMovingReportDTO struct {
	ThresholdDays int                 `json:"threshold_days"`
	Count         int                 `json:"count"`
	Items         []SlowMovingItemDTO `json:"items"`
}

// ── Rotación ──────────────────────────────────────────────────────────────────

// TurnoverRequest query params para GET /api/analytics/turnover.
type TurnoverRequest struct {
	PeriodDays int `query:"period_days"` // default 365
}

// TurnoverItemDTO rotación de un artículo en el período.
type TurnoverItemDTO struct {
	ItemID        string          `json:"item_id"`
	SKU           string          `json:"sku"`
	ItemName      string          `json:"item_name"`
	TotalOut      decimal.Decimal `json:"total_out"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	TurnoverRatio decimal.Decimal `json:"turnover_ratio"` // TotalOut / CurrentStock; 0 si stock 0
}

// TurnoverReportDTO respuesta de GET /api/analytics/turnover (ascendente: más lento primero).
type TurnoverReportDTO struct {
	PeriodDays int               `json:"period_days"`
	Items      []TurnoverItemDTO `json:"items"`
}

// ── Punto de reorden ──────────────────────────────────────────────────────────

// LowStockItemDTO saldo en o por debajo del punto de reorden del artículo.
type LowStockItemDTO struct {
	ItemID       string          `json:"item_id"`
	SKU          string          `json:"sku"`
	ItemName     string          `json:"item_name"`
	BranchID     string          `json:"branch_id"`
	BranchName   string          `json:"branch_name"`
	UOMID        string          `json:"uom_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	Deficit      decimal.Decimal `json:"deficit"` // ReorderPoint - Quantity
}

// LowStockReportDTO respuesta de GET /api/analytics/low-stock.
type LowStockReportDTO struct {
	Count int               `json:"count"`
	Items []LowStockItemDTO `json:"items"`
}
