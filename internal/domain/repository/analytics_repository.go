package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Filas crudas de las consultas analíticas. El SQL agrega; el caso de uso
// clasifica y ordena. Ninguna operación de este puerto muta el libro mayor.

// ValuationRow saldo valorizado de un artículo en una sucursal.
type ValuationRow struct {
	ItemID   string
	SKU      string
	ItemName string
	Category string
	BranchID string
	UOMID    string
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// ItemValueRow valor total de inventario por artículo (todas las sucursales).
type ItemValueRow struct {
	ItemID     string
	SKU        string
	ItemName   string
	TotalValue decimal.Decimal
}

// LastMovementRow fecha del movimiento más reciente por (artículo, sucursal).
// Solo incluye llaves con al menos un movimiento: un saldo sin movimientos no
// tiene antigüedad determinable.
type LastMovementRow struct {
	ItemID         string
	SKU            string
	ItemName       string
	BranchID       string
	Quantity       decimal.Decimal
	LastMovementAt time.Time
}

// OutQuantityRow salidas acumuladas del período y stock actual por artículo.
type OutQuantityRow struct {
	ItemID       string
	SKU          string
	ItemName     string
	TotalOut     decimal.Decimal
	CurrentStock decimal.Decimal
}

// LowStockRow saldo en o por debajo del punto de reorden.
type LowStockRow struct {
	ItemID       string
	SKU          string
	ItemName     string
	BranchID     string
	BranchName   string
	UOMID        string
	Quantity     decimal.Decimal
	ReorderPoint decimal.Decimal
}

// AnalyticsRepository define el puerto de consultas de solo lectura del motor
// analítico. Las lecturas son snapshots: toleran consistencia eventual frente
// a escrituras en vuelo y no toman bloqueos.
type AnalyticsRepository interface {
	// GetValuationRows devuelve saldos valorizados; branchID y category
	// vacíos no filtran.
	GetValuationRows(ctx context.Context, companyID, branchID, category string) ([]ValuationRow, error)
	GetItemValues(ctx context.Context, companyID string) ([]ItemValueRow, error)
	GetLastMovementDates(ctx context.Context, companyID, branchID string) ([]LastMovementRow, error)
	GetOutQuantities(ctx context.Context, companyID string, from, to time.Time) ([]OutQuantityRow, error)
	GetLowStockRows(ctx context.Context, companyID string) ([]LowStockRow, error)
}
