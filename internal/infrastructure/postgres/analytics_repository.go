package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/invorya/ledger-api/internal/domain/entity"
	"github.com/invorya/ledger-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas agregadas de solo lectura para el motor analítico.
// Lee saldos y movimientos sin bloqueos: los reportes son snapshots y toleran
// escrituras en vuelo.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de consultas analíticas.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetValuationRows devuelve saldos valorizados. branchID y category vacíos
// significan sin filtro.
func (r *AnalyticsRepo) GetValuationRows(ctx context.Context, companyID, branchID, category string) ([]repository.ValuationRow, error) {
	query := `
		SELECT i.id, i.sku, i.name, i.category, b.branch_id, b.uom_id, b.quantity, i.unit_cost
		FROM stock_balances b
		JOIN items i ON i.id = b.item_id
		WHERE i.company_id = $1 AND b.quantity <> 0`
	args := []any{companyID}
	if branchID != "" {
		args = append(args, branchID)
		query += fmt.Sprintf(` AND b.branch_id = $%d`, len(args))
	}
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(` AND i.category = $%d`, len(args))
	}
	query += ` ORDER BY i.sku, b.branch_id`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("valuation rows: %w", err)
	}
	defer rows.Close()
	var list []repository.ValuationRow
	for rows.Next() {
		var v repository.ValuationRow
		if err := rows.Scan(&v.ItemID, &v.SKU, &v.ItemName, &v.Category, &v.BranchID, &v.UOMID, &v.Quantity, &v.UnitCost); err != nil {
			return nil, fmt.Errorf("scan valuation row: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// GetItemValues devuelve el valor total de inventario por artículo, sumando
// todas las sucursales y UOMs.
func (r *AnalyticsRepo) GetItemValues(ctx context.Context, companyID string) ([]repository.ItemValueRow, error) {
	query := `
		SELECT i.id, i.sku, i.name, COALESCE(SUM(b.quantity * i.unit_cost), 0)
		FROM items i
		LEFT JOIN stock_balances b ON b.item_id = i.id
		WHERE i.company_id = $1 AND i.active
		GROUP BY i.id, i.sku, i.name`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("item values: %w", err)
	}
	defer rows.Close()
	var list []repository.ItemValueRow
	for rows.Next() {
		var v repository.ItemValueRow
		if err := rows.Scan(&v.ItemID, &v.SKU, &v.ItemName, &v.TotalValue); err != nil {
			return nil, fmt.Errorf("scan item value row: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// GetLastMovementDates devuelve, por (artículo, sucursal), la fecha del
// movimiento más reciente y el saldo actual. Solo llaves con al menos un
// movimiento. branchID vacío = todas las sucursales.
func (r *AnalyticsRepo) GetLastMovementDates(ctx context.Context, companyID, branchID string) ([]repository.LastMovementRow, error) {
	// El saldo va en subconsulta correlacionada: unirlo al escaneo agrupado
	// de movimientos lo multiplicaría por el número de filas del grupo.
	query := `
		SELECT i.id, i.sku, i.name, m.branch_id,
			COALESCE((SELECT SUM(b.quantity) FROM stock_balances b
				WHERE b.item_id = i.id AND b.branch_id = m.branch_id), 0),
			MAX(m.created_at)
		FROM stock_movements m
		JOIN items i ON i.id = m.item_id
		WHERE m.company_id = $1`
	args := []any{companyID}
	if branchID != "" {
		query += ` AND m.branch_id = $2`
		args = append(args, branchID)
	}
	query += ` GROUP BY i.id, i.sku, i.name, m.branch_id`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("last movement dates: %w", err)
	}
	defer rows.Close()
	var list []repository.LastMovementRow
	for rows.Next() {
		var v repository.LastMovementRow
		if err := rows.Scan(&v.ItemID, &v.SKU, &v.ItemName, &v.BranchID, &v.Quantity, &v.LastMovementAt); err != nil {
			return nil, fmt.Errorf("scan last movement row: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// GetOutQuantities devuelve las salidas acumuladas del período (magnitud
// positiva) y el stock actual por artículo.
func (r *AnalyticsRepo) GetOutQuantities(ctx context.Context, companyID string, from, to time.Time) ([]repository.OutQuantityRow, error) {
	query := `
		SELECT i.id, i.sku, i.name,
			COALESCE((SELECT SUM(-m.quantity) FROM stock_movements m
				WHERE m.item_id = i.id AND m.type = $2
				AND m.created_at >= $3 AND m.created_at <= $4), 0),
			COALESCE((SELECT SUM(b.quantity) FROM stock_balances b WHERE b.item_id = i.id), 0)
		FROM items i
		WHERE i.company_id = $1 AND i.active`
	rows, err := r.pool.Query(ctx, query, companyID, entity.MovementTypeOUT, from, to)
	if err != nil {
		return nil, fmt.Errorf("out quantities: %w", err)
	}
	defer rows.Close()
	var list []repository.OutQuantityRow
	for rows.Next() {
		var v repository.OutQuantityRow
		if err := rows.Scan(&v.ItemID, &v.SKU, &v.ItemName, &v.TotalOut, &v.CurrentStock); err != nil {
			return nil, fmt.Errorf("scan out quantity row: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// GetLowStockRows devuelve saldos en o por debajo del punto de reorden.
// Artículos con reorder_point = 0 quedan excluidos (sin alerta configurada).
func (r *AnalyticsRepo) GetLowStockRows(ctx context.Context, companyID string) ([]repository.LowStockRow, error) {
	query := `
		SELECT i.id, i.sku, i.name, b.branch_id, br.name, b.uom_id, b.quantity, i.reorder_point
		FROM stock_balances b
		JOIN items i ON i.id = b.item_id
		JOIN branches br ON br.id = b.branch_id
		WHERE i.company_id = $1 AND i.reorder_point > 0 AND b.quantity <= i.reorder_point
		ORDER BY i.sku, b.branch_id`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("low stock rows: %w", err)
	}
	defer rows.Close()
	var list []repository.LowStockRow
	for rows.Next() {
		var v repository.LowStockRow
		if err := rows.Scan(&v.ItemID, &v.SKU, &v.ItemName, &v.BranchID, &v.BranchName, &v.UOMID, &v.Quantity, &v.ReorderPoint); err != nil {
			return nil, fmt.Errorf("scan low stock row: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
