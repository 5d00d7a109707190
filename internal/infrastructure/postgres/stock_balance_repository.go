package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/invorya/ledger-api/internal/domain/entity"
	"github.com/invorya/ledger-api/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo implementación de StockBalanceRepository sobre PostgreSQL
// (usable con pool o tx). Una llave sin fila equivale a saldo cero: Get y
// GetForUpdate devuelven un saldo en cero en vez de error.
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

const balanceColumns = `item_id, branch_id, uom_id, quantity, reserved_quantity, available_quantity, updated_at`

// Get obtiene el saldo de una llave (item, sucursal, UOM).
func (r *StockBalanceRepo) Get(key entity.BalanceKey) (*entity.StockBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM stock_balances
		WHERE item_id = $1 AND branch_id = $2 AND uom_id = $3`
	return r.get(query, key)
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE).
// Si la fila aún no existe no hay nada que bloquear; el INSERT posterior del
// Upsert serializa por el PK compuesto.
func (r *StockBalanceRepo) GetForUpdate(key entity.BalanceKey) (*entity.StockBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM stock_balances
		WHERE item_id = $1 AND branch_id = $2 AND uom_id = $3
		FOR UPDATE`
	return r.get(query, key)
}

func (r *StockBalanceRepo) get(query string, key entity.BalanceKey) (*entity.StockBalance, error) {
	var b entity.StockBalance
	err := r.q.QueryRow(context.Background(), query, key.ItemID, key.BranchID, key.UOMID).Scan(
		&b.ItemID, &b.BranchID, &b.UOMID, &b.Quantity, &b.ReservedQuantity, &b.AvailableQuantity, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{
				ItemID:            key.ItemID,
				BranchID:          key.BranchID,
				UOMID:             key.UOMID,
				Quantity:          decimal.Zero,
				ReservedQuantity:  decimal.Zero,
				AvailableQuantity: decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get stock balance: %w", err)
	}
	return &b, nil
}

// Upsert inserta o actualiza el saldo de la llave compuesta.
func (r *StockBalanceRepo) Upsert(balance *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (item_id, branch_id, uom_id, quantity, reserved_quantity, available_quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (item_id, branch_id, uom_id)
		DO UPDATE SET quantity = EXCLUDED.quantity,
			reserved_quantity = EXCLUDED.reserved_quantity,
			available_quantity = EXCLUDED.available_quantity,
			updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		balance.ItemID, balance.BranchID, balance.UOMID,
		balance.Quantity, balance.ReservedQuantity, balance.AvailableQuantity,
	)
	if err != nil {
		return fmt.Errorf("upsert stock balance: %w", err)
	}
	return nil
}

// ListByBranch lista los saldos de una sucursal.
func (r *StockBalanceRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.StockBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM stock_balances
		WHERE branch_id = $1 ORDER BY item_id, uom_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list balances by branch: %w", err)
	}
	defer rows.Close()
	return collectBalances(rows)
}

// ListByItem lista los saldos de un artículo en todas las sucursales.
func (r *StockBalanceRepo) ListByItem(itemID string) ([]*entity.StockBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM stock_balances
		WHERE item_id = $1 ORDER BY branch_id, uom_id`
	rows, err := r.q.Query(context.Background(), query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list balances by item: %w", err)
	}
	defer rows.Close()
	return collectBalances(rows)
}

func collectBalances(rows pgx.Rows) ([]*entity.StockBalance, error) {
	var list []*entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.ItemID, &b.BranchID, &b.UOMID, &b.Quantity, &b.ReservedQuantity, &b.AvailableQuantity, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
