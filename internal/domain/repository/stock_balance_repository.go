package repository

import "github.com/invorya/ledger-api/internal/domain/entity"

// StockBalanceRepository define el puerto para consultar/actualizar el saldo
// por (item, sucursal, UOM). Usado dentro de transacciones para garantizar
// consistencia con el libro de movimientos.
type StockBalanceRepository interface {
	Get(key entity.BalanceKey) (*entity.StockBalance, error)
	// GetForUpdate bloquea la fila del saldo (SELECT FOR UPDATE) para
	// serializar escrituras concurrentes sobre la misma llave.
	GetForUpdate(key entity.BalanceKey) (*entity.StockBalance, error)
	Upsert(balance *entity.StockBalance) error
	ListByBranch(branchID string, limit, offset int) ([]*entity.StockBalance, error)
	ListByItem(itemID string) ([]*entity.StockBalance, error)
}
