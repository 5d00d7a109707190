package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceKey identifica una fila de saldo: la tupla (item, sucursal, UOM).
type BalanceKey struct {
	ItemID   string
	BranchID string
	UOMID    string
}

// StockBalance representa el saldo actual de un artículo en una sucursal y UOM.
// Es una proyección derivada del libro de movimientos, mantenida
// incrementalmente en la misma transacción que cada movimiento.
// ReservedQuantity existe como gancho para asignación de pedidos; hoy
// ningún flujo la modifica.
type StockBalance struct {
	ItemID            string
	BranchID          string
	UOMID             string
	Quantity          decimal.Decimal
	ReservedQuantity  decimal.Decimal
	AvailableQuantity decimal.Decimal // Quantity - ReservedQuantity
	UpdatedAt         time.Time
}

// Key devuelve la llave compuesta del saldo.
func (b *StockBalance) Key() BalanceKey {
	return BalanceKey{ItemID: b.ItemID, BranchID: b.BranchID, UOMID: b.UOMID}
}

// Recalculate deja AvailableQuantity consistente tras mutar Quantity o ReservedQuantity.
func (b *StockBalance) Recalculate() {
	b.AvailableQuantity = b.Quantity.Sub(b.ReservedQuantity)
}
