package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchMovement representa un movimiento inmutable del sub-libro de un lote.
// Quantity va con signo igual que StockMovement. La creación de un lote
// siempre emite un IN sintético con referencia PRODUCTION, de modo que la
// cantidad derivada del lote nunca parte de un estado indefinido.
type BatchMovement struct {
	ID            string
	BatchID       string
	Type          string          // IN, OUT, ADJUSTMENT, TRANSFER
	Quantity      decimal.Decimal // con signo
	FromBranchID  string          // solo TRANSFER
	ToBranchID    string          // solo TRANSFER
	ReferenceType string
	ReferenceID   string
	CreatedAt     time.Time
	CreatedBy     string
}
