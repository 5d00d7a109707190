package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un traslado. El traslado se materializa de forma síncrona:
// nace PENDING y pasa a COMPLETED dentro de la misma transacción que escribe
// los dos movimientos. No se modela un estado en tránsito.
const (
	TransferPENDING   = "PENDING"
	TransferCOMPLETED = "COMPLETED"
)

// StockTransfer agrupa lógicamente el par de movimientos OUT/IN de un
// traslado entre sucursales. Ambos movimientos llevan el ID del traslado
// como ReferenceID.
type StockTransfer struct {
	ID           string
	CompanyID    string
	ItemID       string
	FromBranchID string
	ToBranchID   string
	UOMID        string
	Quantity     decimal.Decimal // magnitud positiva
	Status       string
	Notes        string
	CreatedAt    time.Time
	CreatedBy    string
}
