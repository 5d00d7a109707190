package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de calidad de un lote. No hay grafo de transiciones: cualquier
// estado puede seguir a cualquier otro y el cambio es independiente de los
// movimientos de cantidad.
const (
	QualityPENDING    = "PENDING"
	QualityPASSED     = "PASSED"
	QualityFAILED     = "FAILED"
	QualityQUARANTINE = "QUARANTINE"
)

// ValidQualityStatus reporta si s es un estado de calidad enumerado.
func ValidQualityStatus(s string) bool {
	switch s {
	case QualityPENDING, QualityPASSED, QualityFAILED, QualityQUARANTINE:
		return true
	}
	return false
}

// Batch representa un lote de un artículo con su propio sub-libro de
// movimientos y metadatos de calidad/vencimiento. BatchNumber es único por
// (empresa, artículo). SupplierBatch enlaza el lote padre por número de lote
// (linaje de un solo salto: un padre, varios hijos).
type Batch struct {
	ID             string
	CompanyID      string
	ItemID         string
	BranchID       string
	BatchNumber    string
	LotNumber      string
	SupplierBatch  string // BatchNumber del lote origen, si existe
	ProductionDate *time.Time
	ExpiryDate     *time.Time
	Quantity       decimal.Decimal // cantidad inicial; la vigente se deriva de BatchMovement
	UOMID          string
	QualityStatus  string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CreatedBy      string
}

// DaysUntilExpiry devuelve los días hasta el vencimiento redondeando hacia
// abajo; -1 si el lote no tiene fecha de vencimiento.
func (b *Batch) DaysUntilExpiry(now time.Time) int {
	if b.ExpiryDate == nil {
		return -1
	}
	return int(b.ExpiryDate.Sub(now).Hours() / 24)
}

// IsExpired reporta si el lote ya venció. Se calcula al momento de la
// consulta, nunca se almacena.
func (b *Batch) IsExpired(now time.Time) bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.DaysUntilExpiry(now) <= 0
}

// ExpiresWithin reporta si el lote vence dentro de la ventana de alerta:
// now < ExpiryDate <= now + daysAhead días.
func (b *Batch) ExpiresWithin(now time.Time, daysAhead int) bool {
	if b.ExpiryDate == nil {
		return false
	}
	limit := now.AddDate(0, 0, daysAhead)
	return b.ExpiryDate.After(now) && !b.ExpiryDate.After(limit)
}
