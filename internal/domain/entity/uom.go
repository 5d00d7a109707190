package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// UOM representa una unidad de medida. ConversionFactor expresa cuántas
// unidades base equivalen a una unidad de esta UOM (ej. caja de 12 → 12).
// El libro mayor usa el UOMID solo como parte de la llave del saldo;
// la conversión es un servicio de datos maestros.
type UOM struct {
	ID               string
	CompanyID        string
	Code             string // código único por empresa (UN, KG, CJ12...)
	Name             string
	ConversionFactor decimal.Decimal // a unidad base; 1 para la base
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ToBase convierte una cantidad expresada en esta UOM a unidades base.
func (u *UOM) ToBase(qty decimal.Decimal) decimal.Decimal {
	return qty.Mul(u.ConversionFactor)
}

// FromBase convierte una cantidad en unidades base a esta UOM.
// Si el factor es cero devuelve cero (UOM mal configurada).
func (u *UOM) FromBase(qty decimal.Decimal) decimal.Decimal {
	if u.ConversionFactor.IsZero() {
		return decimal.Zero
	}
	return qty.Div(u.ConversionFactor)
}
