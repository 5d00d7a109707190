package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/invorya/ledger-api/internal/domain/entity"
)

// SignedDelta convierte una magnitud positiva en el delta con signo que el
// tipo de movimiento aplica sobre el saldo: IN/ADJUSTMENT suman, OUT resta.
// TRANSFER no tiene signo propio: se materializa como un OUT en origen y un
// IN en destino, cada uno con su propio delta.
func SignedDelta(movementType string, magnitude decimal.Decimal) decimal.Decimal {
	if movementType == entity.MovementTypeOUT {
		return magnitude.Neg()
	}
	return magnitude
}

// FoldQuantity acumula los deltas con signo de una secuencia de movimientos
// de lote. Es la cantidad derivada del lote: la suma es independiente del
// orden entre movimientos ya confirmados. Los TRANSFER reubican el lote
// entre sucursales sin alterar su cantidad, así que no participan del pliegue.
func FoldQuantity(movs []*entity.BatchMovement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movs {
		if m.Type == entity.MovementTypeTRANSFER {
			continue
		}
		total = total.Add(m.Quantity)
	}
	return total
}
