package ledger

import (
	"context"

	"github.com/invorya/ledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor del libro
// mayor: o se confirman todas las escrituras de la función o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		balanceRepo repository.StockBalanceRepository,
		itemRepo repository.ItemRepository,
	) error) error

	// RunTransfer añade el repositorio de traslados para la secuencia de
	// cinco escrituras del orquestador.
	RunTransfer(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		balanceRepo repository.StockBalanceRepository,
		transferRepo repository.StockTransferRepository,
	) error) error
}
