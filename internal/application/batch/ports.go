package batch

import (
	"context"

	"github.com/invorya/ledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del sub-libro de lotes atados a esa tx. La creación de un lote
// (fila + IN sintético) y el par chequeo-de-cantidad/append de un movimiento
// dependen de esta atomicidad.
type TxRunner interface {
	RunBatch(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		batchMovRepo repository.BatchMovementRepository,
	) error) error
}
