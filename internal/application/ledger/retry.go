package ledger

import (
	"context"
	"errors"

	"github.com/invorya/ledger-api/internal/domain"
)

// maxTxAttempts acota los reintentos ante fallas de serialización.
const maxTxAttempts = 3

// runWithRetry reintenta fn solo ante domain.ErrTxConflict (carrera benigna
// señalada por la base de datos). Los errores de negocio nunca se reintentan.
func runWithRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = fn()
		if !errors.Is(err, domain.ErrTxConflict) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}
