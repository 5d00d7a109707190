package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/invorya/ledger-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isTxConflict verifica si un error es un fallo de serialización (40001) o
// deadlock detectado (40P01). Ambos son transitorios: la tx se puede reintentar.
func isTxConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// translateTxError envuelve errores transitorios de tx en domain.ErrTxConflict
// preservando la causa, para que el caso de uso decida el reintento sin
// conocer códigos SQLSTATE.
func translateTxError(err error) error {
	if err == nil {
		return nil
	}
	if isTxConflict(err) {
		return fmt.Errorf("%w: %v", domain.ErrTxConflict, err)
	}
	return err
}
