package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/invorya/ledger-api/internal/domain"
	"github.com/invorya/ledger-api/internal/domain/entity"
	"github.com/invorya/ledger-api/internal/domain/repository"
)

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

// StockTransferRepo implementación de StockTransferRepository sobre PostgreSQL
// (usable con pool o tx).
type StockTransferRepo struct {
	q Querier
}

// NewStockTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransferRepository(q Querier) *StockTransferRepo {
	return &StockTransferRepo{q: q}
}

const transferColumns = `id, company_id, item_id, from_branch_id, to_branch_id, uom_id, quantity, status, notes, created_at, created_by`

// Create persiste un traslado.
func (r *StockTransferRepo) Create(transfer *entity.StockTransfer) error {
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.CompanyID, transfer.ItemID,
		transfer.FromBranchID, transfer.ToBranchID, transfer.UOMID,
		transfer.Quantity, transfer.Status, nullIfEmpty(transfer.Notes),
		transfer.CreatedAt, nullIfEmpty(transfer.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create stock transfer: %w", err)
	}
	return nil
}

// GetByID obtiene un traslado por ID. Devuelve (nil, nil) si no existe.
func (r *StockTransferRepo) GetByID(id string) (*entity.StockTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM stock_transfers WHERE id = $1`
	t, err := scanTransfer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transfer: %w", err)
	}
	return t, nil
}

// UpdateStatus cambia el estado del traslado.
func (r *StockTransferRepo) UpdateStatus(id, status string) error {
	query := `UPDATE stock_transfers SET status = $2 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany lista los traslados de la empresa, más recientes primero.
func (r *StockTransferRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.StockTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM stock_transfers
		WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.StockTransfer, error) {
	var t entity.StockTransfer
	var notes, createdBy *string
	err := row.Scan(
		&t.ID, &t.CompanyID, &t.ItemID, &t.FromBranchID, &t.ToBranchID, &t.UOMID,
		&t.Quantity, &t.Status, &notes, &t.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	t.Notes = deref(notes)
	t.CreatedBy = deref(createdBy)
	return &t, nil
}
