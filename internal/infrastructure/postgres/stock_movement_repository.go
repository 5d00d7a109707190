package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/invorya/ledger-api/internal/domain/entity"
	"github.com/invorya/ledger-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del libro mayor sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only: no existen UPDATE ni DELETE sobre stock_movements.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, company_id, item_id, branch_id, uom_id, type, reference_type, reference_id,
		quantity, unit_cost, total_cost, batch_number, lot_number, expiry_date, created_at, created_by`

// Create persiste un movimiento del libro mayor.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.CompanyID, movement.ItemID, movement.BranchID, movement.UOMID,
		movement.Type, movement.ReferenceType, nullIfEmpty(movement.ReferenceID),
		movement.Quantity, movement.UnitCost, movement.TotalCost,
		nullIfEmpty(movement.BatchNumber), nullIfEmpty(movement.LotNumber), movement.ExpiryDate,
		movement.CreatedAt, nullIfEmpty(movement.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Devuelve (nil, nil) si no existe.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// ListByItem lista movimientos de un artículo en un rango de fechas opcional.
func (r *StockMovementRepo) ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.listBy("item_id", itemID, from, to, limit, offset)
}

// ListByBranch lista movimientos de una sucursal en un rango de fechas opcional.
func (r *StockMovementRepo) ListByBranch(branchID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.listBy("branch_id", branchID, from, to, limit, offset)
}

func (r *StockMovementRepo) listBy(column, value string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE ` + column + ` = $1`
	args := []any{value}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by %s: %w", column, err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// ListByReference devuelve los movimientos que comparten un documento origen,
// en orden de creación (el OUT de un traslado precede a su IN).
func (r *StockMovementRepo) ListByReference(referenceID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE reference_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var referenceID, batchNumber, lotNumber, createdBy *string
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.ItemID, &m.BranchID, &m.UOMID,
		&m.Type, &m.ReferenceType, &referenceID,
		&m.Quantity, &m.UnitCost, &m.TotalCost,
		&batchNumber, &lotNumber, &m.ExpiryDate,
		&m.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	m.ReferenceID = deref(referenceID)
	m.BatchNumber = deref(batchNumber)
	m.LotNumber = deref(lotNumber)
	m.CreatedBy = deref(createdBy)
	return &m, nil
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
