package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/invorya/ledger-api/internal/domain/entity"
	"github.com/invorya/ledger-api/internal/domain/repository"
)

var _ repository.BatchMovementRepository = (*BatchMovementRepo)(nil)

// BatchMovementRepo implementación del sub-libro de lotes sobre PostgreSQL
// (usable con pool o tx). Append-only, igual que stock_movements.
type BatchMovementRepo struct {
	q Querier
}

// NewBatchMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchMovementRepository(q Querier) *BatchMovementRepo {
	return &BatchMovementRepo{q: q}
}

// Create persiste un movimiento de lote.
func (r *BatchMovementRepo) Create(movement *entity.BatchMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO batch_movements (id, batch_id, type, quantity, from_branch_id, to_branch_id, reference_type, reference_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.BatchID, movement.Type, movement.Quantity,
		nullIfEmpty(movement.FromBranchID), nullIfEmpty(movement.ToBranchID),
		movement.ReferenceType, nullIfEmpty(movement.ReferenceID),
		movement.CreatedAt, nullIfEmpty(movement.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create batch movement: %w", err)
	}
	return nil
}

// ListByBatch devuelve los movimientos del lote en orden de creación.
func (r *BatchMovementRepo) ListByBatch(batchID string) ([]*entity.BatchMovement, error) {
	query := `
		SELECT id, batch_id, type, quantity, from_branch_id, to_branch_id, reference_type, reference_id, created_at, created_by
		FROM batch_movements WHERE batch_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, batchID)
	if err != nil {
		return nil, fmt.Errorf("list batch movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.BatchMovement
	for rows.Next() {
		var m entity.BatchMovement
		var fromBranch, toBranch, referenceID, createdBy *string
		if err := rows.Scan(&m.ID, &m.BatchID, &m.Type, &m.Quantity,
			&fromBranch, &toBranch, &m.ReferenceType, &referenceID,
			&m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan batch movement: %w", err)
		}
		m.FromBranchID = deref(fromBranch)
		m.ToBranchID = deref(toBranch)
		m.ReferenceID = deref(referenceID)
		m.CreatedBy = deref(createdBy)
		list = append(list, &m)
	}
	return list, rows.Err()
}
