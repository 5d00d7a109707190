package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/invorya/ledger-api/internal/domain"
	"github.com/invorya/ledger-api/internal/domain/entity"
	"github.com/invorya/ledger-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id, company_id, item_id, branch_id, batch_number, lot_number, supplier_batch,
		production_date, expiry_date, quantity, uom_id, quality_status, notes, created_at, updated_at, created_by`

// Create persiste un lote. La tabla tiene UNIQUE (company_id, item_id, batch_number);
// la violación se traduce a domain.ErrDuplicateBatchNumber.
func (r *BatchRepo) Create(batch *entity.Batch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	query := `
		INSERT INTO batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.CompanyID, batch.ItemID, batch.BranchID,
		batch.BatchNumber, nullIfEmpty(batch.LotNumber), nullIfEmpty(batch.SupplierBatch),
		batch.ProductionDate, batch.ExpiryDate, batch.Quantity, batch.UOMID,
		batch.QualityStatus, nullIfEmpty(batch.Notes),
		batch.CreatedAt, batch.UpdatedAt, nullIfEmpty(batch.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBatchNumber
		}
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID. Devuelve (nil, nil) si no existe.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	return r.getOne(query, id)
}

// GetForUpdate obtiene el lote y bloquea su fila (SELECT FOR UPDATE) para
// serializar el chequeo de cantidad con el append del movimiento.
func (r *BatchRepo) GetForUpdate(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

// GetByNumber obtiene un lote por su número dentro de (empresa, artículo).
func (r *BatchRepo) GetByNumber(companyID, itemID, batchNumber string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches
		WHERE company_id = $1 AND item_id = $2 AND batch_number = $3`
	return r.getOne(query, companyID, itemID, batchNumber)
}

func (r *BatchRepo) getOne(query string, args ...any) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// ListBySupplierBatch devuelve los lotes hijos de un número de lote dado.
func (r *BatchRepo) ListBySupplierBatch(companyID, itemID, batchNumber string) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches
		WHERE company_id = $1 AND item_id = $2 AND supplier_batch = $3
		ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, companyID, itemID, batchNumber)
	if err != nil {
		return nil, fmt.Errorf("list batches by supplier batch: %w", err)
	}
	defer rows.Close()
	return collectBatches(rows)
}

// ListByItem lista los lotes de un artículo, más recientes primero.
func (r *BatchRepo) ListByItem(itemID string, limit, offset int) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches
		WHERE item_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list batches by item: %w", err)
	}
	defer rows.Close()
	return collectBatches(rows)
}

// UpdateQuality muta solo el estado de calidad y las notas.
func (r *BatchRepo) UpdateQuality(id, qualityStatus, notes string) error {
	query := `UPDATE batches SET quality_status = $2, notes = $3, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, qualityStatus, nullIfEmpty(notes))
	if err != nil {
		return fmt.Errorf("update batch quality: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListExpiringBefore devuelve lotes de la empresa con vencimiento no nulo y
// anterior o igual al límite, próximos a vencer primero.
func (r *BatchRepo) ListExpiringBefore(companyID string, before time.Time) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches
		WHERE company_id = $1 AND expiry_date IS NOT NULL AND expiry_date <= $2
		ORDER BY expiry_date ASC`
	rows, err := r.q.Query(context.Background(), query, companyID, before)
	if err != nil {
		return nil, fmt.Errorf("list expiring batches: %w", err)
	}
	defer rows.Close()
	return collectBatches(rows)
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	var lotNumber, supplierBatch, notes, createdBy *string
	err := row.Scan(
		&b.ID, &b.CompanyID, &b.ItemID, &b.BranchID,
		&b.BatchNumber, &lotNumber, &supplierBatch,
		&b.ProductionDate, &b.ExpiryDate, &b.Quantity, &b.UOMID,
		&b.QualityStatus, &notes, &b.CreatedAt, &b.UpdatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	b.LotNumber = deref(lotNumber)
	b.SupplierBatch = deref(supplierBatch)
	b.Notes = deref(notes)
	b.CreatedBy = deref(createdBy)
	return &b, nil
}

func collectBatches(rows pgx.Rows) ([]*entity.Batch, error) {
	var list []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
